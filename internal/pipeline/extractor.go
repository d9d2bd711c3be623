package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/anthropic"
)

// Extractor issues one generative call per field group and recovers a
// structured partial FieldExtraction from the response.
type Extractor struct {
	ai          anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewExtractor creates an Extractor.
func NewExtractor(ai anthropic.Client, aiCfg config.AnthropicConfig, exCfg config.ExtractionConfig) *Extractor {
	return &Extractor{
		ai:          ai,
		model:       aiCfg.Model,
		temperature: exCfg.Temperature,
		maxTokens:   exCfg.MaxTokens,
	}
}

// ExtractGroup extracts the field group's keys from the assembled context.
// Model and parse failures are recovered locally: the group's empty-value
// defaults are returned and the failure is logged, never propagated.
func (e *Extractor) ExtractGroup(ctx context.Context, groupContext string, group model.FieldGroup) model.FieldExtraction {
	keys := model.GroupFields[group]

	prompt := buildExtractionPrompt(groupContext, group)
	temp := e.temperature

	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("extract: model call failed, using schema defaults",
			zap.String("field_group", string(group)),
			zap.Error(err),
		)
		return model.EmptyFieldExtraction()
	}

	raw, err := parseModelJSON(resp.Text())
	if err != nil {
		zap.L().Warn("extract: unparseable model output, using schema defaults",
			zap.String("field_group", string(group)),
			zap.Error(err),
		)
		return model.EmptyFieldExtraction()
	}

	extracted := validateAndNormalize(raw, keys)
	zap.L().Debug("extract: group extracted",
		zap.String("field_group", string(group)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return extracted
}
