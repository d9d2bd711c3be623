package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/pkg/anthropic"
)

const shortDescriptionPrompt = `Based ONLY on the following context, write a concise 1-2 sentence description of %s.

RULES:
- Use ONLY information from the context below
- Maximum 2 sentences
- Focus on what the company does and their main offerings
- Be specific and factual
- No marketing jargon or superlatives

CONTEXT:
%s

Short Description (1-2 sentences):`

const longDescriptionPrompt = `Based ONLY on the following context, write a comprehensive 2-3 paragraph description of %s.%s

RULES:
- Use ONLY information from the context below
- Write 2-3 detailed paragraphs
- Paragraph 1: Company overview and main business
- Paragraph 2: Products/services and target markets
- Paragraph 3: Recent developments, growth, or strategic focus
- Be specific and factual
- Use complete sentences and proper structure
- No marketing jargon or superlatives

CONTEXT:
%s

Long Description (2-3 paragraphs):`

// descriptionTemperature keeps generated prose close to the source text.
const descriptionTemperature = 0.3

// Describer generates short and long company descriptions from assembled
// context. Both calls are fail-soft: a model failure yields a generic
// fallback sentence instead of an error.
type Describer struct {
	ai    anthropic.Client
	model string
	cfg   config.ExtractionConfig
}

// NewDescriber creates a Describer.
func NewDescriber(ai anthropic.Client, aiCfg config.AnthropicConfig, exCfg config.ExtractionConfig) *Describer {
	return &Describer{ai: ai, model: aiCfg.Model, cfg: exCfg}
}

// ShortDescription generates a 1-2 sentence company description.
func (d *Describer) ShortDescription(ctx context.Context, combinedContext, companyName string) string {
	prompt := fmt.Sprintf(shortDescriptionPrompt, companyName,
		Truncate(combinedContext, d.cfg.ShortDescChars))

	text, err := d.generate(ctx, prompt, d.cfg.ShortDescTokens)
	if err != nil {
		zap.L().Warn("describe: short description failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return fmt.Sprintf("%s is a company in the technology sector.", companyName)
	}
	return text
}

// LongDescription generates a 2-3 paragraph company description, optionally
// anchored by an industry classification.
func (d *Describer) LongDescription(ctx context.Context, combinedContext, companyName string, mapping *model.IndustryMapping) string {
	industryLine := ""
	if mapping != nil {
		industryLine = fmt.Sprintf("\nIndustry Classification: %s - %s", mapping.Sector, mapping.SubIndustry)
	}

	prompt := fmt.Sprintf(longDescriptionPrompt, companyName, industryLine,
		Truncate(combinedContext, d.cfg.LongDescChars))

	text, err := d.generate(ctx, prompt, d.cfg.LongDescTokens)
	if err != nil {
		zap.L().Warn("describe: long description failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		sector := "technology"
		if mapping != nil && mapping.Sector != "" {
			sector = mapping.Sector
		}
		return fmt.Sprintf("%s operates in the %s sector, providing solutions and services to its customers.", companyName, sector)
	}
	return text
}

func (d *Describer) generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	temp := descriptionTemperature
	resp, err := d.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.model,
		MaxTokens:   maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}
