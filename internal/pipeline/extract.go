package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/fusionlabs/profilegen/internal/model"
)

// Prompt fragments per field group. Each prompt names the exact output
// schema, forbids knowledge outside the supplied context, forbids
// placeholder values and demands a bare JSON object.
const extractionPromptTemplate = `You are a data extraction system. Extract structured information about the company and output ONLY valid JSON.

INPUT DATA:
%s

OUTPUT FORMAT (copy this structure exactly):
%s

RULES:
1. Return ONLY the JSON object
2. Use ONLY information from the input data above
3. NO placeholder values (no "product A", "industry X", "example")
4. NO explanations
5. NO markdown (no ` + "```" + `)
6. NO extra text

JSON:`

// groupSchemas holds the literal JSON skeleton shown to the model for each
// field group.
var groupSchemas = map[model.FieldGroup]string{
	model.GroupBusinessOverview: `{
  "business_summary": "brief description of the company",
  "product_lines": ["list of products or services"],
  "target_industries": ["industries the company serves"],
  "regions": ["geographic regions of operation"]
}`,
	model.GroupHiringFocus: `{
  "hiring_focus": ["roles the company is hiring for"]
}`,
	model.GroupRecentEvents: `{
  "key_recent_events": ["recent announcements, launches or milestones"]
}`,
}

// buildExtractionPrompt renders the strict JSON-only prompt for one group.
func buildExtractionPrompt(context string, group model.FieldGroup) string {
	return fmt.Sprintf(extractionPromptTemplate, context, groupSchemas[group])
}

var (
	codeFenceRe   = regexp.MustCompile("```(?:json)?\\s*")
	lineCommentRe = regexp.MustCompile(`//[^\n]*\n`)
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// parseModelJSON recovers a JSON object from possibly malformed generative
// output. Strategy: strip markdown fences, try a direct parse, then scan the
// text with a brace stack and try each balanced top-level {...} span after
// removing //-comments and trailing commas. Returns an error only when no
// span parses.
func parseModelJSON(text string) (map[string]any, error) {
	cleaned := codeFenceRe.ReplaceAllString(strings.TrimSpace(text), "")

	var direct map[string]any
	if err := json.Unmarshal([]byte(cleaned), &direct); err == nil {
		return direct, nil
	}

	depth := 0
	start := -1
	for i, ch := range cleaned {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				span := cleaned[start : i+1]
				span = lineCommentRe.ReplaceAllString(span, "\n")
				span = trailingComma.ReplaceAllString(span, "$1")

				var parsed map[string]any
				if err := json.Unmarshal([]byte(span), &parsed); err == nil {
					return parsed, nil
				}
				// Keep scanning: a later span may parse.
			}
		}
	}

	return nil, eris.New("extract: no parseable JSON object in model output")
}

// splitListRe splits a scalar value the model returned where a list was
// expected.
var splitListRe = regexp.MustCompile(`[,\n]`)

// validateAndNormalize coerces the raw parsed object onto the canonical
// schema for the given keys. List fields accept scalars (split on commas and
// newlines); every item is stringified and trimmed, empty items dropped;
// missing keys get type-appropriate defaults.
func validateAndNormalize(raw map[string]any, keys []string) model.FieldExtraction {
	out := model.EmptyFieldExtraction()

	for _, key := range keys {
		value, ok := raw[key]
		if key == model.FieldBusinessSummary {
			if ok && value != nil {
				out.BusinessSummary = strings.TrimSpace(stringify(value))
			}
			continue
		}

		items := normalizeList(value, ok)
		switch key {
		case model.FieldProductLines:
			out.ProductLines = items
		case model.FieldTargetIndustries:
			out.TargetIndustries = items
		case model.FieldRegions:
			out.Regions = items
		case model.FieldHiringFocus:
			out.HiringFocus = items
		case model.FieldKeyRecentEvents:
			out.KeyRecentEvents = items
		}
	}
	return out
}

// normalizeList coerces an arbitrary JSON value into a cleaned string slice.
func normalizeList(value any, present bool) []string {
	if !present || value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			s := strings.TrimSpace(stringify(item))
			if s != "" {
				items = append(items, s)
			}
		}
		return items
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		parts := splitListRe.Split(v, -1)
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				items = append(items, p)
			}
		}
		return items
	default:
		return []string{}
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
