package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/model"
)

// placeholderPatterns match values the model invents when it has nothing to
// say: schema echoes like "product A" or "industry X", the literal words
// "example" and "placeholder", and bare single letters. A placeholder is
// rejected unconditionally, even when the same string appears in the context.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^product\s+[a-z]$`),
	regexp.MustCompile(`(?i)^industry\s+[a-z]$`),
	regexp.MustCompile(`(?i)^region\s+[a-z]$`),
	regexp.MustCompile(`(?i)\bexample\b`),
	regexp.MustCompile(`(?i)\bplaceholder\b`),
	regexp.MustCompile(`(?i)^[a-z]$`),
}

// minSummaryChars is the minimum length for a business summary to survive
// the filter.
const minSummaryChars = 20

func isPlaceholder(value string) bool {
	v := strings.TrimSpace(value)
	for _, re := range placeholderPatterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// traceable reports whether an item can be traced back to the context it was
// extracted from. A single-token item must appear verbatim (case-insensitive
// substring); a multi-token item needs at least half of its tokens present,
// each checked independently.
func traceable(item, loweredContext string) bool {
	tokens := strings.Fields(strings.ToLower(item))
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) == 1 {
		return strings.Contains(loweredContext, tokens[0])
	}

	found := 0
	for _, tok := range tokens {
		if strings.Contains(loweredContext, tok) {
			found++
		}
	}
	return found*2 >= len(tokens)
}

// FilterExtraction verifies every extracted atom against the context it was
// derived from. Placeholder-shaped values are dropped unconditionally;
// remaining list items must be traceable to the context. The business
// summary is emptied when placeholder-shaped or shorter than minSummaryChars.
// Returns the filtered extraction and the number of dropped values. Only
// removes, never invents.
func FilterExtraction(extracted model.FieldExtraction, context string) (model.FieldExtraction, int) {
	lowered := strings.ToLower(context)
	drops := 0

	filterList := func(field string, items []string) []string {
		kept := make([]string, 0, len(items))
		for _, item := range items {
			switch {
			case isPlaceholder(item):
				drops++
				zap.L().Debug("verify: dropped placeholder value",
					zap.String("field", field),
					zap.String("value", item),
				)
			case !traceable(item, lowered):
				drops++
				zap.L().Debug("verify: dropped unverifiable value",
					zap.String("field", field),
					zap.String("value", item),
				)
			default:
				kept = append(kept, item)
			}
		}
		return kept
	}

	out := extracted
	out.ProductLines = filterList(model.FieldProductLines, extracted.ProductLines)
	out.TargetIndustries = filterList(model.FieldTargetIndustries, extracted.TargetIndustries)
	out.Regions = filterList(model.FieldRegions, extracted.Regions)
	out.HiringFocus = filterList(model.FieldHiringFocus, extracted.HiringFocus)
	out.KeyRecentEvents = filterList(model.FieldKeyRecentEvents, extracted.KeyRecentEvents)

	if summary := strings.TrimSpace(extracted.BusinessSummary); summary != "" {
		if isPlaceholder(summary) || len(summary) < minSummaryChars {
			out.BusinessSummary = ""
			drops++
			zap.L().Debug("verify: dropped business summary",
				zap.Int("length", len(summary)),
			)
		}
	}

	if drops > 0 {
		zap.L().Info("verify: dropped unverified values", zap.Int("count", drops))
	}
	return out, drops
}
