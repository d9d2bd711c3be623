package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionlabs/profilegen/internal/model"
)

func TestParseModelJSON_Direct(t *testing.T) {
	raw, err := parseModelJSON(`{"business_summary": "Acme makes widgets"}`)
	require.NoError(t, err)
	assert.Equal(t, "Acme makes widgets", raw["business_summary"])
}

func TestParseModelJSON_FencedMarkdown(t *testing.T) {
	raw, err := parseModelJSON("```json\n{\"hiring_focus\": [\"engineers\"]}\n```")
	require.NoError(t, err)
	assert.NotNil(t, raw["hiring_focus"])
}

func TestParseModelJSON_SurroundingProse(t *testing.T) {
	text := `Here is the extracted data:
{"business_summary": "Acme Corp builds industrial robots", "regions": ["Europe"]}
Let me know if you need anything else.`

	raw, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp builds industrial robots", raw["business_summary"])
}

func TestParseModelJSON_TrailingCommasAndComments(t *testing.T) {
	text := `{
  "product_lines": ["robots", "sensors",], // main offerings
  "regions": ["APAC",],
}`

	raw, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.NotNil(t, raw["product_lines"])
}

func TestParseModelJSON_SkipsUnparseableSpan(t *testing.T) {
	// First balanced span is broken; the second parses.
	text := `{"broken": } and then {"regions": ["LATAM"]}`

	raw, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.NotNil(t, raw["regions"])
}

func TestParseModelJSON_NoObject(t *testing.T) {
	_, err := parseModelJSON("I could not find any relevant information.")
	assert.Error(t, err)
}

func TestValidateAndNormalize_MissingKeysGetDefaults(t *testing.T) {
	out := validateAndNormalize(map[string]any{}, model.GroupFields[model.GroupBusinessOverview])
	assert.Equal(t, "", out.BusinessSummary)
	assert.Equal(t, []string{}, out.ProductLines)
	assert.Equal(t, []string{}, out.TargetIndustries)
	assert.Equal(t, []string{}, out.Regions)
}

func TestValidateAndNormalize_ScalarSplitIntoList(t *testing.T) {
	out := validateAndNormalize(map[string]any{
		"product_lines": "robots, sensors\ncontrollers",
	}, model.GroupFields[model.GroupBusinessOverview])
	assert.Equal(t, []string{"robots", "sensors", "controllers"}, out.ProductLines)
}

func TestValidateAndNormalize_ListItemsTrimmedAndCleaned(t *testing.T) {
	out := validateAndNormalize(map[string]any{
		"regions": []any{"  Europe ", "", nil, 42},
	}, model.GroupFields[model.GroupBusinessOverview])
	assert.Equal(t, []string{"Europe", "42"}, out.Regions)
}

func TestValidateAndNormalize_OnlyRequestedKeys(t *testing.T) {
	// The hiring group must not pick up business fields from the output.
	out := validateAndNormalize(map[string]any{
		"hiring_focus":     []any{"ML Engineer"},
		"business_summary": "should be ignored",
	}, model.GroupFields[model.GroupHiringFocus])
	assert.Equal(t, []string{"ML Engineer"}, out.HiringFocus)
	assert.Equal(t, "", out.BusinessSummary)
}

func TestBuildExtractionPrompt_ContainsContextAndSchema(t *testing.T) {
	prompt := buildExtractionPrompt("=== WEBSITE INFORMATION ===\nacme text", model.GroupBusinessOverview)
	assert.Contains(t, prompt, "acme text")
	assert.Contains(t, prompt, `"business_summary"`)
	assert.Contains(t, prompt, "ONLY valid JSON")
}
