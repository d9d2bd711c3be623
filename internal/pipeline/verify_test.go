package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusionlabs/profilegen/internal/model"
)

const verifyContext = `=== WEBSITE INFORMATION ===
Acme Robotics builds autonomous warehouse robots and computer vision sensors for logistics companies across Berlin and Munich.
=== JOB POSTINGS ===
We are hiring a Senior Software Engineer and robotics technicians.`

func TestFilterExtraction_PlaceholderAlwaysRejected(t *testing.T) {
	// Even with "Product A" literally present in the context, the
	// placeholder shape wins.
	ctx := verifyContext + " Product A is our flagship."

	in := model.EmptyFieldExtraction()
	in.ProductLines = []string{"Product A", "warehouse robots"}

	out, drops := FilterExtraction(in, ctx)
	assert.Equal(t, []string{"warehouse robots"}, out.ProductLines)
	assert.Equal(t, 1, drops)
}

func TestFilterExtraction_SingleTokenVerbatim(t *testing.T) {
	in := model.EmptyFieldExtraction()
	in.Regions = []string{"berlin", "Tokyo"}

	out, drops := FilterExtraction(in, verifyContext)
	// Case-insensitive substring match: Berlin survives, Tokyo does not.
	assert.Equal(t, []string{"berlin"}, out.Regions)
	assert.Equal(t, 1, drops)
}

func TestFilterExtraction_MultiTokenMajority(t *testing.T) {
	in := model.EmptyFieldExtraction()
	// 2 of 3 tokens present ("Senior", "Software", "Engineer" all present;
	// "Principal Data Architect" has none).
	in.HiringFocus = []string{"Senior Software Engineer", "Principal Data Architect"}

	out, _ := FilterExtraction(in, verifyContext)
	assert.Equal(t, []string{"Senior Software Engineer"}, out.HiringFocus)
}

func TestFilterExtraction_ExactlyHalfTokensKept(t *testing.T) {
	in := model.EmptyFieldExtraction()
	// "warehouse robots nowhere missing": 2 of 4 tokens in context → kept.
	in.KeyRecentEvents = []string{"warehouse robots nowhere missing"}

	out, drops := FilterExtraction(in, verifyContext)
	assert.Equal(t, []string{"warehouse robots nowhere missing"}, out.KeyRecentEvents)
	assert.Zero(t, drops)
}

func TestFilterExtraction_SummaryTooShortDropped(t *testing.T) {
	in := model.EmptyFieldExtraction()
	in.BusinessSummary = "Acme robots."

	out, drops := FilterExtraction(in, verifyContext)
	assert.Equal(t, "", out.BusinessSummary)
	assert.Equal(t, 1, drops)
}

func TestFilterExtraction_GoodSummaryKept(t *testing.T) {
	in := model.EmptyFieldExtraction()
	in.BusinessSummary = "Acme Robotics builds autonomous warehouse robots for logistics."

	out, drops := FilterExtraction(in, verifyContext)
	assert.Equal(t, in.BusinessSummary, out.BusinessSummary)
	assert.Zero(t, drops)
}

func TestFilterExtraction_NeverInvents(t *testing.T) {
	in := model.EmptyFieldExtraction()
	out, drops := FilterExtraction(in, verifyContext)
	assert.Zero(t, drops)
	assert.Empty(t, out.ProductLines)
	assert.Empty(t, out.HiringFocus)
}

func TestIsPlaceholder(t *testing.T) {
	cases := map[string]bool{
		"Product A":             true,
		"industry x":            true,
		"Region B":              true,
		"an example value":      true,
		"placeholder text here": true,
		"X":                     true,
		"warehouse robots":      false,
		"Productivity tools":    false, // "product" prefix alone is not a placeholder
	}
	for value, want := range cases {
		assert.Equal(t, want, isPlaceholder(value), "value %q", value)
	}
}
