package model

// FieldGroup names one retrieve→extract→filter unit of work. The three
// groups are mutually independent and may run concurrently.
type FieldGroup string

const (
	GroupBusinessOverview FieldGroup = "business_overview"
	GroupHiringFocus      FieldGroup = "hiring_focus"
	GroupRecentEvents     FieldGroup = "recent_events"
)

// AllFieldGroups lists the field groups in canonical order.
var AllFieldGroups = []FieldGroup{GroupBusinessOverview, GroupHiringFocus, GroupRecentEvents}

// Canonical extraction field keys. Every key exists in the final structure:
// list fields default to an empty slice, string fields to "".
const (
	FieldBusinessSummary  = "business_summary"
	FieldProductLines     = "product_lines"
	FieldTargetIndustries = "target_industries"
	FieldRegions          = "regions"
	FieldHiringFocus      = "hiring_focus"
	FieldKeyRecentEvents  = "key_recent_events"
)

// FieldKeys lists the canonical schema keys in output order.
var FieldKeys = []string{
	FieldBusinessSummary,
	FieldProductLines,
	FieldTargetIndustries,
	FieldRegions,
	FieldHiringFocus,
	FieldKeyRecentEvents,
}

// GroupFields maps each field group to the schema keys it extracts.
var GroupFields = map[FieldGroup][]string{
	GroupBusinessOverview: {FieldBusinessSummary, FieldProductLines, FieldTargetIndustries, FieldRegions},
	GroupHiringFocus:      {FieldHiringFocus},
	GroupRecentEvents:     {FieldKeyRecentEvents},
}

// FieldExtraction is the canonical structured-extraction schema.
type FieldExtraction struct {
	BusinessSummary  string   `json:"business_summary"`
	ProductLines     []string `json:"product_lines"`
	TargetIndustries []string `json:"target_industries"`
	Regions          []string `json:"regions"`
	HiringFocus      []string `json:"hiring_focus"`
	KeyRecentEvents  []string `json:"key_recent_events"`
}

// EmptyFieldExtraction returns the schema's empty-value defaults.
func EmptyFieldExtraction() FieldExtraction {
	return FieldExtraction{
		ProductLines:     []string{},
		TargetIndustries: []string{},
		Regions:          []string{},
		HiringFocus:      []string{},
		KeyRecentEvents:  []string{},
	}
}

// Merge copies the non-default fields of other into e. Used to combine
// the partial results of independent field-group extractions.
func (e *FieldExtraction) Merge(other FieldExtraction) {
	if other.BusinessSummary != "" {
		e.BusinessSummary = other.BusinessSummary
	}
	if len(other.ProductLines) > 0 {
		e.ProductLines = other.ProductLines
	}
	if len(other.TargetIndustries) > 0 {
		e.TargetIndustries = other.TargetIndustries
	}
	if len(other.Regions) > 0 {
		e.Regions = other.Regions
	}
	if len(other.HiringFocus) > 0 {
		e.HiringFocus = other.HiringFocus
	}
	if len(other.KeyRecentEvents) > 0 {
		e.KeyRecentEvents = other.KeyRecentEvents
	}
}

// FieldEmpty reports whether the named schema key holds its default value.
func (e FieldExtraction) FieldEmpty(key string) bool {
	switch key {
	case FieldBusinessSummary:
		return e.BusinessSummary == ""
	case FieldProductLines:
		return len(e.ProductLines) == 0
	case FieldTargetIndustries:
		return len(e.TargetIndustries) == 0
	case FieldRegions:
		return len(e.Regions) == 0
	case FieldHiringFocus:
		return len(e.HiringFocus) == 0
	case FieldKeyRecentEvents:
		return len(e.KeyRecentEvents) == 0
	}
	return true
}
