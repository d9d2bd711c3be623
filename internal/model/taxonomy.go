package model

import "time"

// MatchedLevel identifies which taxonomy level produced an industry match.
type MatchedLevel string

// The "Industry" spelling is preserved from the taxonomy source data, which
// capitalizes the middle level.
const (
	LevelSector      MatchedLevel = "sector"
	LevelSubIndustry MatchedLevel = "sub_industry"
	LevelIndustry    MatchedLevel = "Industry"
)

// TaxonomyRow is one row of the static industry-classification reference
// table, loaded once at process start.
type TaxonomyRow struct {
	Sector         string `json:"sector"`
	Industry       string `json:"industry"`
	SubIndustry    string `json:"sub_industry"`
	SICCode        string `json:"sic_code"`
	SICDescription string `json:"sic_description"`
}

// IndustryMapping records the taxonomy row a company was matched to and at
// which level. Upserted per company with the same replace semantics as
// CompanyProfile.
type IndustryMapping struct {
	CompanyName    string       `json:"company_name"`
	CompanyDomain  string       `json:"company_domain,omitempty"`
	MatchedLevel   MatchedLevel `json:"matched_level"`
	Sector         string       `json:"sector"`
	Industry       string       `json:"industry"`
	SubIndustry    string       `json:"sub_industry"`
	SICCode        string       `json:"sic_code"`
	SICDescription string       `json:"sic_description"`
	Confidence     float64      `json:"confidence"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
