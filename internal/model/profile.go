package model

import "time"

// CompanyProfile is the fused profile stored per company. Profiles are
// created or fully replaced (upsert by company name) on each successful
// generation run; no historical versions are retained and created_at is
// refreshed on replace.
type CompanyProfile struct {
	CompanyName      string             `json:"company_name"`
	CompanyDomain    string             `json:"company_domain,omitempty"`
	ExtractedFields  FieldExtraction    `json:"extracted_fields"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	ShortDescription string             `json:"short_description,omitempty"`
	LongDescription  string             `json:"long_description,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
