package model

// Source identifies which ingestion channel a chunk came from.
type Source string

const (
	SourceWebsite Source = "website"
	SourceProduct Source = "product"
	SourceJobs    Source = "jobs"
	SourceNews    Source = "news"
)

// AllSources lists the four sources in their canonical context-assembly order.
var AllSources = []Source{SourceWebsite, SourceProduct, SourceJobs, SourceNews}

// Valid reports whether s is one of the four known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceProduct, SourceJobs, SourceNews:
		return true
	}
	return false
}

// Label returns the context-block header used when assembling source text.
func (s Source) Label() string {
	switch s {
	case SourceWebsite:
		return "WEBSITE INFORMATION"
	case SourceProduct:
		return "PRODUCT INFORMATION"
	case SourceJobs:
		return "JOB POSTINGS"
	case SourceNews:
		return "NEWS & EVENTS"
	}
	return string(s)
}

// Chunk is a single embedded text fragment stored in a source-scoped
// vector collection. Chunks are immutable once stored; the pipeline only
// reads them back filtered by company name.
type Chunk struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CompanyName string `json:"company_name"`
	Source      Source `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
}

// RetrievalQuery describes one semantic query against one source collection.
// Constructed per extraction call, never persisted.
type RetrievalQuery struct {
	FieldGroup FieldGroup `json:"field_group"`
	QueryText  string     `json:"query_text"`
	Source     Source     `json:"source"`
	NResults   int        `json:"n_results"`
}
