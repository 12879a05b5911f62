package dto

// IngestRequest is the batch ingestion payload.
type IngestRequest struct {
	Source  string         `json:"source"`
	Records []ReportRecord `json:"records"`
}

// IngestionResult summarizes a committed ingestion batch.
type IngestionResult struct {
	RecordsAttempted  int      `json:"records_attempted"`
	ReportsInserted   int      `json:"reports_inserted"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	SkippedURLs       []string `json:"skipped_urls,omitempty"`
	NewStocks         int      `json:"new_stocks"`
	NewBrokers        int      `json:"new_brokers"`
	NewAuthors        int      `json:"new_authors"`
}

// UpdateReviewRequest carries the generated review texts for one report,
// keyed by the external report identifier in the URL path.
type UpdateReviewRequest struct {
	Summary       string `json:"summary"`
	NoviceContent string `json:"novice_content"`
	ExpertContent string `json:"expert_content"`
}
