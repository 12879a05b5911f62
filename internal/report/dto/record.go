package dto

// ReportRecord is one loosely-typed record handed over by the scraper or the
// CSV loader. Every field arrives as raw text; the ingestion service owns all
// normalization. Missing fields are empty strings, never invented values.
type ReportRecord struct {
	WrittenDate    string `json:"written_date"`
	StockName      string `json:"stock_name"`
	StockCode      string `json:"stock_code"`
	Title          string `json:"title"`
	FairPrice      string `json:"fair_price"`
	CurrentPrice   string `json:"current_price"`
	ExpectedReturn string `json:"expected_return"`
	Rating         string `json:"rating"`
	AuthorName     string `json:"author_name"`
	BrokerName     string `json:"broker_name"`
	CompanyInfoURL string `json:"company_info_url"`
	AttachmentURL  string `json:"attachment_url"`

	// Review fields are usually empty at scrape time and filled in later by
	// the review generator; the CSV loader may pre-merge them.
	Summary       string `json:"summary,omitempty"`
	NoviceContent string `json:"novice_content,omitempty"`
	ExpertContent string `json:"expert_content,omitempty"`
}
