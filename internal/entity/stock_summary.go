package entity

// StockSummary is one row of the stock_summary view: the per-stock consensus
// aggregate over stocks with at least three reports. It is derived, never
// written by application code.
type StockSummary struct {
	StockCode         string   `gorm:"column:stock_code" json:"stock_code"`
	StockName         string   `gorm:"column:stock_name" json:"stock_name"`
	CurrentPrice      *int64   `gorm:"column:current_price" json:"current_price,omitempty"`
	AvgFairPrice      *float64 `gorm:"column:avg_fair_price" json:"avg_fair_price,omitempty"`
	AvgExpectedReturn *float64 `gorm:"column:avg_expected_return" json:"avg_expected_return,omitempty"`
	MainRating        string   `gorm:"column:main_rating" json:"main_rating"`
	ReportCount       int      `gorm:"column:report_count" json:"report_count"`
}

func (StockSummary) TableName() string {
	return "stock_summary"
}
