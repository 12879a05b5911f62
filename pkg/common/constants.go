package common

import "time"

const (
	RedisKeyStockSummaries = "report-consensus:stock_summaries:%d"

	StockSummaryCacheTTL = 5 * time.Minute

	IngestSourceScraper = "scraper"
	IngestSourceCSV     = "csv"
)
