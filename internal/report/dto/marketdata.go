package dto

import "time"

// GetDailyPricesParam identifies one trailing-window price lookup.
type GetDailyPricesParam struct {
	StockCode string
	Range     string
	Interval  string
}

// PricePoint is one daily close in a time-ordered series.
type PricePoint struct {
	Time  time.Time
	Close float64
}
