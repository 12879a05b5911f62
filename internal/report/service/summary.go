package service

import (
	"sort"

	"golang-report-consensus/internal/entity"
)

// minReportsForSummary is the coverage threshold: stocks with fewer reports
// have no meaningful consensus and are excluded from the summary.
const minReportsForSummary = 3

// BuildStockSummaries derives the stock_summary projection in memory from
// report rows with their stocks preloaded. It mirrors the SQL view exactly:
// latest current price and main rating come from the most recent report
// (written date descending, id descending as the tie-break), averages skip
// missing values, and only stocks with at least three reports are emitted.
// The serving path reads the view; this builder backs the verify command and
// pins the semantics in tests.
func BuildStockSummaries(reports []entity.Report) []entity.StockSummary {
	type group struct {
		stock   entity.Stock
		reports []entity.Report
	}

	groups := make(map[uint]*group)
	for _, r := range reports {
		g, ok := groups[r.StockID]
		if !ok {
			g = &group{stock: r.Stock}
			groups[r.StockID] = g
		}
		g.reports = append(g.reports, r)
	}

	var summaries []entity.StockSummary
	for _, g := range groups {
		if len(g.reports) < minReportsForSummary {
			continue
		}

		latest := g.reports[0]
		for _, r := range g.reports[1:] {
			if r.WrittenDate.After(latest.WrittenDate) ||
				(r.WrittenDate.Equal(latest.WrittenDate) && r.ID > latest.ID) {
				latest = r
			}
		}

		summary := entity.StockSummary{
			StockCode:    g.stock.Code,
			StockName:    g.stock.Name,
			CurrentPrice: latest.CurrentPrice,
			MainRating:   latest.RatingCode,
			ReportCount:  len(g.reports),
		}

		var fairSum float64
		var fairCount int
		var returnSum float64
		var returnCount int
		for _, r := range g.reports {
			if r.FairPrice != nil {
				fairSum += float64(*r.FairPrice)
				fairCount++
			}
			if r.ExpectedReturn != nil {
				returnSum += *r.ExpectedReturn
				returnCount++
			}
		}
		if fairCount > 0 {
			avg := fairSum / float64(fairCount)
			summary.AvgFairPrice = &avg
		}
		if returnCount > 0 {
			avg := returnSum / float64(returnCount)
			summary.AvgExpectedReturn = &avg
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].AvgExpectedReturn, summaries[j].AvgExpectedReturn
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return summaries[i].StockCode < summaries[j].StockCode
	})

	return summaries
}
