package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/pkg/logger"
	"golang-report-consensus/pkg/utils"
)

// CSVLoader reads the scraper's CSV export into raw records and optionally
// merges a review CSV keyed by downloaded PDF filename. It performs no
// normalization; that stays with the ingestion service.
type CSVLoader struct {
	logger *logger.Logger
}

// NewCSVLoader creates a new CSV loader.
func NewCSVLoader(log *logger.Logger) *CSVLoader {
	return &CSVLoader{logger: log}
}

// reviewRow carries one row of the review CSV.
type reviewRow struct {
	summary string
	novice  string
	expert  string
}

// LoadReports reads the report CSV at path. When reviewsPath is non-empty
// the review texts are merged into records whose attachment URL carries the
// matching external report id.
func (l *CSVLoader) LoadReports(path, reviewsPath string) ([]dto.ReportRecord, error) {
	reviews := map[string]reviewRow{}
	if reviewsPath != "" {
		loaded, err := l.loadReviews(reviewsPath)
		if err != nil {
			// The review CSV is a best-effort enrichment; reports still load
			// without it.
			l.logger.Warn("Failed to load review CSV", logger.ErrorField(err))
		} else {
			reviews = loaded
		}
	}

	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	records := make([]dto.ReportRecord, 0, len(rows))
	for _, row := range rows {
		record := dto.ReportRecord{
			WrittenDate:    header.get(row, "written_date"),
			StockName:      header.get(row, "stock_name"),
			StockCode:      header.get(row, "stock_code"),
			Title:          header.get(row, "title"),
			FairPrice:      header.get(row, "fair_price"),
			CurrentPrice:   header.get(row, "current_price"),
			ExpectedReturn: header.get(row, "expected_return"),
			Rating:         header.get(row, "rating"),
			AuthorName:     header.get(row, "author_name"),
			BrokerName:     header.get(row, "broker_name"),
			CompanyInfoURL: header.get(row, "company_info_url"),
			AttachmentURL:  header.get(row, "attachment_url"),
		}

		if id := utils.ExtractReportID(record.AttachmentURL); id != "" {
			if review, ok := reviews[id]; ok {
				record.Summary = review.summary
				record.NoviceContent = review.novice
				record.ExpertContent = review.expert
			}
		}

		records = append(records, record)
	}

	l.logger.Info("Loaded report CSV",
		logger.StringField("path", path),
		logger.IntField("records", len(records)))
	return records, nil
}

func (l *CSVLoader) loadReviews(path string) (map[string]reviewRow, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	reviews := make(map[string]reviewRow, len(rows))
	for _, row := range rows {
		filename := header.get(row, "filename")
		if !strings.HasSuffix(filename, ".pdf") {
			continue
		}
		reviews[utils.ReportIDFromFilename(filename)] = reviewRow{
			summary: header.get(row, "summary"),
			novice:  header.get(row, "novice_content"),
			expert:  header.get(row, "expert_content"),
		}
	}
	return reviews, nil
}

// headerIndex maps column names to positions.
type headerIndex map[string]int

func (h headerIndex) get(row []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readCSV(path string) ([][]string, headerIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	header := headerIndex{}
	for i, name := range rows[0] {
		// Exports from spreadsheet tools may carry a UTF-8 BOM.
		name = strings.TrimPrefix(name, "\uFEFF")
		header[strings.TrimSpace(name)] = i
	}
	return rows[1:], header, nil
}
