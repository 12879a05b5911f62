package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-report-consensus/pkg/logger"
)

func writeTestCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReports(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	path := writeTestCSV(t, "reports.csv",
		"written_date,stock_name,stock_code,title,fair_price,current_price,expected_return,rating,author_name,broker_name,company_info_url,attachment_url\n"+
			"2025-11-10,삼성전자,005930,4분기 실적 전망,\"100,000\",90000,11.1,매수,김연구원,제미니증권,https://finance.example.com/005930,https://consensus.example.com/downpdf?report_idx=644830\n"+
			"2025-11-09,SK하이닉스,000660,,200000,,,보유,,한빛투자증권,,\n")

	records, err := NewCSVLoader(log).LoadReports(path, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "2025-11-10", first.WrittenDate)
	assert.Equal(t, "005930", first.StockCode)
	assert.Equal(t, "100,000", first.FairPrice)
	assert.Equal(t, "https://consensus.example.com/downpdf?report_idx=644830", first.AttachmentURL)

	second := records[1]
	assert.Equal(t, "000660", second.StockCode)
	assert.Empty(t, second.Title)
	assert.Empty(t, second.AttachmentURL)
}

func TestLoadReportsStripsHeaderBOM(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	path := writeTestCSV(t, "reports.csv",
		"\uFEFFwritten_date,stock_code,stock_name\n2025-11-10,005930,삼성전자\n")

	records, err := NewCSVLoader(log).LoadReports(path, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-11-10", records[0].WrittenDate)
}

func TestLoadReportsMergesReviews(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	reports := writeTestCSV(t, "reports.csv",
		"written_date,stock_code,stock_name,attachment_url\n"+
			"2025-11-10,005930,삼성전자,https://consensus.example.com/downpdf?report_idx=644830\n"+
			"2025-11-10,000660,SK하이닉스,https://consensus.example.com/downpdf?report_idx=644831\n")
	reviews := writeTestCSV(t, "reviews.csv",
		"filename,summary,novice_content,expert_content\n"+
			"644830.pdf,실적 개선 전망,쉬운 설명,전문가 설명\n"+
			"notes.txt,ignored,ignored,ignored\n")

	records, err := NewCSVLoader(log).LoadReports(reports, reviews)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "실적 개선 전망", records[0].Summary)
	assert.Equal(t, "쉬운 설명", records[0].NoviceContent)
	assert.Equal(t, "전문가 설명", records[0].ExpertContent)

	// No matching review row: record stays without review texts.
	assert.Empty(t, records[1].Summary)
}

func TestLoadReportsMissingReviewFileIsBestEffort(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	reports := writeTestCSV(t, "reports.csv",
		"written_date,stock_code,stock_name\n2025-11-10,005930,삼성전자\n")

	records, err := NewCSVLoader(log).LoadReports(reports, filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadReportsEmptyFileFails(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	path := writeTestCSV(t, "empty.csv", "")
	_, err = NewCSVLoader(log).LoadReports(path, "")
	assert.Error(t, err)
}
