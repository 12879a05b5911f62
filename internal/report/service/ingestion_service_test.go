package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-report-consensus/internal/entity"
	"golang-report-consensus/internal/report/config"
	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/pkg/logger"
)

func newTestIngestionService(t *testing.T, db *fakeDB) (IngestionService, *fakeRunsRepo) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{Ingest: config.Ingest{MaxBatchRetries: 3}}
	runs := &fakeRunsRepo{}
	return NewIngestionService(cfg, db, runs, log, nil), runs
}

func record(overrides func(*dto.ReportRecord)) dto.ReportRecord {
	r := dto.ReportRecord{
		WrittenDate: "2025-11-10",
		StockName:   "삼성전자",
		StockCode:   "005930",
		Title:       "4분기 실적 전망",
		FairPrice:   "100,000",
		Rating:      "매수",
		AuthorName:  "김연구원",
		BrokerName:  "제미니증권",
	}
	if overrides != nil {
		overrides(&r)
	}
	return r
}

func TestIngestResolvesEntitiesOnce(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	records := []dto.ReportRecord{
		record(func(r *dto.ReportRecord) { r.BrokerName = "A" }),
		record(func(r *dto.ReportRecord) { r.BrokerName = "A" }),
		record(func(r *dto.ReportRecord) { r.BrokerName = "B" }),
	}

	result, err := svc.Ingest(context.Background(), "test", records)
	require.NoError(t, err)

	assert.Len(t, db.stocks, 1)
	assert.Len(t, db.brokers, 2)
	assert.Len(t, db.reports, 3)
	assert.Equal(t, 3, result.ReportsInserted)
	assert.Equal(t, 1, result.NewStocks)
	assert.Equal(t, 2, result.NewBrokers)

	for _, report := range db.reports {
		assert.Equal(t, db.stocks[0].ID, report.StockID)
	}
}

func TestIngestResolutionIsIdempotentAcrossBatches(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	for i := 0; i < 4; i++ {
		_, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{record(nil)})
		require.NoError(t, err)
	}

	assert.Len(t, db.stocks, 1)
	assert.Len(t, db.brokers, 1)
	assert.Len(t, db.authors, 1)
	assert.Len(t, db.reports, 4)
}

func TestIngestSkipsDuplicateAttachmentURL(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	withURL := record(func(r *dto.ReportRecord) {
		r.AttachmentURL = "https://consensus.example.com/downpdf?report_idx=644830"
	})

	result, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{withURL, withURL})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReportsInserted)
	assert.Equal(t, 1, result.DuplicatesSkipped)
	assert.Len(t, db.reports, 1)

	// Same record in a later batch is also recognized.
	result, err = svc.Ingest(context.Background(), "test", []dto.ReportRecord{withURL})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ReportsInserted)
	assert.Equal(t, 1, result.DuplicatesSkipped)
	assert.Equal(t, []string{*db.reports[0].AttachmentURL}, result.SkippedURLs)
	assert.Len(t, db.reports, 1)
}

func TestIngestWithoutAttachmentURLNeverDedups(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	noURL := record(nil)
	result, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{noURL, noURL})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ReportsInserted)
	assert.Equal(t, 0, result.DuplicatesSkipped)
	assert.Len(t, db.reports, 2)
}

func TestIngestNormalizesValues(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	records := []dto.ReportRecord{
		record(func(r *dto.ReportRecord) {
			r.FairPrice = "1,234"
			r.CurrentPrice = "abc"
			r.ExpectedReturn = "12.5"
			r.Rating = "매수"
			r.Title = "  파운드리 수주 증가  "
		}),
		record(func(r *dto.ReportRecord) {
			r.Rating = "음"
			r.Title = ""
			r.BrokerName = "   "
			r.AuthorName = ""
		}),
	}

	_, err := svc.Ingest(context.Background(), "test", records)
	require.NoError(t, err)
	require.Len(t, db.reports, 2)

	first := db.reports[0]
	require.NotNil(t, first.FairPrice)
	assert.Equal(t, int64(1234), *first.FairPrice)
	assert.Nil(t, first.CurrentPrice)
	require.NotNil(t, first.ExpectedReturn)
	assert.Equal(t, 12.5, *first.ExpectedReturn)
	assert.Equal(t, entity.RatingBuy, first.RatingCode)
	assert.Equal(t, "파운드리 수주 증가", first.Title)

	second := db.reports[1]
	assert.Equal(t, entity.RatingNone, second.RatingCode)
	assert.Equal(t, "", second.Title)
	assert.Nil(t, second.BrokerID)
	assert.Nil(t, second.AuthorID)
}

func TestIngestRollsBackWholeBatchOnBadDate(t *testing.T) {
	db := newFakeDB()
	svc, runs := newTestIngestionService(t, db)

	records := []dto.ReportRecord{
		record(nil),
		record(nil),
		record(func(r *dto.ReportRecord) { r.WrittenDate = "11/10/2025" }),
		record(nil),
		record(nil),
	}

	result, err := svc.Ingest(context.Background(), "test", records)
	require.Error(t, err)
	assert.Nil(t, result)

	var batchErr *dto.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 5, batchErr.RecordsAttempted)
	assert.Equal(t, 2, batchErr.RecordIndex)

	// Nothing committed, not even the records before the bad one.
	assert.Empty(t, db.reports)
	assert.Empty(t, db.stocks)
	assert.Empty(t, db.brokers)

	require.Len(t, runs.runs, 1)
	assert.Equal(t, entity.IngestionRunRolledBack, runs.runs[0].Status)
	assert.Equal(t, 5, runs.runs[0].RecordsAttempted)
	assert.NotEmpty(t, runs.runs[0].ErrorMessage)
}

func TestIngestRejectsMissingStockCode(t *testing.T) {
	db := newFakeDB()
	svc, _ := newTestIngestionService(t, db)

	_, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{
		record(func(r *dto.ReportRecord) { r.StockCode = "  " }),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dto.ErrMissingStockCode)
	assert.Empty(t, db.reports)
}

func TestIngestRereadsAfterLostNaturalKeyRace(t *testing.T) {
	db := newFakeDB()
	db.brokers = append(db.brokers, entity.Broker{ID: 7, Name: "제미니증권"})
	db.nextBrokerID = 7
	// First lookup misses while the unique constraint still holds, as when a
	// concurrent batch commits the broker between lookup and insert.
	db.hiddenBrokers["제미니증권"] = 1

	svc, _ := newTestIngestionService(t, db)

	result, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{record(nil)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReportsInserted)
	assert.Equal(t, 0, result.NewBrokers)
	assert.Len(t, db.brokers, 1)
	require.NotNil(t, db.reports[0].BrokerID)
	assert.Equal(t, uint(7), *db.reports[0].BrokerID)
}

func TestIngestWithoutRetryBudgetStillRunsOnce(t *testing.T) {
	db := newFakeDB()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{Ingest: config.Ingest{MaxBatchRetries: 0}}
	runs := &fakeRunsRepo{}
	svc := NewIngestionService(cfg, db, runs, log, nil)

	result, err := svc.Ingest(context.Background(), "test", []dto.ReportRecord{record(nil)})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.ReportsInserted)

	require.Len(t, runs.runs, 1)
	assert.Equal(t, entity.IngestionRunCompleted, runs.runs[0].Status)
}

func TestIngestRecordsSuccessfulRun(t *testing.T) {
	db := newFakeDB()
	svc, runs := newTestIngestionService(t, db)

	_, err := svc.Ingest(context.Background(), "csv", []dto.ReportRecord{record(nil)})
	require.NoError(t, err)

	require.Len(t, runs.runs, 1)
	run := runs.runs[0]
	assert.Equal(t, "csv", run.Source)
	assert.Equal(t, entity.IngestionRunCompleted, run.Status)
	assert.Equal(t, 1, run.RecordsAttempted)
	assert.Equal(t, 1, run.ReportsInserted)
	assert.JSONEq(t, `{"stocks":1,"brokers":1,"authors":1}`, string(run.CreatedEntities))
}
