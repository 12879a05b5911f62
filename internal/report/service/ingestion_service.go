package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang-report-consensus/internal/entity"
	"golang-report-consensus/internal/report/config"
	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/internal/report/normalizer"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/pkg/logger"
	"golang-report-consensus/pkg/telegram"
	"golang-report-consensus/pkg/utils"

	"gorm.io/gorm"
)

// IngestionService turns a batch of raw scraped records into committed
// report rows. A batch is one atomic unit of work: any structural error
// rolls back every row staged so far.
type IngestionService interface {
	Ingest(ctx context.Context, source string, records []dto.ReportRecord) (*dto.IngestionResult, error)
}

// NewIngestionService creates a new ingestion service. The notifier may be
// nil; batch outcomes are then only logged and audited.
func NewIngestionService(cfg *config.Config, transactor repository.Transactor, runsRepo repository.IngestionRunsRepository, log *logger.Logger, notifier telegram.Notifier) IngestionService {
	return &ingestionService{
		cfg:        cfg,
		transactor: transactor,
		runsRepo:   runsRepo,
		logger:     log,
		notifier:   notifier,
	}
}

type ingestionService struct {
	cfg        *config.Config
	transactor repository.Transactor
	runsRepo   repository.IngestionRunsRepository
	logger     *logger.Logger
	notifier   telegram.Notifier
}

// batchMemo is the per-batch entity memo: it avoids a storage round-trip for
// natural keys repeated within one batch. It is built at the start of each
// transaction attempt and discarded with it, never shared across batches.
type batchMemo struct {
	stocks  map[string]*entity.Stock
	brokers map[string]*entity.Broker
	authors map[string]*entity.Author
}

func newBatchMemo() *batchMemo {
	return &batchMemo{
		stocks:  make(map[string]*entity.Stock),
		brokers: make(map[string]*entity.Broker),
		authors: make(map[string]*entity.Author),
	}
}

// Ingest processes the batch inside one transaction. A natural-key race lost
// to a concurrent batch surfaces as gorm.ErrDuplicatedKey and is retried:
// the rerun resolves against the winner's now-visible row.
func (s *ingestionService) Ingest(ctx context.Context, source string, records []dto.ReportRecord) (*dto.IngestionResult, error) {
	var (
		result *dto.IngestionResult
		err    error
	)

	start := time.Now()
	maxAttempts := s.cfg.Ingest.MaxBatchRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = s.runBatch(ctx, records)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.logger.Warn("Ingestion batch lost a natural-key race, retrying",
			logger.StringField("source", source),
			logger.IntField("attempt", attempt),
			logger.ErrorField(err))
	}

	s.recordRun(ctx, source, len(records), result, err)
	s.notify(source, len(records), result, err)

	if err != nil {
		s.logger.Error("Ingestion batch rolled back",
			logger.StringField("source", source),
			logger.IntField("records_attempted", len(records)),
			logger.ErrorField(err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Ingestion batch committed",
		logger.StringField("source", source),
		logger.IntField("records_attempted", result.RecordsAttempted),
		logger.IntField("reports_inserted", result.ReportsInserted),
		logger.IntField("duplicates_skipped", result.DuplicatesSkipped),
		logger.DurationField("elapsed", time.Since(start)))
	return result, nil
}

func (s *ingestionService) runBatch(ctx context.Context, records []dto.ReportRecord) (*dto.IngestionResult, error) {
	result := &dto.IngestionResult{RecordsAttempted: len(records)}

	err := s.transactor.Transact(ctx, func(store repository.Store) error {
		memo := newBatchMemo()
		for i, record := range records {
			if err := s.ingestRecord(ctx, store, memo, record, result); err != nil {
				return &dto.BatchError{
					RecordsAttempted: len(records),
					RecordIndex:      i,
					Cause:            err,
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ingestionService) ingestRecord(ctx context.Context, store repository.Store, memo *batchMemo, record dto.ReportRecord, result *dto.IngestionResult) error {
	writtenDate, err := normalizer.Date(record.WrittenDate)
	if err != nil {
		return err
	}

	stockCode := normalizer.String(record.StockCode)
	if stockCode == nil {
		return dto.ErrMissingStockCode
	}

	// Dedup by attachment URL. Records without a stable external identifier
	// are always inserted; there is nothing reliable to dedup them on.
	attachmentURL := normalizer.String(record.AttachmentURL)
	if attachmentURL != nil {
		exists, err := store.ReportExistsByURL(ctx, *attachmentURL)
		if err != nil {
			return err
		}
		if exists {
			result.DuplicatesSkipped++
			result.SkippedURLs = append(result.SkippedURLs, *attachmentURL)
			s.logger.DebugContext(ctx, "Skipping already-ingested report",
				logger.StringField("attachment_url", *attachmentURL))
			return nil
		}
	}

	stock, err := s.resolveStock(ctx, store, memo, *stockCode, record, result)
	if err != nil {
		return err
	}

	var brokerID *uint
	if brokerName := normalizer.String(record.BrokerName); brokerName != nil {
		broker, err := s.resolveBroker(ctx, store, memo, *brokerName, result)
		if err != nil {
			return err
		}
		brokerID = &broker.ID
	}

	var authorID *uint
	if authorName := normalizer.String(record.AuthorName); authorName != nil {
		author, err := s.resolveAuthor(ctx, store, memo, *authorName, result)
		if err != nil {
			return err
		}
		authorID = &author.ID
	}

	title := ""
	if t := normalizer.String(record.Title); t != nil {
		title = *t
	}

	report := &entity.Report{
		WrittenDate:    writtenDate,
		Title:          title,
		FairPrice:      normalizer.Int(record.FairPrice),
		CurrentPrice:   normalizer.Int(record.CurrentPrice),
		ExpectedReturn: normalizer.Float(record.ExpectedReturn),
		AttachmentURL:  attachmentURL,
		Summary:        normalizer.String(record.Summary),
		NoviceContent:  normalizer.String(record.NoviceContent),
		ExpertContent:  normalizer.String(record.ExpertContent),
		StockID:        stock.ID,
		BrokerID:       brokerID,
		AuthorID:       authorID,
		RatingCode:     normalizer.Rating(record.Rating),
	}
	if err := store.CreateReport(ctx, report); err != nil {
		return err
	}
	result.ReportsInserted++
	return nil
}

func (s *ingestionService) resolveStock(ctx context.Context, store repository.Store, memo *batchMemo, code string, record dto.ReportRecord, result *dto.IngestionResult) (*entity.Stock, error) {
	if stock, ok := memo.stocks[code]; ok {
		return stock, nil
	}

	stock, err := store.FindStockByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		name := ""
		if n := normalizer.String(record.StockName); n != nil {
			name = *n
		}
		candidate := &entity.Stock{
			Code:           code,
			Name:           name,
			CompanyInfoURL: normalizer.String(record.CompanyInfoURL),
		}
		stock, err = createOrReread(ctx, candidate, store.CreateStock,
			func(ctx context.Context) (*entity.Stock, error) { return store.FindStockByCode(ctx, code) })
		if err != nil {
			return nil, err
		}
		if stock == candidate {
			result.NewStocks++
		}
	}

	memo.stocks[code] = stock
	return stock, nil
}

func (s *ingestionService) resolveBroker(ctx context.Context, store repository.Store, memo *batchMemo, name string, result *dto.IngestionResult) (*entity.Broker, error) {
	if broker, ok := memo.brokers[name]; ok {
		return broker, nil
	}

	broker, err := store.FindBrokerByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if broker == nil {
		candidate := &entity.Broker{Name: name}
		broker, err = createOrReread(ctx, candidate, store.CreateBroker,
			func(ctx context.Context) (*entity.Broker, error) { return store.FindBrokerByName(ctx, name) })
		if err != nil {
			return nil, err
		}
		if broker == candidate {
			result.NewBrokers++
		}
	}

	memo.brokers[name] = broker
	return broker, nil
}

func (s *ingestionService) resolveAuthor(ctx context.Context, store repository.Store, memo *batchMemo, name string, result *dto.IngestionResult) (*entity.Author, error) {
	if author, ok := memo.authors[name]; ok {
		return author, nil
	}

	author, err := store.FindAuthorByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if author == nil {
		candidate := &entity.Author{Name: name}
		author, err = createOrReread(ctx, candidate, store.CreateAuthor,
			func(ctx context.Context) (*entity.Author, error) { return store.FindAuthorByName(ctx, name) })
		if err != nil {
			return nil, err
		}
		if author == candidate {
			result.NewAuthors++
		}
	}

	memo.authors[name] = author
	return author, nil
}

// createOrReread inserts the candidate row. When the insert loses a
// natural-key race the existing row is re-read; storage engines that poison
// the transaction on a constraint violation make the re-read fail too, in
// which case the duplicate-key error escalates and Ingest reruns the batch.
func createOrReread[E any](ctx context.Context, candidate *E, create func(context.Context, *E) error, find func(context.Context) (*E, error)) (*E, error) {
	err := create(ctx, candidate)
	if err == nil {
		return candidate, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	existing, findErr := find(ctx)
	if findErr != nil {
		return nil, err
	}
	if existing == nil {
		return nil, err
	}
	return existing, nil
}

func (s *ingestionService) recordRun(ctx context.Context, source string, attempted int, result *dto.IngestionResult, runErr error) {
	run := &entity.IngestionRun{
		Source:           source,
		Status:           entity.IngestionRunCompleted,
		RecordsAttempted: attempted,
		CreatedAt:        utils.TimeNowKST(),
	}
	if runErr != nil {
		run.Status = entity.IngestionRunRolledBack
		run.ErrorMessage = runErr.Error()
	} else {
		run.ReportsInserted = result.ReportsInserted
		run.DuplicatesSkipped = result.DuplicatesSkipped
		run.SkippedURLs = result.SkippedURLs
		if created, err := json.Marshal(map[string]int{
			"stocks":  result.NewStocks,
			"brokers": result.NewBrokers,
			"authors": result.NewAuthors,
		}); err == nil {
			run.CreatedEntities = created
		}
	}

	if err := s.runsRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to record ingestion run", logger.ErrorField(err))
	}
}

func (s *ingestionService) notify(source string, attempted int, result *dto.IngestionResult, runErr error) {
	if s.notifier == nil {
		return
	}

	outcome := telegram.IngestionOutcome{
		Source:           source,
		RecordsAttempted: attempted,
		Err:              runErr,
	}
	if result != nil {
		outcome.ReportsInserted = result.ReportsInserted
		outcome.DuplicatesSkipped = result.DuplicatesSkipped
		outcome.NewStocks = result.NewStocks
		outcome.NewBrokers = result.NewBrokers
		outcome.NewAuthors = result.NewAuthors
	}

	if err := s.notifier.SendMessage(telegram.FormatIngestionOutcome(outcome)); err != nil {
		s.logger.Error("Failed to send ingestion notification", logger.ErrorField(err))
	}
}
