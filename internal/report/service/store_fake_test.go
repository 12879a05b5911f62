package service

import (
	"context"

	"golang-report-consensus/internal/entity"
	"golang-report-consensus/internal/report/repository"

	"gorm.io/gorm"
)

// fakeDB is an in-memory Store and Transactor. It enforces the same unique
// natural keys the real schema does and rolls the whole state back when a
// transaction function fails, which is exactly the contract the ingestion
// service depends on.
type fakeDB struct {
	stocks  []entity.Stock
	brokers []entity.Broker
	authors []entity.Author
	reports []entity.Report

	nextStockID  uint
	nextBrokerID uint
	nextAuthorID uint
	nextReportID uint

	// hiddenBrokers simulates a concurrent batch: FindBrokerByName misses
	// while the row exists for uniqueness purposes, so the first create
	// loses the race. The count is decremented per miss.
	hiddenBrokers map[string]int
}

func newFakeDB() *fakeDB {
	return &fakeDB{hiddenBrokers: map[string]int{}}
}

func (db *fakeDB) clone() *fakeDB {
	c := *db
	c.stocks = append([]entity.Stock(nil), db.stocks...)
	c.brokers = append([]entity.Broker(nil), db.brokers...)
	c.authors = append([]entity.Author(nil), db.authors...)
	c.reports = append([]entity.Report(nil), db.reports...)
	return &c
}

func (db *fakeDB) Transact(_ context.Context, fn func(repository.Store) error) error {
	snapshot := db.clone()
	if err := fn(db); err != nil {
		*db = *snapshot
		return err
	}
	return nil
}

func (db *fakeDB) FindStockByCode(_ context.Context, code string) (*entity.Stock, error) {
	for i := range db.stocks {
		if db.stocks[i].Code == code {
			stock := db.stocks[i]
			return &stock, nil
		}
	}
	return nil, nil
}

func (db *fakeDB) CreateStock(_ context.Context, stock *entity.Stock) error {
	for i := range db.stocks {
		if db.stocks[i].Code == stock.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	db.nextStockID++
	stock.ID = db.nextStockID
	db.stocks = append(db.stocks, *stock)
	return nil
}

func (db *fakeDB) FindBrokerByName(_ context.Context, name string) (*entity.Broker, error) {
	if db.hiddenBrokers[name] > 0 {
		db.hiddenBrokers[name]--
		return nil, nil
	}
	for i := range db.brokers {
		if db.brokers[i].Name == name {
			broker := db.brokers[i]
			return &broker, nil
		}
	}
	return nil, nil
}

func (db *fakeDB) CreateBroker(_ context.Context, broker *entity.Broker) error {
	for i := range db.brokers {
		if db.brokers[i].Name == broker.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	db.nextBrokerID++
	broker.ID = db.nextBrokerID
	db.brokers = append(db.brokers, *broker)
	return nil
}

func (db *fakeDB) FindAuthorByName(_ context.Context, name string) (*entity.Author, error) {
	for i := range db.authors {
		if db.authors[i].Name == name {
			author := db.authors[i]
			return &author, nil
		}
	}
	return nil, nil
}

func (db *fakeDB) CreateAuthor(_ context.Context, author *entity.Author) error {
	for i := range db.authors {
		if db.authors[i].Name == author.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	db.nextAuthorID++
	author.ID = db.nextAuthorID
	db.authors = append(db.authors, *author)
	return nil
}

func (db *fakeDB) ReportExistsByURL(_ context.Context, attachmentURL string) (bool, error) {
	for i := range db.reports {
		if db.reports[i].AttachmentURL != nil && *db.reports[i].AttachmentURL == attachmentURL {
			return true, nil
		}
	}
	return false, nil
}

func (db *fakeDB) CreateReport(_ context.Context, report *entity.Report) error {
	db.nextReportID++
	report.ID = db.nextReportID
	db.reports = append(db.reports, *report)
	return nil
}

// fakeRunsRepo captures appended ingestion runs.
type fakeRunsRepo struct {
	runs []entity.IngestionRun
}

func (r *fakeRunsRepo) Create(_ context.Context, run *entity.IngestionRun) error {
	r.runs = append(r.runs, *run)
	return nil
}
