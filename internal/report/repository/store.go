package repository

import (
	"context"
	"errors"

	"golang-report-consensus/internal/entity"

	"gorm.io/gorm"
)

// Store is the storage surface the ingestion transaction runs against.
// Find methods return (nil, nil) when no row matches the natural key; the
// unique constraints on the natural keys are the authoritative guard against
// concurrent creation.
type Store interface {
	FindStockByCode(ctx context.Context, code string) (*entity.Stock, error)
	CreateStock(ctx context.Context, stock *entity.Stock) error
	FindBrokerByName(ctx context.Context, name string) (*entity.Broker, error)
	CreateBroker(ctx context.Context, broker *entity.Broker) error
	FindAuthorByName(ctx context.Context, name string) (*entity.Author, error)
	CreateAuthor(ctx context.Context, author *entity.Author) error
	ReportExistsByURL(ctx context.Context, attachmentURL string) (bool, error)
	CreateReport(ctx context.Context, report *entity.Report) error
}

// Transactor runs a function against a Store inside one atomic unit of work.
// An error returned from fn rolls back everything staged through the Store.
type Transactor interface {
	Transact(ctx context.Context, fn func(Store) error) error
}

// NewStore creates the GORM-backed Store and Transactor.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GormStore implements Store and Transactor on a *gorm.DB handle, which may
// be the root connection or a transaction.
type GormStore struct {
	db *gorm.DB
}

// Transact wraps fn in a database transaction; the Store passed to fn is
// bound to that transaction.
func (s *GormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) FindStockByCode(ctx context.Context, code string) (*entity.Stock, error) {
	var stock entity.Stock
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (s *GormStore) CreateStock(ctx context.Context, stock *entity.Stock) error {
	return s.db.WithContext(ctx).Create(stock).Error
}

func (s *GormStore) FindBrokerByName(ctx context.Context, name string) (*entity.Broker, error) {
	var broker entity.Broker
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&broker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

func (s *GormStore) CreateBroker(ctx context.Context, broker *entity.Broker) error {
	return s.db.WithContext(ctx).Create(broker).Error
}

func (s *GormStore) FindAuthorByName(ctx context.Context, name string) (*entity.Author, error) {
	var author entity.Author
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (s *GormStore) CreateAuthor(ctx context.Context, author *entity.Author) error {
	return s.db.WithContext(ctx).Create(author).Error
}

func (s *GormStore) ReportExistsByURL(ctx context.Context, attachmentURL string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Report{}).
		Where("attachment_url = ?", attachmentURL).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) CreateReport(ctx context.Context, report *entity.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}
