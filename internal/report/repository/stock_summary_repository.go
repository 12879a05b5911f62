package repository

import (
	"context"

	"golang-report-consensus/internal/entity"

	"gorm.io/gorm"
)

// StockSummaryRepository reads the stock_summary view.
type StockSummaryRepository interface {
	// GetTop returns up to limit summary rows ordered by average expected
	// return descending.
	GetTop(ctx context.Context, limit int) ([]entity.StockSummary, error)
}

// NewStockSummaryRepository creates a new GORM-based summary repository.
func NewStockSummaryRepository(db *gorm.DB) StockSummaryRepository {
	return &stockSummaryRepository{db: db}
}

type stockSummaryRepository struct {
	db *gorm.DB
}

func (r *stockSummaryRepository) GetTop(ctx context.Context, limit int) ([]entity.StockSummary, error) {
	var summaries []entity.StockSummary
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM stock_summary ORDER BY avg_expected_return DESC NULLS LAST LIMIT ?`, limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
