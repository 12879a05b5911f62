package repository

import (
	"context"

	"golang-report-consensus/internal/entity"

	"gorm.io/gorm"
)

// StocksRepository defines stock reads and the price-refresh write path.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
	UpdatePrice(ctx context.Context, stockID uint, currentPrice int64, dailyChangeRate *float64) error
}

// NewStocksRepository creates a new GORM-based stocks repository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

type stocksRepository struct {
	db *gorm.DB
}

func (s *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (s *stocksRepository) UpdatePrice(ctx context.Context, stockID uint, currentPrice int64, dailyChangeRate *float64) error {
	updates := map[string]interface{}{"current_price": currentPrice}
	if dailyChangeRate != nil {
		updates["daily_change_rate"] = *dailyChangeRate
	}
	return s.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", stockID).
		Updates(updates).Error
}
