package repository

import (
	"context"

	"golang-report-consensus/internal/entity"

	"gorm.io/gorm"
)

// ReportsRepository defines the read and review-update surface over stored
// reports.
type ReportsRepository interface {
	// FindRecent returns reports ordered by written date descending, newest
	// insertion first within a date. A non-empty query restricts results to
	// reports whose stock, broker or author name contains it.
	FindRecent(ctx context.Context, query string, limit int) ([]entity.Report, error)
	// FindAllWithStock returns every report with its stock preloaded, in
	// insertion order.
	FindAllWithStock(ctx context.Context) ([]entity.Report, error)
	// UpdateReviewByExternalID fills the review fields of the report whose
	// attachment URL contains the external id. Returns false when no report
	// matches.
	UpdateReviewByExternalID(ctx context.Context, externalID, summary, novice, expert string) (bool, error)
	// ReviewExists reports whether the report matching the external id
	// already carries a non-empty summary.
	ReviewExists(ctx context.Context, externalID string) (bool, error)
}

// NewReportsRepository creates a new GORM-based reports repository.
func NewReportsRepository(db *gorm.DB) ReportsRepository {
	return &reportsRepository{db: db}
}

type reportsRepository struct {
	db *gorm.DB
}

func (r *reportsRepository) FindRecent(ctx context.Context, query string, limit int) ([]entity.Report, error) {
	q := r.db.WithContext(ctx).Model(&entity.Report{}).
		Joins("JOIN stocks ON stocks.id = reports.stock_id").
		Joins("LEFT JOIN brokers ON brokers.id = reports.broker_id").
		Joins("LEFT JOIN authors ON authors.id = reports.author_id").
		Preload("Stock").
		Preload("Broker").
		Preload("Author").
		Preload("Rating")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("stocks.name ILIKE ? OR brokers.name ILIKE ? OR authors.name ILIKE ?", like, like, like)
	}

	var reports []entity.Report
	if err := q.Order("reports.written_date DESC, reports.id DESC").Limit(limit).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportsRepository) FindAllWithStock(ctx context.Context) ([]entity.Report, error) {
	var reports []entity.Report
	err := r.db.WithContext(ctx).Preload("Stock").Order("id ASC").Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportsRepository) UpdateReviewByExternalID(ctx context.Context, externalID, summary, novice, expert string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("attachment_url LIKE ?", "%"+externalID+"%").
		Updates(map[string]interface{}{
			"summary":        summary,
			"novice_content": novice,
			"expert_content": expert,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reportsRepository) ReviewExists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("attachment_url LIKE ?", "%"+externalID+"%").
		Where("summary IS NOT NULL AND summary <> ''").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
