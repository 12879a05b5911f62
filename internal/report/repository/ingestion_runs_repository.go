package repository

import (
	"context"

	"golang-report-consensus/internal/entity"

	"gorm.io/gorm"
)

// IngestionRunsRepository appends audit rows for ingestion batches.
type IngestionRunsRepository interface {
	Create(ctx context.Context, run *entity.IngestionRun) error
}

// NewIngestionRunsRepository creates a new GORM-based ingestion runs
// repository.
func NewIngestionRunsRepository(db *gorm.DB) IngestionRunsRepository {
	return &ingestionRunsRepository{db: db}
}

type ingestionRunsRepository struct {
	db *gorm.DB
}

func (r *ingestionRunsRepository) Create(ctx context.Context, run *entity.IngestionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}
