package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Ingestion run statuses.
const (
	IngestionRunCompleted  = "COMPLETED"
	IngestionRunRolledBack = "ROLLED_BACK"
)

// IngestionRun is the audit row appended after every ingestion batch,
// committed or rolled back. It is written outside the batch transaction so a
// failed batch still leaves a trace.
type IngestionRun struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Source            string         `gorm:"type:varchar(50);not null" json:"source"`
	Status            string         `gorm:"type:varchar(20);not null" json:"status"`
	RecordsAttempted  int            `gorm:"not null" json:"records_attempted"`
	ReportsInserted   int            `gorm:"not null" json:"reports_inserted"`
	DuplicatesSkipped int            `gorm:"not null" json:"duplicates_skipped"`
	SkippedURLs       pq.StringArray `gorm:"type:text[]" json:"skipped_urls,omitempty"`
	CreatedEntities   datatypes.JSON `gorm:"type:jsonb" json:"created_entities,omitempty"`
	ErrorMessage      string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
