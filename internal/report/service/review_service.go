package service

import (
	"context"

	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/pkg/logger"
)

// ReviewService applies generated review texts to stored reports. Reports
// are matched by the external report identifier embedded in their attachment
// URL; a miss is an informational outcome, not a failure.
type ReviewService interface {
	UpdateReview(ctx context.Context, externalID, summary, novice, expert string) error
	ReviewExists(ctx context.Context, externalID string) (bool, error)
}

// NewReviewService creates a new review service.
func NewReviewService(reportsRepo repository.ReportsRepository, log *logger.Logger) ReviewService {
	return &reviewService{reportsRepo: reportsRepo, logger: log}
}

type reviewService struct {
	reportsRepo repository.ReportsRepository
	logger      *logger.Logger
}

// UpdateReview fills summary/novice/expert on the matching report. Returns
// dto.ErrReportNotFound when no report carries the external id.
func (s *reviewService) UpdateReview(ctx context.Context, externalID, summary, novice, expert string) error {
	updated, err := s.reportsRepo.UpdateReviewByExternalID(ctx, externalID, summary, novice, expert)
	if err != nil {
		s.logger.Error("Failed to update report review",
			logger.StringField("external_id", externalID),
			logger.ErrorField(err))
		return err
	}
	if !updated {
		s.logger.Info("No report matches external id, review skipped",
			logger.StringField("external_id", externalID))
		return dto.ErrReportNotFound
	}

	s.logger.Info("Updated report review", logger.StringField("external_id", externalID))
	return nil
}

func (s *reviewService) ReviewExists(ctx context.Context, externalID string) (bool, error) {
	return s.reportsRepo.ReviewExists(ctx, externalID)
}
