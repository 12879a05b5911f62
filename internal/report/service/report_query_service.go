package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-report-consensus/internal/entity"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/pkg/common"
	"golang-report-consensus/pkg/logger"
	redisPkg "golang-report-consensus/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// ReportQueryService is the read surface for the presentation layer.
type ReportQueryService interface {
	GetRecentReports(ctx context.Context, query string, limit int) ([]entity.Report, error)
	GetTopSummaries(ctx context.Context, limit int) ([]entity.StockSummary, error)
}

// NewReportQueryService creates a new query service. The redis client may be
// nil, in which case summaries are read straight from the view.
func NewReportQueryService(reportsRepo repository.ReportsRepository, summaryRepo repository.StockSummaryRepository, redisClient *redisPkg.Client, log *logger.Logger) ReportQueryService {
	return &reportQueryService{
		reportsRepo: reportsRepo,
		summaryRepo: summaryRepo,
		redisClient: redisClient,
		logger:      log,
	}
}

type reportQueryService struct {
	reportsRepo repository.ReportsRepository
	summaryRepo repository.StockSummaryRepository
	redisClient *redisPkg.Client
	logger      *logger.Logger
}

func (s *reportQueryService) GetRecentReports(ctx context.Context, query string, limit int) ([]entity.Report, error) {
	return s.reportsRepo.FindRecent(ctx, query, limit)
}

// GetTopSummaries serves the consensus ranking, cached briefly in Redis. The
// projection is recomputed by the database on every cache miss; report volume
// is small enough that recomputation is cheaper than incremental upkeep.
func (s *reportQueryService) GetTopSummaries(ctx context.Context, limit int) ([]entity.StockSummary, error) {
	cacheKey := fmt.Sprintf(common.RedisKeyStockSummaries, limit)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var summaries []entity.StockSummary
			if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
				return summaries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("Failed to read summary cache", logger.ErrorField(err))
		}
	}

	summaries, err := s.summaryRepo.GetTop(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, common.StockSummaryCacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to write summary cache", logger.ErrorField(err))
			}
		}
	}

	return summaries, nil
}
