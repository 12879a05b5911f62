package service

import (
	"context"

	"golang-report-consensus/internal/report/config"
	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/pkg/logger"
)

// PriceRefreshService overwrites every stock's current price with the latest
// close from the market-data collaborator. Per-stock failures are logged and
// skipped: the job is repeatable and self-heals on the next run, so one bad
// ticker must never abort the rest.
type PriceRefreshService interface {
	RefreshAll(ctx context.Context) error
}

// NewPriceRefreshService creates a new price refresh service.
func NewPriceRefreshService(cfg *config.Config, stocksRepo repository.StocksRepository, marketData repository.MarketDataRepository, log *logger.Logger) PriceRefreshService {
	return &priceRefreshService{
		cfg:        cfg,
		stocksRepo: stocksRepo,
		marketData: marketData,
		logger:     log,
	}
}

type priceRefreshService struct {
	cfg        *config.Config
	stocksRepo repository.StocksRepository
	marketData repository.MarketDataRepository
	logger     *logger.Logger
}

func (s *priceRefreshService) RefreshAll(ctx context.Context) error {
	stocks, err := s.stocksRepo.GetStocks(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Starting price refresh", logger.IntField("stocks", len(stocks)))

	updated := 0
	for _, stock := range stocks {
		prices, err := s.marketData.GetDailyPrices(ctx, dto.GetDailyPricesParam{
			StockCode: stock.Code,
			Range:     s.cfg.PriceRefresh.Range,
			Interval:  s.cfg.PriceRefresh.Interval,
		})
		if err != nil {
			s.logger.Error("Failed to fetch prices, skipping stock",
				logger.StringField("stock_code", stock.Code),
				logger.ErrorField(err))
			continue
		}
		if len(prices) == 0 {
			s.logger.Warn("No price data for stock, skipping",
				logger.StringField("stock_code", stock.Code))
			continue
		}

		latest := prices[len(prices)-1]
		currentPrice := int64(latest.Close)

		var changeRate *float64
		if len(prices) >= 2 {
			previous := prices[len(prices)-2].Close
			if previous != 0 {
				rate := (latest.Close - previous) / previous * 100
				changeRate = &rate
			}
		}

		if err := s.stocksRepo.UpdatePrice(ctx, stock.ID, currentPrice, changeRate); err != nil {
			s.logger.Error("Failed to store refreshed price",
				logger.StringField("stock_code", stock.Code),
				logger.ErrorField(err))
			continue
		}
		s.logger.DebugContext(ctx, "Refreshed stock price",
			logger.StringField("stock_code", stock.Code),
			logger.Float64Field("close", latest.Close))
		updated++
	}

	s.logger.Info("Price refresh finished",
		logger.IntField("stocks", len(stocks)),
		logger.IntField("updated", updated))
	return nil
}
