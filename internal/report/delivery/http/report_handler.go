package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/internal/report/service"
	"golang-report-consensus/pkg/common"
	"golang-report-consensus/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultReportLimit = 50

// ReportHandler handles HTTP requests for reports: batch ingestion, recent
// report listing and review updates.
type ReportHandler struct {
	ingestionService service.IngestionService
	queryService     service.ReportQueryService
	reviewService    service.ReviewService
	logger           *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ingestionService service.IngestionService, queryService service.ReportQueryService, reviewService service.ReviewService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		ingestionService: ingestionService,
		queryService:     queryService,
		reviewService:    reviewService,
		logger:           logger,
	}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/ingest", h.IngestReports)
	g.GET("", h.GetRecentReports)
	g.PUT("/:external_id/review", h.UpdateReview)
}

// IngestReports ingests one batch of raw report records. The batch commits
// atomically; on any record failure nothing is stored and the response names
// the failing record.
func (h *ReportHandler) IngestReports(c echo.Context) error {
	var req dto.IngestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if len(req.Records) == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No records to ingest"})
	}
	if req.Source == "" {
		req.Source = common.IngestSourceScraper
	}

	result, err := h.ingestionService.Ingest(c.Request().Context(), req.Source, req.Records)
	if err != nil {
		var batchErr *dto.BatchError
		if errors.As(err, &batchErr) {
			return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: batchErr.Error()})
		}
		h.logger.Error("Failed to ingest report batch", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to ingest reports"})
	}

	return c.JSON(http.StatusCreated, result)
}

// GetRecentReports lists reports newest first. An optional q parameter
// restricts results to reports whose stock, broker or author name contains it.
func (h *ReportHandler) GetRecentReports(c echo.Context) error {
	limit := defaultReportLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	reports, err := h.queryService.GetRecentReports(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		h.logger.Error("Failed to get reports", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get reports"})
	}
	return c.JSON(http.StatusOK, reports)
}

// UpdateReview fills the review texts of the report whose attachment URL
// carries the external id.
func (h *ReportHandler) UpdateReview(c echo.Context) error {
	externalID := c.Param("external_id")

	var req dto.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	err := h.reviewService.UpdateReview(c.Request().Context(), externalID, req.Summary, req.NoviceContent, req.ExpertContent)
	if errors.Is(err, dto.ErrReportNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No report matches external id " + externalID})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update review"})
	}

	return c.NoContent(http.StatusNoContent)
}
