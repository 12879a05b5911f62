package http

import (
	"net/http"
	"strconv"

	"golang-report-consensus/internal/report/dto"
	"golang-report-consensus/internal/report/service"
	"golang-report-consensus/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultSummaryLimit = 20

// SummaryHandler serves the per-stock consensus ranking.
type SummaryHandler struct {
	queryService service.ReportQueryService
	logger       *logger.Logger
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(queryService service.ReportQueryService, logger *logger.Logger) *SummaryHandler {
	return &SummaryHandler{queryService: queryService, logger: logger}
}

// RegisterRoutes registers the summary routes to the Echo group.
func (h *SummaryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetTopSummaries)
}

// GetTopSummaries returns stock summaries ordered by average expected return
// descending. Only stocks covered by at least three reports appear.
func (h *SummaryHandler) GetTopSummaries(c echo.Context) error {
	limit := defaultSummaryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	summaries, err := h.queryService.GetTopSummaries(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get stock summaries", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock summaries"})
	}
	return c.JSON(http.StatusOK, summaries)
}
