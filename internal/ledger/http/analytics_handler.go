package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/gatekeeper/internal/httputil"
	"github.com/allisson/gatekeeper/internal/ledger/http/dto"
	ledgerUseCase "github.com/allisson/gatekeeper/internal/ledger/usecase"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

const (
	defaultLogsLimit = 50
	maxLogsLimit     = 1000
	maxTopEndpoints  = 100
)

// AnalyticsHandler serves the usage overview and the audit log listing.
type AnalyticsHandler struct {
	ledger     ledgerUseCase.LedgerUseCase
	defaultTop int
	now        func() time.Time
	logger     *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler. defaultTop is the number of endpoints
// reported when the request does not set top.
func NewAnalyticsHandler(
	ledger ledgerUseCase.LedgerUseCase,
	defaultTop int,
	now func() time.Time,
	logger *slog.Logger,
) *AnalyticsHandler {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsHandler{
		ledger:     ledger,
		defaultTop: defaultTop,
		now:        now,
		logger:     logger,
	}
}

// OverviewHandler summarizes the traffic of one UTC day.
// GET /v1/analytics/overview?date=YYYY-MM-DD&top=N - Requires the static key or a token
// with read:analytics. date defaults to today.
func (h *AnalyticsHandler) OverviewHandler(c *gin.Context) {
	dateParam := c.Query("date")
	top := h.defaultTop
	topParam := c.Query("top")

	err := validation.Errors{
		"date": validation.Validate(dateParam, customValidation.Date),
		"top": validation.Validate(topParam, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxTopEndpoints {
				return errors.New("must be an integer between 1 and 100")
			}
			top = n
			return nil
		})),
	}.Filter()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	date := h.now().UTC()
	if dateParam != "" {
		date, _ = time.Parse(customValidation.DateLayout, dateParam)
	}

	overview, err := h.ledger.QueryOverview(c.Request.Context(), date, top)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOverviewToResponse(overview))
}

// LogsHandler lists the most recent audit entries.
// GET /v1/analytics/logs?limit=N - Requires the static key or a token with read:analytics.
func (h *AnalyticsHandler) LogsHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c, defaultLogsLimit, maxLogsLimit)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	entries, err := h.ledger.QueryLogs(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToListResponse(entries))
}
