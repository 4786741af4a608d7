package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
	"github.com/openacct/openacct/internal/middleware"
)

// reportingHandler serves the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers all reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/trial-balance/csv", h.trialBalanceCSV)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/journal", h.journal)
	}
}

// asOfOrToday reads the asOf query parameter, defaulting to today.
func asOfOrToday(c *gin.Context) (time.Time, bool) {
	asOf, ok := parseDateQuery(c, "asOf")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOf date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	if asOf == nil {
		now := time.Now().UTC().Truncate(24 * time.Hour)
		return now, true
	}
	return *asOf, true
}

func (h *reportingHandler) trialBalanceReport(c *gin.Context) (*dto.TrialBalanceResponse, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return nil, false
	}
	asOf, ok := asOfOrToday(c)
	if !ok {
		return nil, false
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), currencyCode, asOf, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return nil, false
	}
	resp := dto.ToTrialBalanceResponse(currencyCode, asOf, rows)
	return &resp, true
}

// trialBalance godoc
// @Summary Trial balance
// @Description Every posted account netted onto its normal side as of a date. Total debit equals total credit when the books balance.
// @Tags reports
// @Produce json
// @Param currency query string true "ISO 4217 currency code"
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	resp, ok := h.trialBalanceReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// trialBalanceCSV godoc
// @Summary Trial balance as CSV
// @Tags reports
// @Produce text/csv
// @Param currency query string true "ISO 4217 currency code"
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/trial-balance/csv [get]
func (h *reportingHandler) trialBalanceCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	resp, ok := h.trialBalanceReport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", csvFileName("trial_balance", resp.CurrencyCode, resp.AsOf.Format(dateLayout)))
	if err := writeTrialBalanceCSV(c.Writer, resp); err != nil {
		logger.Error("Failed to stream trial balance CSV", slog.String("error", err.Error()))
	}
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue and expense accounts netted over the period, with the resulting net income.
// @Tags reports
// @Produce json
// @Param currency query string true "ISO 4217 currency code"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return
	}
	period, ok := periodFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}
	if period.From == nil || period.To == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameters 'from' and 'to' are required"})
		return
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), currencyCode, *period.From, *period.To, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build income statement")
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Asset, liability and equity accounts netted as of a date.
// @Tags reports
// @Produce json
// @Param currency query string true "ISO 4217 currency code"
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return
	}
	asOf, ok := asOfOrToday(c)
	if !ok {
		return
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), currencyCode, asOf, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

// journal godoc
// @Summary Journal listing
// @Description The period's entries with their line items in (date, ordinal) day-book order.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/journal [get]
func (h *reportingHandler) journal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, ok := periodFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entries, err := h.reportingService.Journal(c.Request.Context(), period, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal")
		return
	}

	resp := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		resp[i] = dto.ToEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}
