package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacct/openacct/internal/core/domain"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
	"github.com/openacct/openacct/internal/middleware"
)

// ledgerHandler serves the running-balance view of a single account.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the ledger routes under the account tree.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/ledger", h.getLedger)
		accounts.GET("/:accountID/ledger/csv", h.exportLedgerCSV)
	}
}

func (h *ledgerHandler) ledgerReport(c *gin.Context) (*domain.LedgerReport, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	currencyCode := c.Query("currency")
	if currencyCode == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'currency' is required"})
		return nil, false
	}
	period, ok := periodFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return nil, false
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	report, err := h.ledgerService.Ledger(c.Request.Context(), accountID, currencyCode, period, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build ledger")
		return nil, false
	}
	return report, true
}

// getLedger godoc
// @Summary Account ledger
// @Description Returns the account's line items in chronological order with a running balance. When the period has a start date the balance is seeded with the brought-forward sum of everything before it.
// @Tags ledger
// @Produce json
// @Param accountID path string true "Account ID"
// @Param currency query string true "ISO 4217 currency code"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	report, ok := h.ledgerReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerReportResponse(report))
}

// exportLedgerCSV godoc
// @Summary Account ledger as CSV
// @Description Streams the ledger as CSV with columns date, account code, description, debit, credit, running balance. Exactly one of debit/credit is filled per row.
// @Tags ledger
// @Produce text/csv
// @Param accountID path string true "Account ID"
// @Param currency query string true "ISO 4217 currency code"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger/csv [get]
func (h *ledgerHandler) exportLedgerCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, ok := h.ledgerReport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", csvFileName("ledger", report.Account.Code, report.CurrencyCode))
	if err := writeLedgerCSV(c.Writer, report); err != nil {
		// Headers are gone by now; all we can do is log the broken stream.
		logger.Error("Failed to stream ledger CSV", slog.String("error", err.Error()))
	}
}
