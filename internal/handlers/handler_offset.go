package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
	"github.com/openacct/openacct/internal/middleware"
)

// offsetHandler handles offset tracking and reconciliation for accounts
// flagged needsOffset.
type offsetHandler struct {
	offsetService portssvc.OffsetSvcFacade
}

// newOffsetHandler creates a new offsetHandler.
func newOffsetHandler(os portssvc.OffsetSvcFacade) *offsetHandler {
	return &offsetHandler{offsetService: os}
}

// registerOffsetRoutes registers the offset routes under the account tree.
func registerOffsetRoutes(rg *gin.RouterGroup, offsetService portssvc.OffsetSvcFacade) {
	h := newOffsetHandler(offsetService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/offsets/unmatched", h.unmatchedOriginals)
		accounts.GET("/:accountID/offsets/proposal", h.proposeMatches)
		accounts.POST("/:accountID/offsets/matches", h.confirmMatches)
	}
}

func requiredCurrency(c *gin.Context) (string, bool) {
	currencyCode := c.Query("currency")
	if currencyCode == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'currency' is required"})
		return "", false
	}
	return currencyCode, true
}

// unmatchedOriginals godoc
// @Summary Unmatched originals of an account
// @Description Lists the account's originals that are not yet fully offset, each with its net balance (amount minus confirmed offsets).
// @Tags offsets
// @Produce json
// @Param accountID path string true "Account ID"
// @Param currency query string true "ISO 4217 currency code"
// @Success 200 {array} dto.OriginalStatusResponse
// @Failure 400 {object} ErrorResponse "Account does not track offsets"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/offsets/unmatched [get]
func (h *offsetHandler) unmatchedOriginals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	statuses, err := h.offsetService.UnmatchedOriginals(c.Request.Context(), accountID, currencyCode, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list unmatched originals")
		return
	}

	resp := make([]dto.OriginalStatusResponse, len(statuses))
	for i := range statuses {
		resp[i] = dto.ToOriginalStatusResponse(&statuses[i])
	}
	c.JSON(http.StatusOK, resp)
}

// proposeMatches godoc
// @Summary Propose offset matches
// @Description Pairs unmatched offset candidates with equal-amount unmatched originals, both sides in chronological order. Nothing is persisted; the proposal is confirmed separately.
// @Tags offsets
// @Produce json
// @Param accountID path string true "Account ID"
// @Param currency query string true "ISO 4217 currency code"
// @Success 200 {object} dto.MatchProposalResponse
// @Failure 400 {object} ErrorResponse "Account does not track offsets"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/offsets/proposal [get]
func (h *offsetHandler) proposeMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return
	}
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	proposal, err := h.offsetService.ProposeMatches(c.Request.Context(), accountID, currencyCode, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to propose matches")
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchProposalResponse(proposal))
}

// confirmMatches godoc
// @Summary Confirm offset matches
// @Description Validates and applies a batch of proposed pairs in one transaction. Any stale pair aborts the whole batch so a partial confirmation can never occur.
// @Tags offsets
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param currency query string true "ISO 4217 currency code"
// @Param matches body dto.ConfirmMatchesRequest true "Pairs to confirm"
// @Success 200 {object} map[string]int "Number of offsets written"
// @Failure 400 {object} ErrorResponse "A pair violates the net balance invariant"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "An offset was assigned concurrently"
// @Security BearerAuth
// @Router /accounts/{accountID}/offsets/matches [post]
func (h *offsetHandler) confirmMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	currencyCode, ok := requiredCurrency(c)
	if !ok {
		return
	}

	var req dto.ConfirmMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matched, err := h.offsetService.ConfirmMatches(c.Request.Context(), accountID, currencyCode, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to confirm matches")
		return
	}

	logger.Info("Offset matches confirmed",
		slog.String("account_id", accountID), slog.Int("matched", matched))
	c.JSON(http.StatusOK, gin.H{"matched": matched})
}
