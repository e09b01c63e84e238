package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikopo/ledger_service/internal/apperrors"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/dto"
	"github.com/mikopo/ledger_service/internal/middleware"
)

// trialBalanceHandler handles HTTP requests for the trial balance report.
type trialBalanceHandler struct {
	trialBalanceService portssvc.TrialBalanceSvc
}

// newTrialBalanceHandler creates a new trialBalanceHandler.
func newTrialBalanceHandler(ts portssvc.TrialBalanceSvc) *trialBalanceHandler {
	return &trialBalanceHandler{
		trialBalanceService: ts,
	}
}

// registerTrialBalanceRoutes registers reporting routes.
func registerTrialBalanceRoutes(rg *gin.RouterGroup, trialBalanceService portssvc.TrialBalanceSvc) {
	h := newTrialBalanceHandler(trialBalanceService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTrialBalance compiles the period trial balance for the tenant.
func (h *trialBalanceHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tenant"})
		return
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.trialBalanceService.GetTrialBalance(c.Request.Context(), tenantID, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compile trial balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compile trial balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}
