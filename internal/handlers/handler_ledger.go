package handlers

import (
	"net/http"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles the reporting reads over the posted ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers the ledger reporting routes. They live
// under /accounts because every report is scoped to one account or the
// account hierarchy.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/:id/ledger", h.getAccountLedger)
		accounts.GET("/:id/balance", h.getBalanceAsOf)
	}
}

// getAccountLedger godoc
// @Summary Get an account's ledger
// @Description Returns every movement on the account within the period with a running balance
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AccountLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ledger, err := h.ledgerService.GetAccountLedger(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// getBalanceAsOf godoc
// @Summary Get an account's balance at a point in time
// @Description Reconstructs the balance from posted and approved entries dated on or before the given day
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   asOf query string true "Cut-off date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceAsOfResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) getBalanceAsOf(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BalanceAsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accountID := c.Param("id")
	balance, err := h.ledgerService.GetAccountBalanceAsOf(c.Request.Context(), accountID, params.AsOf)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceAsOfResponse{
		AccountID: accountID,
		AsOf:      params.AsOf,
		Balance:   balance,
	})
}

// getAccountTree godoc
// @Summary Get the account hierarchy
// @Description Returns the full chart of accounts as a forest of root nodes
// @Tags ledger
// @Produce  json
// @Success 200 {array} dto.AccountNodeResponse
// @Security BearerAuth
// @Router /accounts/tree [get]
func (h *ledgerHandler) getAccountTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tree, err := h.ledgerService.GetAccountTree(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTreeResponse(tree))
}
