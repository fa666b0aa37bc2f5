package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests for counterparties and their
// outstanding statements.
type partyHandler struct {
	partyService   portssvc.PartySvcFacade
	voucherService portssvc.VoucherSvcFacade
}

// registerPartyRoutes registers routes related to parties. The voucher
// service backs the per-party receivable and payable statements.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade, voucherService portssvc.VoucherSvcFacade) {
	h := &partyHandler{partyService: partyService, voucherService: voucherService}

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("/:type", h.listParties)
		parties.GET("/:type/:id", h.getParty)
		parties.PUT("/:type/:id", h.updateParty)
		parties.GET("/:type/:id/receivables", h.getReceivables)
		parties.GET("/:type/:id/payables", h.getPayables)
	}
}

// bindPartyType validates the :type path segment.
func bindPartyType(c *gin.Context) (domain.PartyType, bool) {
	partyType := domain.PartyType(c.Param("type"))
	if !partyType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party type: " + c.Param("type")})
		return "", false
	}
	return partyType, true
}

// createParty godoc
// @Summary Register a party
// @Description Registers a customer, supplier, employee or other counterparty
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.CreateParty(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// getParty godoc
// @Summary Get a party
// @Tags parties
// @Produce  json
// @Param   type path string true "Party type" Enums(customer, supplier, employee, other)
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Security BearerAuth
// @Router /parties/{type}/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyType, ok := bindPartyType(c)
	if !ok {
		return
	}

	party, err := h.partyService.GetPartyByID(c.Request.Context(), partyType, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List parties of one type
// @Tags parties
// @Produce  json
// @Param   type path string true "Party type" Enums(customer, supplier, employee, other)
// @Success 200 {array} dto.PartyResponse
// @Security BearerAuth
// @Router /parties/{type} [get]
func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyType, ok := bindPartyType(c)
	if !ok {
		return
	}
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), partyType, params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartyResponse(parties))
}

// updateParty godoc
// @Summary Update a party
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   type path string true "Party type" Enums(customer, supplier, employee, other)
// @Param   id path string true "Party ID"
// @Param   party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Security BearerAuth
// @Router /parties/{type}/{id} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyType, ok := bindPartyType(c)
	if !ok {
		return
	}
	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, userOK := middleware.GetUserIDFromCtx(c.Request.Context())
	if !userOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), partyType, c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// getReceivables godoc
// @Summary Get a party's outstanding receivables
// @Description Aggregates the party's approved and partially paid receivable vouchers
// @Tags parties
// @Produce  json
// @Param   type path string true "Party type" Enums(customer, supplier, employee, other)
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.PartyOutstandingResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Security BearerAuth
// @Router /parties/{type}/{id}/receivables [get]
func (h *partyHandler) getReceivables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyType, ok := bindPartyType(c)
	if !ok {
		return
	}

	statement, err := h.voucherService.GetPartyOutstanding(c.Request.Context(), domain.Receivable, partyType, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getPayables godoc
// @Summary Get a party's outstanding payables
// @Description Aggregates the party's approved and partially paid payable vouchers
// @Tags parties
// @Produce  json
// @Param   type path string true "Party type" Enums(customer, supplier, employee, other)
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.PartyOutstandingResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Security BearerAuth
// @Router /parties/{type}/{id}/payables [get]
func (h *partyHandler) getPayables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyType, ok := bindPartyType(c)
	if !ok {
		return
	}

	statement, err := h.voucherService.GetPartyOutstanding(c.Request.Context(), domain.Payable, partyType, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
