package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for receivable and payable vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/overdue", h.listOverdueVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.POST("/:id/approve", h.approveVoucher)
		vouchers.POST("/:id/payments", h.recordPayment)
		vouchers.POST("/:id/void", h.voidVoucher)
	}
}

// listVouchersQuery binds the voucher listing filters.
type listVouchersQuery struct {
	VoucherType domain.VoucherType `form:"type" binding:"required,oneof=receivable payable"`
	dto.ListVouchersParams
}

// overdueVouchersQuery binds the overdue listing filters. An absent asOf
// defaults to today.
type overdueVouchersQuery struct {
	VoucherType domain.VoucherType `form:"type" binding:"required,oneof=receivable payable"`
	AsOf        *time.Time         `form:"asOf" time_format:"2006-01-02"`
}

func voucherListResponse(vouchers []domain.Voucher, partyNames map[string]string) dto.ListVouchersResponse {
	resp := dto.ListVouchersResponse{Vouchers: make([]dto.VoucherResponse, 0, len(vouchers))}
	for i := range vouchers {
		resp.Vouchers = append(resp.Vouchers, dto.ToVoucherResponse(&vouchers[i], partyNames[vouchers[i].PartyID]))
	}
	return resp
}

// createVoucher godoc
// @Summary Create a draft voucher
// @Description Creates a receivable or payable voucher; no journal entry exists until approval
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.GetVoucherResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusCreated, dto.GetVoucherResponse{
		Voucher:  dto.ToVoucherResponse(voucher, ""),
		Items:    dto.ToVoucherItemResponses(voucher.Items),
		Payments: dto.ToPaymentResponses(voucher.Payments),
	})
}

// getVoucher godoc
// @Summary Get a voucher
// @Description Retrieves a voucher with its items, payments and resolved party name
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.GetVoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	voucher, partyName, err := h.voucherService.GetVoucherByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetVoucherResponse{
		Voucher:  dto.ToVoucherResponse(voucher, partyName),
		Items:    dto.ToVoucherItemResponses(voucher.Items),
		Payments: dto.ToPaymentResponses(voucher.Payments),
	})
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists vouchers of one type, optionally filtered by status
// @Tags vouchers
// @Produce  json
// @Param   type query string true "Voucher type" Enums(receivable, payable)
// @Param   status query string false "Status filter" Enums(draft, approved, paid, partially_paid, voided)
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query listVouchersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	vouchers, partyNames, err := h.voucherService.ListVouchers(c.Request.Context(), query.VoucherType, query.ListVouchersParams)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, voucherListResponse(vouchers, partyNames))
}

// listOverdueVouchers godoc
// @Summary List overdue vouchers
// @Description Lists vouchers past their due date that still carry an outstanding balance
// @Tags vouchers
// @Produce  json
// @Param   type query string true "Voucher type" Enums(receivable, payable)
// @Param   asOf query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ListVouchersResponse
// @Security BearerAuth
// @Router /vouchers/overdue [get]
func (h *voucherHandler) listOverdueVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query overdueVouchersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now()
	if query.AsOf != nil {
		asOf = *query.AsOf
	}

	vouchers, partyNames, err := h.voucherService.ListOverdueVouchers(c.Request.Context(), query.VoucherType, asOf)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, voucherListResponse(vouchers, partyNames))
}

// approveVoucher godoc
// @Summary Approve a draft voucher
// @Description Posts the balancing journal entry against the control account and links it to the voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.GetVoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not a draft"
// @Security BearerAuth
// @Router /vouchers/{id}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	approverUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.ApproveVoucher(c.Request.Context(), c.Param("id"), approverUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetVoucherResponse{
		Voucher:  dto.ToVoucherResponse(voucher, ""),
		Items:    dto.ToVoucherItemResponses(voucher.Items),
		Payments: dto.ToPaymentResponses(voucher.Payments),
	})
}

// recordPayment godoc
// @Summary Record a payment against a voucher
// @Description Settles part or all of an approved voucher through a cash or bank account
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.GetVoucherResponse
// @Failure 400 {object} map[string]string "Invalid amount or payment account"
// @Failure 409 {object} map[string]string "Voucher is not payable"
// @Security BearerAuth
// @Router /vouchers/{id}/payments [post]
func (h *voucherHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.RecordPayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetVoucherResponse{
		Voucher:  dto.ToVoucherResponse(voucher, ""),
		Items:    dto.ToVoucherItemResponses(voucher.Items),
		Payments: dto.ToPaymentResponses(voucher.Payments),
	})
}

// voidVoucher godoc
// @Summary Void a voucher
// @Description Cancels a voucher with no payments, reversing its journal entry when one was posted
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.GetVoucherResponse
// @Failure 409 {object} map[string]string "Voucher has payments or cannot be voided"
// @Security BearerAuth
// @Router /vouchers/{id}/void [post]
func (h *voucherHandler) voidVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.VoidVoucher(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetVoucherResponse{
		Voucher:  dto.ToVoucherResponse(voucher, ""),
		Items:    dto.ToVoucherItemResponses(voucher.Items),
		Payments: dto.ToPaymentResponses(voucher.Payments),
	})
}
