package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customer "sales-backend/internal/domains/customer/model"
	promomodel "sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/sale/model"
	"sales-backend/internal/domains/sale/service"
	"sales-backend/internal/shared/response"
	"sales-backend/pkg/logger"
)

// =====================================================
// SALE HANDLER
// =====================================================

type SaleHandler struct {
	saleService service.ServiceInterface
}

func NewSaleHandler(saleService service.ServiceInterface) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// =====================================================
// SALE ENDPOINTS
// =====================================================

// GetSale returns sale with items and applied promotions
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), saleID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// ListEligiblePromotions returns promotions applicable to the sale's current state
// GET /api/v1/sales/:id/promotions
func (h *SaleHandler) ListEligiblePromotions(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	promotions, err := h.saleService.ListEligiblePromotions(c.Request.Context(), saleID, customerFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, promotions)
}

// ApplyCoupon applies coupon promotion to sale
// POST /api/v1/sales/:id/promotions
func (h *SaleHandler) ApplyCoupon(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req model.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, string(promomodel.ErrCodeValidationFailed), "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(promomodel.ErrCodeValidationFailed), "Validation failed", err.Error())
		return
	}
	req.NormalizeCode()

	sale, err := h.saleService.ApplyCoupon(c.Request.Context(), saleID, req.Code, customerFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// ApplyAutoPromotions runs the auto-apply pass on a sale
// POST /api/v1/sales/:id/promotions/auto
func (h *SaleHandler) ApplyAutoPromotions(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, applied, err := h.saleService.ApplyAutoPromotions(c.Request.Context(), saleID, customerFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"sale":    sale,
		"applied": applied,
	})
}

// RemovePromotion removes an applied promotion from a sale
// DELETE /api/v1/sales/:id/promotions/:promotionId
func (h *SaleHandler) RemovePromotion(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	promotionID, err := uuid.Parse(c.Param("promotionId"))
	if err != nil {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	sale, err := h.saleService.RemovePromotion(c.Request.Context(), saleID, promotionID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// customerFromContext builds customer từ JWT claims set bởi auth middleware.
// Anonymous checkout trả về nil.
func customerFromContext(c *gin.Context) *customer.Customer {
	raw, exists := c.Get("customer_id")
	if !exists {
		return nil
	}
	customerID, ok := raw.(uuid.UUID)
	if !ok {
		return nil
	}

	cust := &customer.Customer{ID: customerID}
	if rawGroups, exists := c.Get("customer_groups"); exists {
		if groups, ok := rawGroups.([]string); ok {
			cust.Groups = groups
		}
	}
	return cust
}

// handleError maps service errors sang HTTP responses
func handleError(c *gin.Context, err error) {
	var appErr *promomodel.AppError
	if errors.As(err, &appErr) {
		if appErr.Details != nil {
			response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		} else {
			response.ErrorResponse(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrSaleNotFound):
		response.NotFound(c, "Sale not found")
	case errors.Is(err, model.ErrSaleNotMutable):
		response.ErrorResponse(c, http.StatusConflict, "SALE_NOT_MUTABLE", "Sale can no longer be modified")
	case errors.Is(err, promomodel.ErrPromotionNotFound):
		response.ErrorResponse(c, http.StatusNotFound, string(promomodel.ErrCodePromoInvalidCode), "Promotion not found")
	default:
		logger.Error("Unhandled sale error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, string(promomodel.ErrCodeInternalError), "Internal server error")
	}
}
