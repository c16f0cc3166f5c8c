package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/promotion/service"
	"sales-backend/internal/shared/response"
	"sales-backend/pkg/logger"
)

// =====================================================
// PROMOTION HANDLER
// =====================================================

type PromotionHandler struct {
	promotionService service.ServiceInterface
}

func NewPromotionHandler(promotionService service.ServiceInterface) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListAvailable returns the currently available promotion catalog
// GET /api/v1/promotions
func (h *PromotionHandler) ListAvailable(c *gin.Context) {
	promotions, err := h.promotionService.ListAvailable(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, promotions)
}

// ValidateCoupon validates coupon code against sale context
// POST /api/v1/promotions/validate
func (h *PromotionHandler) ValidateCoupon(c *gin.Context) {
	// Step 1: Bind request body
	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "Invalid request body")
		return
	}

	// Step 2: Customer identity từ JWT (optional, anonymous vẫn validate được)
	req.CustomerID, req.CustomerGroups = customerFromContext(c)

	// Step 3: Validate request
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "Validation failed", err.Error())
		return
	}

	// Step 4: Call service
	result, err := h.promotionService.ValidateCoupon(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// customerFromContext extracts customer identity set bởi auth middleware
func customerFromContext(c *gin.Context) (*uuid.UUID, []string) {
	var customerID *uuid.UUID
	if raw, exists := c.Get("customer_id"); exists {
		if id, ok := raw.(uuid.UUID); ok {
			customerID = &id
		}
	}

	var groups []string
	if raw, exists := c.Get("customer_groups"); exists {
		if gs, ok := raw.([]string); ok {
			groups = gs
		}
	}

	return customerID, groups
}

// handleError maps service errors sang HTTP responses
func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		if appErr.Details != nil {
			response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		} else {
			response.ErrorResponse(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message)
		}
		return
	}

	if errors.Is(err, model.ErrPromotionNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, string(model.ErrCodePromoInvalidCode), "Promotion not found")
		return
	}

	logger.Error("Unhandled promotion error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, string(model.ErrCodeInternalError), "Internal server error")
}
