package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sales-backend/internal/domains/promotion/model"
)

// PromotionRepository định nghĩa interface cho promotion data access.
//
// Engine chỉ đọc catalog qua interface này; usage counter persistence
// đi chung transaction với sale save (xem sale repository).
type PromotionRepository interface {
	// FindByID tìm promotion theo ID
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)

	// FindByCode tìm promotion theo exact coupon code
	FindByCode(ctx context.Context, code string) (*model.Promotion, error)

	// ListAvailable trả về catalog các promotions available tại thời
	// điểm at (enabled + activity window chứa at)
	ListAvailable(ctx context.Context, at time.Time) ([]*model.Promotion, error)
}
