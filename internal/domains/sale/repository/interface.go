package repository

import (
	"context"

	"github.com/google/uuid"

	"sales-backend/internal/domains/sale/model"
)

// SaleRepository định nghĩa data access cho sales
type SaleRepository interface {
	// GetByID loads sale kèm items và applied promotions
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// Save persists totals và applied promotions của sale trong một transaction.
	// usageDeltas map promotion ID -> thay đổi usage counter (+1 apply, -1 remove);
	// counter không bao giờ xuống dưới 0.
	Save(ctx context.Context, sale *model.Sale, usageDeltas map[uuid.UUID]int) error
}
