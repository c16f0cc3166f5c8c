package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales-backend/internal/domains/promotion/model"
)

// PostgresRepository triển khai PromotionRepository với PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) PromotionRepository {
	return &PostgresRepository{db: db}
}

const promotionColumns = `
	id, name, description,
	type, discount_value, max_discount_amount,
	min_order_amount, applicable_product_ids, applicable_categories,
	customer_groups, auto_apply, code,
	starts_at, ends_at, is_enabled, current_uses,
	created_at, updated_at
`

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,          // description (nullable)
		&p.Type,
		&p.DiscountValue,
		&p.MaxDiscountAmount,    // max_discount_amount (nullable)
		&p.MinOrderAmount,       // min_order_amount (nullable)
		&p.ApplicableProductIDs, // applicable_product_ids (array)
		&p.ApplicableCategories, // applicable_categories (array)
		&p.CustomerGroups,       // customer_groups (array)
		&p.AutoApply,
		&p.Code,                 // code (nullable)
		&p.StartsAt,             // starts_at (nullable)
		&p.EndsAt,               // ends_at (nullable)
		&p.IsEnabled,
		&p.CurrentUses,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

// FindByID tìm promotion theo ID
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE id = $1
	`

	p, err := scanPromotion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion by id: %w", err)
	}

	return p, nil
}

// FindByCode tìm promotion theo coupon code (case-insensitive)
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE code IS NOT NULL AND LOWER(code) = LOWER($1)
	`

	p, err := scanPromotion(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion by code: %w", err)
	}

	return p, nil
}

// ListAvailable trả về promotions available tại thời điểm at
//
// Business Logic:
// - is_enabled = true
// - starts_at IS NULL OR starts_at <= at
// - ends_at IS NULL OR ends_at > at  (window là [starts_at, ends_at))
func (r *PostgresRepository) ListAvailable(ctx context.Context, at time.Time) ([]*model.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE is_enabled = true
		  AND (starts_at IS NULL OR starts_at <= $1)
		  AND (ends_at IS NULL OR ends_at > $1)
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("list available promotions: %w", err)
	}
	defer rows.Close()

	var promotions []*model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}

	return promotions, nil
}
