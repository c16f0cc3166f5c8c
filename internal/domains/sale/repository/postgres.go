package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	promotion "sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/sale/model"
	"sales-backend/pkg/database"
)

// PostgresRepository triển khai SaleRepository với PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) SaleRepository {
	return &PostgresRepository{db: db}
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

// GetByID loads sale, line items và applied promotions
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	query := `
		SELECT id, sale_number, customer_id, status,
		       subtotal, original_total, promotion_discount_amount,
		       base_discount_amount, discount_amount,
		       tax_amount, shipping_cost,
		       final_total, total_amount,
		       created_at, updated_at
		FROM sales
		WHERE id = $1
	`

	var s model.Sale
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.SaleNumber,
		&s.CustomerID, // customer_id (nullable)
		&s.Status,
		&s.Subtotal, // subtotal (nullable)
		&s.OriginalTotal,
		&s.PromotionDiscountAmount,
		&s.BaseDiscountAmount,
		&s.DiscountAmount,
		&s.TaxAmount,    // tax_amount (nullable)
		&s.ShippingCost, // shipping_cost (nullable)
		&s.FinalTotal,
		&s.TotalAmount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("find sale by id: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items

	applied, err := r.loadAppliedPromotions(ctx, id)
	if err != nil {
		return nil, err
	}
	s.AppliedPromotions = applied

	return &s, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, product_category,
		       unit_price, quantity
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	var items []model.SaleItem
	for rows.Next() {
		var item model.SaleItem
		err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Category, // product_category (nullable)
			&item.UnitPrice,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) loadAppliedPromotions(ctx context.Context, saleID uuid.UUID) ([]promotion.AppliedPromotion, error) {
	query := `
		SELECT id, sale_id, promotion_id, promotion_name, promotion_code,
		       discount_amount, order_amount, auto_applied, applied_at
		FROM sale_promotions
		WHERE sale_id = $1
		ORDER BY applied_at
	`

	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("load applied promotions: %w", err)
	}
	defer rows.Close()

	var applied []promotion.AppliedPromotion
	for rows.Next() {
		var ap promotion.AppliedPromotion
		err := rows.Scan(
			&ap.ID,
			&ap.SaleID,
			&ap.PromotionID,
			&ap.PromotionName,
			&ap.PromotionCode, // promotion_code (nullable)
			&ap.DiscountAmount,
			&ap.OrderAmount,
			&ap.AutoApplied,
			&ap.AppliedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan applied promotion: %w", err)
		}
		applied = append(applied, ap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied promotions: %w", err)
	}

	return applied, nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

// Save persists derived totals, applied promotions và usage counters
// trong một transaction duy nhất.
//
// Business Logic:
// - Replace toàn bộ sale_promotions rows (applied set là source of truth)
// - Usage counter update là atomic SQL, decrement clamp về 0
func (r *PostgresRepository) Save(ctx context.Context, sale *model.Sale, usageDeltas map[uuid.UUID]int) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		updateQuery := `
			UPDATE sales
			SET original_total = $2,
			    promotion_discount_amount = $3,
			    base_discount_amount = $4,
			    discount_amount = $5,
			    final_total = $6,
			    total_amount = $7,
			    updated_at = NOW()
			WHERE id = $1
		`

		tag, err := tx.Exec(ctx, updateQuery,
			sale.ID,
			sale.OriginalTotal,
			sale.PromotionDiscountAmount,
			sale.BaseDiscountAmount,
			sale.DiscountAmount,
			sale.FinalTotal,
			sale.TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("update sale totals: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrSaleNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM sale_promotions WHERE sale_id = $1`, sale.ID); err != nil {
			return fmt.Errorf("clear applied promotions: %w", err)
		}

		insertQuery := `
			INSERT INTO sale_promotions (
				id, sale_id, promotion_id, promotion_name, promotion_code,
				discount_amount, order_amount, auto_applied, applied_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		for _, ap := range sale.AppliedPromotions {
			_, err := tx.Exec(ctx, insertQuery,
				ap.ID,
				ap.SaleID,
				ap.PromotionID,
				ap.PromotionName,
				ap.PromotionCode,
				ap.DiscountAmount,
				ap.OrderAmount,
				ap.AutoApplied,
				ap.AppliedAt,
			)
			if err != nil {
				return fmt.Errorf("insert applied promotion: %w", err)
			}
		}

		for promotionID, delta := range usageDeltas {
			if delta == 0 {
				continue
			}

			var usageQuery string
			if delta > 0 {
				usageQuery = `UPDATE promotions SET current_uses = current_uses + $2, updated_at = NOW() WHERE id = $1`
			} else {
				// clamp: counter không xuống dưới 0
				usageQuery = `UPDATE promotions SET current_uses = GREATEST(current_uses + $2, 0), updated_at = NOW() WHERE id = $1`
			}

			if _, err := tx.Exec(ctx, usageQuery, promotionID, delta); err != nil {
				return fmt.Errorf("update promotion usage: %w", err)
			}
		}

		return nil
	})
}
