package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	customer "sales-backend/internal/domains/customer/model"
	promomodel "sales-backend/internal/domains/promotion/model"
	promorepo "sales-backend/internal/domains/promotion/repository"
	promoservice "sales-backend/internal/domains/promotion/service"
	"sales-backend/internal/domains/sale/model"
	"sales-backend/internal/domains/sale/repository"
	"sales-backend/pkg/logger"
)

// checkoutService orchestrates promotion apply/remove trên sales.
// Ledger mutates in-memory, repository persists trong một transaction.
type checkoutService struct {
	saleRepo  repository.SaleRepository
	promoRepo promorepo.PromotionRepository
	promotion promoservice.ServiceInterface
	ledger    *promoservice.ApplicationLedger
}

func NewCheckoutService(
	saleRepo repository.SaleRepository,
	promoRepo promorepo.PromotionRepository,
	promotionSvc promoservice.ServiceInterface,
	ledger *promoservice.ApplicationLedger,
) ServiceInterface {
	return &checkoutService{
		saleRepo:  saleRepo,
		promoRepo: promoRepo,
		promotion: promotionSvc,
		ledger:    ledger,
	}
}

// ===== READ =====

func (s *checkoutService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

// ListEligiblePromotions filters catalog theo sale context, read-only
func (s *checkoutService) ListEligiblePromotions(ctx context.Context, saleID uuid.UUID, cust *customer.Customer) ([]*promomodel.PromotionInfo, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.promotion.FindEligible(ctx, cust, sale.Items, sale.OrderAmount())
	if err != nil {
		return nil, err
	}

	infos := make([]*promomodel.PromotionInfo, len(eligible))
	for i, promo := range eligible {
		infos[i] = promo.ToInfo()
	}
	return infos, nil
}

// ===== APPLY =====

// ApplyCoupon validates và applies coupon promotion vào sale.
//
// Flow:
// 1. Load sale, check còn mutable
// 2. Resolve code qua promotion service (active + eligible)
// 3. Reject nếu promotion đã applied
// 4. Ledger apply (discount computation + totals + counter)
// 5. Persist sale + usage delta trong một transaction
func (s *checkoutService) ApplyCoupon(ctx context.Context, saleID uuid.UUID, code string, cust *customer.Customer) (*model.Sale, error) {
	sale, err := s.loadMutableSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	promo, err := s.promotion.ResolveCoupon(ctx, code, cust, sale.Items, sale.OrderAmount())
	if err != nil {
		return nil, err
	}

	if isApplied(sale, promo.ID) {
		return nil, &promomodel.AppError{
			Code:       promomodel.ErrCodePromoAlreadyApplied,
			Message:    "Promotion is already applied to this sale",
			HTTPStatus: 409,
			Details: map[string]interface{}{
				"promotion_id": promo.ID,
			},
		}
	}

	if _, err := s.ledger.ApplyPromotion(sale, promo, false); err != nil {
		return nil, err
	}

	deltas := map[uuid.UUID]int{promo.ID: 1}
	if err := s.saleRepo.Save(ctx, sale, deltas); err != nil {
		return nil, fmt.Errorf("persist sale after apply: %w", err)
	}

	logger.Info("Coupon applied to sale", map[string]interface{}{
		"sale_id":      sale.ID,
		"promotion_id": promo.ID,
		"final_total":  sale.FinalTotal,
	})

	return sale, nil
}

// ApplyAutoPromotions chạy auto-apply pass trên sale.
//
// Candidates đã applied hoặc zero-discount được skip; batch chỉ fail
// khi có lỗi hệ thống. Không có candidate nào apply được thì sale giữ
// nguyên, không có write nào xảy ra.
func (s *checkoutService) ApplyAutoPromotions(ctx context.Context, saleID uuid.UUID, cust *customer.Customer) (*model.Sale, []*promomodel.AppliedPromotion, error) {
	sale, err := s.loadMutableSale(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.promotion.FindAutoApplicable(ctx, cust, sale.Items, sale.OrderAmount())
	if err != nil {
		return nil, nil, err
	}

	var appliedNow []*promomodel.AppliedPromotion
	deltas := make(map[uuid.UUID]int)

	for _, promo := range candidates {
		if isApplied(sale, promo.ID) {
			continue
		}

		applied, err := s.ledger.ApplyPromotion(sale, promo, true)
		if err != nil {
			var appErr *promomodel.AppError
			if errors.As(err, &appErr) && appErr.Code == promomodel.ErrCodePromoZeroDiscount {
				// zero-discount candidate, bỏ qua
				continue
			}
			return nil, nil, err
		}

		appliedNow = append(appliedNow, applied)
		deltas[promo.ID]++
	}

	if len(appliedNow) == 0 {
		return sale, nil, nil
	}

	if err := s.saleRepo.Save(ctx, sale, deltas); err != nil {
		return nil, nil, fmt.Errorf("persist sale after auto-apply: %w", err)
	}

	logger.Info("Auto promotions applied to sale", map[string]interface{}{
		"sale_id": sale.ID,
		"count":   len(appliedNow),
	})

	return sale, appliedNow, nil
}

// ===== REMOVE =====

// RemovePromotion gỡ applied promotion khỏi sale và giảm usage counter.
// Promotion record đã bị xóa khỏi catalog vẫn gỡ được; counter chỉ
// decrement khi record còn tồn tại.
func (s *checkoutService) RemovePromotion(ctx context.Context, saleID uuid.UUID, promotionID uuid.UUID) (*model.Sale, error) {
	sale, err := s.loadMutableSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	promoExists := true
	promo, err := s.promoRepo.FindByID(ctx, promotionID)
	if err != nil {
		if !errors.Is(err, promomodel.ErrPromotionNotFound) {
			return nil, err
		}
		promoExists = false
		promo = &promomodel.Promotion{ID: promotionID}
	}

	if _, err := s.ledger.RemovePromotion(sale, promo); err != nil {
		return nil, err
	}

	deltas := map[uuid.UUID]int{}
	if promoExists {
		deltas[promotionID] = -1
	}

	if err := s.saleRepo.Save(ctx, sale, deltas); err != nil {
		return nil, fmt.Errorf("persist sale after remove: %w", err)
	}

	logger.Info("Promotion removed from sale", map[string]interface{}{
		"sale_id":      sale.ID,
		"promotion_id": promotionID,
		"final_total":  sale.FinalTotal,
	})

	return sale, nil
}

// ===== HELPERS =====

func (s *checkoutService) loadMutableSale(ctx context.Context, saleID uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != model.SaleStatusDraft {
		return nil, model.ErrSaleNotMutable
	}
	return sale, nil
}

func isApplied(sale *model.Sale, promotionID uuid.UUID) bool {
	for _, applied := range sale.AppliedPromotions {
		if applied.PromotionID == promotionID {
			return true
		}
	}
	return false
}
