package mysql

import (
	"context"
	"errors"
	"math"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewOrderRepository(db *gorm.DB, timeout time.Duration) repository.OrderRepository {
	return &orderRepo{db: db, timeout: timeout}
}

func (r *orderRepo) Insert(ctx context.Context, order *domain.Order) error {
	if err := order.CheckSchema(); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var o domain.Order
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Take(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out := []domain.Order{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	if err := domain.CheckStatusSchema(to); err != nil {
		return false, err
	}
	return r.conditionalUpdate(ctx,
		map[string]any{"status": string(to), "updated_at": at},
		"order_id = ? AND status = ?", orderID, string(from),
	)
}

func (r *orderRepo) SetDelivery(ctx context.Context, orderID string, expected domain.OrderStatus, deliveryID string, at time.Time) (bool, error) {
	if deliveryID == "" {
		return false, &domain.SchemaError{Field: "delivery", Rule: "required"}
	}
	return r.conditionalUpdate(ctx,
		map[string]any{"delivery_id": deliveryID, "updated_at": at},
		"order_id = ? AND status = ? AND delivery_id IS NULL", orderID, string(expected),
	)
}

func (r *orderRepo) UpdateTotal(ctx context.Context, orderID string, expected domain.OrderStatus, total float64, at time.Time) (bool, error) {
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return false, &domain.SchemaError{Field: "totalPrice", Rule: "min"}
	}
	return r.conditionalUpdate(ctx,
		map[string]any{"total_price": total, "updated_at": at},
		"order_id = ? AND status = ?", orderID, string(expected),
	)
}

// conditionalUpdate applies values only to the row still matching where.
func (r *orderRepo) conditionalUpdate(ctx context.Context, values map[string]any, where string, args ...any) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where(where, args...).Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
