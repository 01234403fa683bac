package repository

import (
	"context"
	"time"

	"digital-downloads-store/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create persists the order together with its item snapshots.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	// MarkCompleted transitions to completed unless the order already is.
	// Returns whether this call performed the transition, so callers can
	// skip side effects on replays.
	MarkCompleted(ctx context.Context, id uint, gateway, paymentID string) (bool, error)
	MarkFailed(ctx context.Context, id uint) error
	ListCompletedByUser(ctx context.Context, userID uint, page, perPage int) (*Page[model.Order], error)
	ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Order], error)
	HasPurchased(ctx context.Context, userID, productID uint) (bool, error)
	PurchasedProductIDs(ctx context.Context, userID uint) ([]uint, error)
	CompletedStats(ctx context.Context) (count int64, revenue decimal.Decimal, err error)
	ListRecentCompleted(ctx context.Context, limit int) ([]model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) MarkCompleted(ctx context.Context, id uint, gateway, paymentID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status <> ?", id, model.OrderStatusCompleted).
		Updates(map[string]interface{}{
			"status":          model.OrderStatusCompleted,
			"payment_gateway": gateway,
			"payment_id":      paymentID,
			"paid_at":         time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) MarkFailed(ctx context.Context, id uint) error {
	// completed is terminal: a late failure event never downgrades it.
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status <> ?", id, model.OrderStatusCompleted).
		Update("status", model.OrderStatusFailed).Error
}

func (r *orderRepoImpl) ListCompletedByUser(ctx context.Context, userID uint, page, perPage int) (*Page[model.Order], error) {
	page, perPage = normalizePage(page, perPage, 10)

	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusCompleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []model.Order
	err := query.
		Preload("Items").
		Preload("Items.Product").
		Order("paid_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Order]{Data: orders, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *orderRepoImpl) ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Order], error) {
	page, perPage = normalizePage(page, perPage, 30)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Order]{Data: orders, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *orderRepoImpl) HasPurchased(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, model.OrderStatusCompleted, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepoImpl) PurchasedProductIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Distinct("order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, model.OrderStatusCompleted).
		Pluck("order_items.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *orderRepoImpl) CompletedStats(ctx context.Context) (int64, decimal.Decimal, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	var revenue decimal.NullDecimal
	err = r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	return count, revenue.Decimal, nil
}

func (r *orderRepoImpl) ListRecentCompleted(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.OrderStatusCompleted).
		Order("paid_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
