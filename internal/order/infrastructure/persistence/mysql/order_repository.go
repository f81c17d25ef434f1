package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/catalogmarket/internal/order/domain"
	"github.com/wyfcoding/catalogmarket/pkg/contextx"
	"gorm.io/gorm"
)

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error {
	db := r.getDB(ctx).WithContext(ctx)

	model := toOrderModel(order)
	if err := db.Create(model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	order.CreatedAt = model.CreatedAt

	for _, line := range lines {
		line.OrderID = model.ID
		lineModel := toOrderLineModel(line)
		if err := db.Create(lineModel).Error; err != nil {
			return err
		}
		line.ID = lineModel.ID
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toOrder(&model), nil
}

func (r *orderRepository) GetLines(ctx context.Context, orderID uint) ([]*domain.OrderLine, error) {
	var lines []*domain.OrderLine
	err := r.getDB(ctx).WithContext(ctx).Raw(`
		SELECT ol.id, ol.order_id, ol.article_id, ol.quantity, ol.unit_price,
		       a.name AS article_name
		FROM order_lines ol
		JOIN articles a ON a.id = ol.article_id
		WHERE ol.order_id = ?
		ORDER BY ol.id ASC`, orderID).Scan(&lines).Error
	return lines, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var models []*OrderModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, toOrder(m))
	}
	return orders, nil
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
