package mysql

import (
	"time"

	"github.com/wyfcoding/catalogmarket/internal/order/domain"
)

// OrderModel MySQL 订单表映射
type OrderModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	UserID    uint      `gorm:"column:user_id;index;not null"`
	Total     float64   `gorm:"column:total;type:decimal(12,2);not null"`
	Status    string    `gorm:"column:status;type:varchar(20);default:'pending';not null"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderLineModel MySQL 订单行表映射，unit_price 保留下单时价格
type OrderLineModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`
	OrderID   uint      `gorm:"column:order_id;index;not null"`
	ArticleID uint      `gorm:"column:article_id;index;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice float64   `gorm:"column:unit_price;type:decimal(12,2);not null"`
}

func (OrderLineModel) TableName() string { return "order_lines" }

func toOrderModel(order *domain.Order) *OrderModel {
	if order == nil {
		return nil
	}
	return &OrderModel{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
	}
}

func toOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	return &domain.Order{
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UserID:    model.UserID,
		Total:     model.Total,
		Status:    model.Status,
	}
}

func toOrderLineModel(line *domain.OrderLine) *OrderLineModel {
	if line == nil {
		return nil
	}
	return &OrderLineModel{
		ID:        line.ID,
		OrderID:   line.OrderID,
		ArticleID: line.ArticleID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
}
