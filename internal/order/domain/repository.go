package domain

import "context"

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Create 插入订单及其订单行，回填生成的 ID
	Create(ctx context.Context, order *Order, lines []*OrderLine) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	// GetLines 返回订单行，带商品名称
	GetLines(ctx context.Context, orderID uint) ([]*OrderLine, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
}
