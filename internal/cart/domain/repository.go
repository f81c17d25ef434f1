package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	// WithTx 在事务中执行 fn，fn 内通过 ctx 复用同一事务
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// GetCurrentByUser 返回用户当前购物车，不存在时返回 nil
	GetCurrentByUser(ctx context.Context, userID uint) (*Cart, error)
	CreateCart(ctx context.Context, cart *Cart) error

	GetLines(ctx context.Context, cartID uint) ([]*CartLine, error)
	// GetLineView 返回带商品名称与当前价格的行视图
	GetLineView(ctx context.Context, cartID uint) ([]*CartLineView, error)
	// UpsertLine 新增行或在已有行上累加数量
	UpsertLine(ctx context.Context, cartID, articleID uint, quantity int) error
	DeleteLine(ctx context.Context, cartID, articleID uint) error
	DeleteLines(ctx context.Context, cartID uint) error
}
