package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPending 新订单的初始状态
const StatusPending = "pending"

var (
	// TaxRate 固定税率 19%
	TaxRate = decimal.NewFromFloat(0.19)
	// ShippingRate 固定运费率 10%
	ShippingRate = decimal.NewFromFloat(0.10)
)

// Order 不可变的历史订单，金额在下单时刻定格
type Order struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
}

// OrderLine 订单行，UnitPrice 是下单时商品价格的快照
type OrderLine struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"order_id"`
	ArticleID   uint    `json:"article_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ArticleName string  `json:"article_name,omitempty"`
}

// Totals 结账金额明细
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals 按固定税率和运费率从小计推导订单金额
func ComputeTotals(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate)
	shipping := subtotal.Mul(ShippingRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
