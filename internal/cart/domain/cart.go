package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart 用户购物车。一个用户可能存在多行，"当前购物车"是创建时间最新的一行。
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"column:user_id;index;not null"`
	Lines  []CartLine `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string { return "carts" }

// CartLine 购物车行，(cart, article) 唯一，重复加购累加数量。
// 行会被结账消费掉，因此物理删除，不走软删除。
type CartLine struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	CartID    uint      `gorm:"column:cart_id;uniqueIndex:uniq_cart_article;not null"`
	ArticleID uint      `gorm:"column:article_id;uniqueIndex:uniq_cart_article;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
}

func (CartLine) TableName() string { return "cart_lines" }

// CartLineView 购物车行视图，带商品名称与当前价格
type CartLineView struct {
	ArticleID uint    `json:"article_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartView 购物车视图
type CartView struct {
	CartID uint            `json:"cart_id,omitempty"`
	Items  []*CartLineView `json:"items"`
	Total  float64         `json:"total"`
}

// ComputeTotal 按当前价格合计购物车金额
func ComputeTotal(items []*CartLineView) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
