package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/catalogmarket/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/internal/order/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/metrics"
)

var (
	// ErrNoCart 用户没有购物车
	ErrNoCart = errs.New(errs.Domain, "no cart for this user")
	// ErrEmptyCart 购物车为空
	ErrEmptyCart = errs.New(errs.Domain, "cart is empty")
)

// CheckoutResult 结账结果
type CheckoutResult struct {
	OrderID  uint    `json:"order_id"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// OrderDetail 订单详情，含订单行与商品名称
type OrderDetail struct {
	Order *domain.Order       `json:"order"`
	Lines []*domain.OrderLine `json:"lines"`
}

type OrderService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	articles  catalogdomain.ArticleRepository
	publisher domain.EventPublisher
	collector *metrics.Metrics
}

func NewOrderService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	articles catalogdomain.ArticleRepository,
	publisher domain.EventPublisher,
	collector *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		articles:  articles,
		publisher: publisher,
		collector: collector,
	}
}

// CreateOrder 将用户当前购物车转换为订单。
// 读价、建单、清空购物车在同一个事务中执行，任一步失败整体回滚。
// 每行在结账时单独读当前价格，加购之后的价格变化以结账时为准。
func (s *OrderService) CreateOrder(ctx context.Context, userID uint) (*CheckoutResult, error) {
	if userID == 0 {
		return nil, errs.New(errs.Validation, "user_id is required")
	}

	start := time.Now()
	defer logger.LogDuration(ctx, "Checkout finished", "user_id", userID)()

	var result *CheckoutResult
	var event domain.OrderCreatedEvent

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetCurrentByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrNoCart
		}

		lines, err := s.carts.GetLines(txCtx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		subtotal := decimal.Zero
		orderLines := make([]*domain.OrderLine, 0, len(lines))
		for _, line := range lines {
			price, err := s.articles.GetPrice(txCtx, line.ArticleID)
			if err != nil {
				return err
			}
			unitPrice := decimal.NewFromFloat(price)
			subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			orderLines = append(orderLines, &domain.OrderLine{
				ArticleID: line.ArticleID,
				Quantity:  line.Quantity,
				UnitPrice: price,
			})
		}

		totals := domain.ComputeTotals(subtotal)
		order := &domain.Order{
			UserID: userID,
			Total:  totals.Total.InexactFloat64(),
			Status: domain.StatusPending,
		}

		if err := s.orders.Create(txCtx, order, orderLines); err != nil {
			return err
		}
		if err := s.carts.DeleteLines(txCtx, cart.ID); err != nil {
			return err
		}

		result = &CheckoutResult{
			OrderID:  order.ID,
			Subtotal: totals.Subtotal.InexactFloat64(),
			Tax:      totals.Tax.InexactFloat64(),
			Shipping: totals.Shipping.InexactFloat64(),
			Total:    totals.Total.InexactFloat64(),
		}
		event = domain.OrderCreatedEvent{
			OrderID:   order.ID,
			UserID:    userID,
			Total:     result.Total,
			LineCount: len(orderLines),
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errs.Wrap(errs.Store, "failed to create order", err)
	}

	if s.collector != nil {
		s.collector.OrdersTotal.Inc()
		s.collector.CheckoutDuration.Observe(time.Since(start).Seconds())
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.OrderCreatedEventType, "", event); err != nil {
			logger.Warn(ctx, "Failed to publish order created event", "order_id", result.OrderID, "error", err)
		}
	}

	logger.Info(ctx, "Order created", "order_id", result.OrderID, "user_id", userID, "total", result.Total)
	return result, nil
}

// GetOrder 返回订单及订单行
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get order", err)
	}
	if order == nil {
		return nil, errs.NotFoundf("order %d not found", orderID)
	}

	lines, err := s.orders.GetLines(ctx, orderID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get order lines", err)
	}
	return &OrderDetail{Order: order, Lines: lines}, nil
}

// ListByUser 返回用户全部订单，按创建时间倒序
func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to list orders", err)
	}
	return orders, nil
}
