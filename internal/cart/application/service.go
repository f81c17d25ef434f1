package application

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/cart/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/metrics"
)

type CartService struct {
	repo      domain.CartRepository
	collector *metrics.Metrics
}

func NewCartService(repo domain.CartRepository, collector *metrics.Metrics) *CartService {
	return &CartService{repo: repo, collector: collector}
}

// GetCart 返回用户当前购物车视图。没有购物车不是错误，返回空 items。
func (s *CartService) GetCart(ctx context.Context, userID uint) (*domain.CartView, error) {
	cart, err := s.repo.GetCurrentByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get cart", err)
	}
	if cart == nil {
		return &domain.CartView{Items: []*domain.CartLineView{}}, nil
	}

	items, err := s.repo.GetLineView(ctx, cart.ID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get cart lines", err)
	}
	if items == nil {
		items = []*domain.CartLineView{}
	}

	total, _ := domain.ComputeTotal(items).Float64()
	return &domain.CartView{CartID: cart.ID, Items: items, Total: total}, nil
}

// AddItem 向用户当前购物车加购。购物车不存在时创建，行已存在时数量累加。
func (s *CartService) AddItem(ctx context.Context, userID, articleID uint, quantity int) error {
	if userID == 0 || articleID == 0 {
		return errs.New(errs.Validation, "user_id and article_id are required")
	}
	if quantity <= 0 {
		return errs.New(errs.Validation, "quantity must be a positive integer")
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.repo.GetCurrentByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &domain.Cart{UserID: userID}
			if err := s.repo.CreateCart(txCtx, cart); err != nil {
				return err
			}
			logger.Info(txCtx, "Cart created", "user_id", userID, "cart_id", cart.ID)
		}
		return s.repo.UpsertLine(txCtx, cart.ID, articleID, quantity)
	})
	if err != nil {
		return errs.Wrap(errs.Store, "failed to add item to cart", err)
	}
	if s.collector != nil {
		s.collector.CartItemsAdded.Inc()
	}
	return nil
}

// RemoveItem 删除购物车行，行不存在时也成功
func (s *CartService) RemoveItem(ctx context.Context, cartID, articleID uint) error {
	if cartID == 0 || articleID == 0 {
		return errs.New(errs.Validation, "cart_id and article_id are required")
	}
	if err := s.repo.DeleteLine(ctx, cartID, articleID); err != nil {
		return errs.Wrap(errs.Store, "failed to remove item from cart", err)
	}
	return nil
}

// EmptyCart 清空用户当前购物车的所有行，没有购物车时为空操作
func (s *CartService) EmptyCart(ctx context.Context, userID uint) error {
	cart, err := s.repo.GetCurrentByUser(ctx, userID)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to get cart", err)
	}
	if cart == nil {
		return nil
	}
	if err := s.repo.DeleteLines(ctx, cart.ID); err != nil {
		return errs.Wrap(errs.Store, "failed to empty cart", err)
	}
	return nil
}
