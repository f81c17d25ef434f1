package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/catalogmarket/internal/cart/domain"
	"github.com/wyfcoding/catalogmarket/pkg/contextx"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *cartRepository) GetCurrentByUser(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *domain.Cart) error {
	return r.getDB(ctx).WithContext(ctx).Create(cart).Error
}

func (r *cartRepository) GetLines(ctx context.Context, cartID uint) ([]*domain.CartLine, error) {
	var lines []*domain.CartLine
	err := r.getDB(ctx).WithContext(ctx).Where("cart_id = ?", cartID).Find(&lines).Error
	return lines, err
}

func (r *cartRepository) GetLineView(ctx context.Context, cartID uint) ([]*domain.CartLineView, error) {
	var views []*domain.CartLineView
	err := r.getDB(ctx).WithContext(ctx).Raw(`
		SELECT cl.article_id, a.name, a.price, cl.quantity
		FROM cart_lines cl
		JOIN articles a ON a.id = cl.article_id
		WHERE cl.cart_id = ?
		ORDER BY cl.id ASC`, cartID).Scan(&views).Error
	return views, err
}

func (r *cartRepository) UpsertLine(ctx context.Context, cartID, articleID uint, quantity int) error {
	db := r.getDB(ctx).WithContext(ctx)

	var line domain.CartLine
	err := db.Where("cart_id = ? AND article_id = ?", cartID, articleID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&domain.CartLine{CartID: cartID, ArticleID: articleID, Quantity: quantity}).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&line).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

func (r *cartRepository) DeleteLine(ctx context.Context, cartID, articleID uint) error {
	return r.getDB(ctx).WithContext(ctx).
		Where("cart_id = ? AND article_id = ?", cartID, articleID).
		Delete(&domain.CartLine{}).Error
}

func (r *cartRepository) DeleteLines(ctx context.Context, cartID uint) error {
	return r.getDB(ctx).WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartLine{}).Error
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
