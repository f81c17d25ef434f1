package domain

import "context"

type ArticleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, article *Article) error
	GetByID(ctx context.Context, id uint) (*Article, error)
	// GetPrice 读取商品当前价格，结账时每行单独调用
	GetPrice(ctx context.Context, id uint) (float64, error)
	List(ctx context.Context) ([]*Article, error)
	Update(ctx context.Context, article *Article) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Article, error)
	TopSold(ctx context.Context, limit int) ([]*TopSoldArticle, error)
	CategoriesAndPriceRange(ctx context.Context) (*CategorySummary, error)
}

type CharacteristicRepository interface {
	Create(ctx context.Context, c *Characteristic) error
	List(ctx context.Context) ([]*Characteristic, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Assign(ctx context.Context, ac *ArticleCharacteristic) error
	Exists(ctx context.Context, articleID, characteristicID uint) (bool, error)
	ListForArticle(ctx context.Context, articleID uint) ([]*ArticleCharacteristicView, error)
	Unassign(ctx context.Context, articleID, characteristicID uint) (bool, error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *ArticleImage) error
	ListForArticle(ctx context.Context, articleID uint) ([]*ArticleImage, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
