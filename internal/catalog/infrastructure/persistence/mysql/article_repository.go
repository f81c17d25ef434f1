package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/contextx"
	"gorm.io/gorm"
)

type articleRepository struct{ db *gorm.DB }

func NewArticleRepository(db *gorm.DB) domain.ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	return r.getDB(ctx).WithContext(ctx).Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*domain.Article, error) {
	var a domain.Article
	err := r.getDB(ctx).WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) GetPrice(ctx context.Context, id uint) (float64, error) {
	var a domain.Article
	err := r.getDB(ctx).WithContext(ctx).Select("price").First(&a, id).Error
	if err != nil {
		return 0, err
	}
	return a.Price, nil
}

func (r *articleRepository) List(ctx context.Context) ([]*domain.Article, error) {
	var articles []*domain.Article
	err := r.getDB(ctx).WithContext(ctx).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).
		Model(&domain.Article{}).
		Where("id = ?", article.ID).
		Updates(map[string]any{
			"name":        article.Name,
			"description": article.Description,
			"price":       article.Price,
			"stock":       article.Stock,
			"category":    article.Category,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *articleRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).Delete(&domain.Article{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *articleRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Article, error) {
	q := r.getDB(ctx).WithContext(ctx).Model(&domain.Article{})
	if filter.Name != "" {
		pattern := "%" + strings.ToLower(filter.Name) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(filter.Category)+"%")
	}
	if filter.PriceMin != nil {
		q = q.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("price <= ?", *filter.PriceMax)
	}

	var articles []*domain.Article
	err := q.Find(&articles).Error
	return articles, err
}

func (r *articleRepository) TopSold(ctx context.Context, limit int) ([]*domain.TopSoldArticle, error) {
	var rows []*domain.TopSoldArticle
	err := r.getDB(ctx).WithContext(ctx).Raw(`
		SELECT a.id AS article_id, a.name, a.description, a.price, a.category,
		       COALESCE(SUM(ol.quantity), 0) AS total_sold,
		       (SELECT ai.data FROM article_images ai
		        WHERE ai.article_id = a.id AND ai.deleted_at IS NULL
		        ORDER BY ai.sort_order ASC, ai.id ASC LIMIT 1) AS image
		FROM articles a
		LEFT JOIN order_lines ol ON ol.article_id = a.id
		WHERE a.deleted_at IS NULL
		GROUP BY a.id, a.name, a.description, a.price, a.category
		ORDER BY total_sold DESC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

func (r *articleRepository) CategoriesAndPriceRange(ctx context.Context) (*domain.CategorySummary, error) {
	db := r.getDB(ctx).WithContext(ctx)

	var categories []string
	err := db.Model(&domain.Article{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> ''").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}

	var bounds struct {
		MinPrice float64
		MaxPrice float64
	}
	err = db.Model(&domain.Article{}).
		Select("COALESCE(MIN(price), 0) AS min_price, COALESCE(MAX(price), 0) AS max_price").
		Scan(&bounds).Error
	if err != nil {
		return nil, err
	}

	return &domain.CategorySummary{
		Categories: categories,
		MinPrice:   bounds.MinPrice,
		MaxPrice:   bounds.MaxPrice,
	}, nil
}

func (r *articleRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
