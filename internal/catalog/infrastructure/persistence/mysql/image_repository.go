package mysql

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/contextx"
	"gorm.io/gorm"
)

type imageRepository struct{ db *gorm.DB }

func NewImageRepository(db *gorm.DB) domain.ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, img *domain.ArticleImage) error {
	return r.getDB(ctx).WithContext(ctx).Create(img).Error
}

func (r *imageRepository) ListForArticle(ctx context.Context, articleID uint) ([]*domain.ArticleImage, error) {
	var images []*domain.ArticleImage
	err := r.getDB(ctx).WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("sort_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).Delete(&domain.ArticleImage{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *imageRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
