package mysql

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/contextx"
	"gorm.io/gorm"
)

type characteristicRepository struct{ db *gorm.DB }

func NewCharacteristicRepository(db *gorm.DB) domain.CharacteristicRepository {
	return &characteristicRepository{db: db}
}

func (r *characteristicRepository) Create(ctx context.Context, c *domain.Characteristic) error {
	return r.getDB(ctx).WithContext(ctx).Create(c).Error
}

func (r *characteristicRepository) List(ctx context.Context) ([]*domain.Characteristic, error) {
	var characteristics []*domain.Characteristic
	err := r.getDB(ctx).WithContext(ctx).Find(&characteristics).Error
	return characteristics, err
}

func (r *characteristicRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).Delete(&domain.Characteristic{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *characteristicRepository) Assign(ctx context.Context, ac *domain.ArticleCharacteristic) error {
	return r.getDB(ctx).WithContext(ctx).Create(ac).Error
}

func (r *characteristicRepository) Exists(ctx context.Context, articleID, characteristicID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).
		Model(&domain.ArticleCharacteristic{}).
		Where("article_id = ? AND characteristic_id = ?", articleID, characteristicID).
		Count(&count).Error
	return count > 0, err
}

func (r *characteristicRepository) ListForArticle(ctx context.Context, articleID uint) ([]*domain.ArticleCharacteristicView, error) {
	var views []*domain.ArticleCharacteristicView
	err := r.getDB(ctx).WithContext(ctx).Raw(`
		SELECT ac.article_id, ac.characteristic_id, c.name AS characteristic, ac.value
		FROM article_characteristics ac
		JOIN characteristics c ON c.id = ac.characteristic_id
		WHERE ac.article_id = ?`, articleID).Scan(&views).Error
	return views, err
}

func (r *characteristicRepository) Unassign(ctx context.Context, articleID, characteristicID uint) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).
		Where("article_id = ? AND characteristic_id = ?", articleID, characteristicID).
		Delete(&domain.ArticleCharacteristic{})
	return res.RowsAffected > 0, res.Error
}

func (r *characteristicRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
