package application

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
)

type CharacteristicService struct {
	repo domain.CharacteristicRepository
}

func NewCharacteristicService(repo domain.CharacteristicRepository) *CharacteristicService {
	return &CharacteristicService{repo: repo}
}

func (s *CharacteristicService) Create(ctx context.Context, name string) (*domain.Characteristic, error) {
	if name == "" {
		return nil, errs.New(errs.Validation, "name is required")
	}
	c := &domain.Characteristic{Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errs.Wrap(errs.Store, "failed to create characteristic", err)
	}
	return c, nil
}

func (s *CharacteristicService) List(ctx context.Context) ([]*domain.Characteristic, error) {
	characteristics, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to list characteristics", err)
	}
	return characteristics, nil
}

func (s *CharacteristicService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to delete characteristic", err)
	}
	if !deleted {
		return errs.NotFoundf("characteristic %d not found", id)
	}
	return nil
}

// Assign 为商品赋特征值，(article, characteristic) 重复时拒绝
func (s *CharacteristicService) Assign(ctx context.Context, articleID, characteristicID uint, value string) error {
	if articleID == 0 || characteristicID == 0 || value == "" {
		return errs.New(errs.Validation, "article_id, characteristic_id and value are required")
	}
	exists, err := s.repo.Exists(ctx, articleID, characteristicID)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to check characteristic assignment", err)
	}
	if exists {
		return errs.New(errs.Conflict, "characteristic already assigned to article")
	}
	ac := &domain.ArticleCharacteristic{
		ArticleID:        articleID,
		CharacteristicID: characteristicID,
		Value:            value,
	}
	if err := s.repo.Assign(ctx, ac); err != nil {
		return errs.Wrap(errs.Store, "failed to assign characteristic", err)
	}
	return nil
}

func (s *CharacteristicService) ListForArticle(ctx context.Context, articleID uint) ([]*domain.ArticleCharacteristicView, error) {
	views, err := s.repo.ListForArticle(ctx, articleID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to list article characteristics", err)
	}
	return views, nil
}

func (s *CharacteristicService) Unassign(ctx context.Context, articleID, characteristicID uint) error {
	removed, err := s.repo.Unassign(ctx, articleID, characteristicID)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to unassign characteristic", err)
	}
	if !removed {
		return errs.NotFoundf("characteristic %d not assigned to article %d", characteristicID, articleID)
	}
	return nil
}
