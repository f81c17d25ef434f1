package application

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
)

// CreateImageCommand 创建商品图片命令
type CreateImageCommand struct {
	ArticleID   uint
	Data        string
	Description string
	SortOrder   int
}

type ImageService struct {
	repo domain.ImageRepository
}

func NewImageService(repo domain.ImageRepository) *ImageService {
	return &ImageService{repo: repo}
}

func (s *ImageService) Create(ctx context.Context, cmd CreateImageCommand) (*domain.ArticleImage, error) {
	if cmd.ArticleID == 0 || cmd.Data == "" {
		return nil, errs.New(errs.Validation, "article_id and data are required")
	}
	img := &domain.ArticleImage{
		ArticleID:   cmd.ArticleID,
		Data:        cmd.Data,
		Description: cmd.Description,
		SortOrder:   cmd.SortOrder,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, errs.Wrap(errs.Store, "failed to create image", err)
	}
	return img, nil
}

// ListForArticle 返回商品图片，按 sort_order、id 升序
func (s *ImageService) ListForArticle(ctx context.Context, articleID uint) ([]*domain.ArticleImage, error) {
	images, err := s.repo.ListForArticle(ctx, articleID)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to list images", err)
	}
	return images, nil
}

func (s *ImageService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to delete image", err)
	}
	if !deleted {
		return errs.NotFoundf("image %d not found", id)
	}
	return nil
}
