package application

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
)

const defaultTopSoldLimit = 3

// CreateArticleCommand 创建商品命令
type CreateArticleCommand struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// NestedCharacteristic createFull 中内嵌的特征取值
type NestedCharacteristic struct {
	CharacteristicID uint
	Value            string
}

// NestedImage createFull 中内嵌的图片
type NestedImage struct {
	Data        string
	Description string
	SortOrder   int
}

type ArticleService struct {
	articles        domain.ArticleRepository
	characteristics domain.CharacteristicRepository
	images          domain.ImageRepository
}

func NewArticleService(
	articles domain.ArticleRepository,
	characteristics domain.CharacteristicRepository,
	images domain.ImageRepository,
) *ArticleService {
	return &ArticleService{articles: articles, characteristics: characteristics, images: images}
}

func (s *ArticleService) Create(ctx context.Context, cmd CreateArticleCommand) (*domain.Article, error) {
	if cmd.Name == "" || cmd.Price <= 0 || cmd.Stock < 0 {
		return nil, errs.New(errs.Validation, "name, positive price and non-negative stock are required")
	}
	a := &domain.Article{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, errs.Wrap(errs.Store, "failed to create article", err)
	}
	return a, nil
}

// CreateFull 在一个事务中创建商品及其内嵌特征取值与图片。
// 缺少必填字段的内嵌条目被跳过而不拒绝，显式插入失败则整体回滚。
func (s *ArticleService) CreateFull(ctx context.Context, cmd CreateArticleCommand, characteristics []NestedCharacteristic, images []NestedImage) (*domain.Article, error) {
	if cmd.Name == "" || cmd.Price <= 0 || cmd.Stock < 0 {
		return nil, errs.New(errs.Validation, "name, positive price and non-negative stock are required")
	}

	a := &domain.Article{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
	}

	err := s.articles.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.articles.Create(txCtx, a); err != nil {
			return err
		}
		for _, c := range characteristics {
			if c.CharacteristicID == 0 || c.Value == "" {
				continue
			}
			ac := &domain.ArticleCharacteristic{
				ArticleID:        a.ID,
				CharacteristicID: c.CharacteristicID,
				Value:            c.Value,
			}
			if err := s.characteristics.Assign(txCtx, ac); err != nil {
				return err
			}
		}
		for _, img := range images {
			if img.Data == "" {
				continue
			}
			ai := &domain.ArticleImage{
				ArticleID:   a.ID,
				Data:        img.Data,
				Description: img.Description,
				SortOrder:   img.SortOrder,
			}
			if err := s.images.Create(txCtx, ai); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to create full article", err)
	}
	return a, nil
}

func (s *ArticleService) Get(ctx context.Context, id uint) (*domain.Article, error) {
	a, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get article", err)
	}
	if a == nil {
		return nil, errs.NotFoundf("article %d not found", id)
	}
	return a, nil
}

func (s *ArticleService) List(ctx context.Context) ([]*domain.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to list articles", err)
	}
	return articles, nil
}

func (s *ArticleService) Update(ctx context.Context, id uint, cmd CreateArticleCommand) error {
	if cmd.Name == "" || cmd.Price <= 0 || cmd.Stock < 0 {
		return errs.New(errs.Validation, "name, positive price and non-negative stock are required")
	}
	a := &domain.Article{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
	}
	a.ID = id
	updated, err := s.articles.Update(ctx, a)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to update article", err)
	}
	if !updated {
		return errs.NotFoundf("article %d not found", id)
	}
	return nil
}

// Delete 删除商品。历史订单行保留下单时的单价，不做级联。
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.articles.Delete(ctx, id)
	if err != nil {
		return errs.Wrap(errs.Store, "failed to delete article", err)
	}
	if !deleted {
		return errs.NotFoundf("article %d not found", id)
	}
	return nil
}

func (s *ArticleService) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Article, error) {
	articles, err := s.articles.Search(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to search articles", err)
	}
	return articles, nil
}

// TopSold 按订单行累计销量排序，并列名次顺序不保证
func (s *ArticleService) TopSold(ctx context.Context, limit int) ([]*domain.TopSoldArticle, error) {
	if limit <= 0 {
		limit = defaultTopSoldLimit
	}
	rows, err := s.articles.TopSold(ctx, limit)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get top sold articles", err)
	}
	return rows, nil
}

func (s *ArticleService) CategoriesAndPriceRange(ctx context.Context) (*domain.CategorySummary, error) {
	summary, err := s.articles.CategoriesAndPriceRange(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get category summary", err)
	}
	return summary, nil
}
