package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/internal/catalog/infrastructure/persistence/mysql"
	ordermysql "github.com/wyfcoding/catalogmarket/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Article{},
		&domain.Characteristic{},
		&domain.ArticleCharacteristic{},
		&domain.ArticleImage{},
		&ordermysql.OrderLineModel{},
	))
	return db
}

func newArticleService(db *gorm.DB) *ArticleService {
	return NewArticleService(
		mysql.NewArticleRepository(db),
		mysql.NewCharacteristicRepository(db),
		mysql.NewImageRepository(db),
	)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	cases := []CreateArticleCommand{
		{Name: "", Price: 10, Stock: 1},
		{Name: "x", Price: 0, Stock: 1},
		{Name: "x", Price: -1, Stock: 1},
		{Name: "x", Price: 10, Stock: -1},
	}
	for _, cmd := range cases {
		_, err := svc.Create(ctx, cmd)
		require.Error(t, err)
		assert.Equal(t, errs.Validation, errs.KindOf(err))
	}
}

func TestSearchCombinesFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	seed := []CreateArticleCommand{
		{Name: "Mechanical Keyboard", Description: "clicky switches", Price: 120, Stock: 5, Category: "peripherals"},
		{Name: "Office Mouse", Description: "silent keyboard companion", Price: 25, Stock: 10, Category: "peripherals"},
		{Name: "Desk Lamp", Description: "warm light", Price: 40, Stock: 3, Category: "lighting"},
	}
	for _, cmd := range seed {
		_, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
	}

	// name 匹配名称或描述，大小写不敏感
	got, err := svc.Search(ctx, domain.SearchFilter{Name: "KEYBOARD"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, domain.SearchFilter{Category: "lighting"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Desk Lamp", got[0].Name)

	// 价格边界为闭区间
	min, max := 25.0, 40.0
	got, err = svc.Search(ctx, domain.SearchFilter{PriceMin: &min, PriceMax: &max})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// 名称和类目两篇都满足，价格下界也不排除任何一篇
	got, err = svc.Search(ctx, domain.SearchFilter{Name: "keyboard", Category: "peripherals", PriceMin: &min})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// 加上价格上界后只剩 Office Mouse
	got, err = svc.Search(ctx, domain.SearchFilter{Name: "keyboard", Category: "peripherals", PriceMax: &max})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Office Mouse", got[0].Name)

	// 无条件返回全部
	got, err = svc.Search(ctx, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCreateFullSkipsIncompleteNestedEntries(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	color := &domain.Characteristic{Name: "color"}
	require.NoError(t, db.Create(color).Error)

	article, err := svc.CreateFull(ctx,
		CreateArticleCommand{Name: "chair", Price: 75, Stock: 4},
		[]NestedCharacteristic{
			{CharacteristicID: color.ID, Value: "black"},
			{CharacteristicID: 0, Value: "ignored"},
			{CharacteristicID: color.ID, Value: ""},
		},
		[]NestedImage{
			{Data: "base64-payload", SortOrder: 1},
			{Data: ""},
		},
	)
	require.NoError(t, err)

	var acCount, imgCount int64
	require.NoError(t, db.Model(&domain.ArticleCharacteristic{}).Where("article_id = ?", article.ID).Count(&acCount).Error)
	require.NoError(t, db.Model(&domain.ArticleImage{}).Where("article_id = ?", article.ID).Count(&imgCount).Error)
	assert.Equal(t, int64(1), acCount)
	assert.Equal(t, int64(1), imgCount)
}

func TestCreateFullRollsBackOnNestedFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	size := &domain.Characteristic{Name: "size"}
	require.NoError(t, db.Create(size).Error)

	// 第二条重复的 (article, characteristic) 违反主键，整个事务必须回滚
	_, err := svc.CreateFull(ctx,
		CreateArticleCommand{Name: "table", Price: 200, Stock: 2},
		[]NestedCharacteristic{
			{CharacteristicID: size.ID, Value: "large"},
			{CharacteristicID: size.ID, Value: "small"},
		},
		nil,
	)
	require.Error(t, err)

	var articleCount, acCount int64
	require.NoError(t, db.Model(&domain.Article{}).Count(&articleCount).Error)
	require.NoError(t, db.Model(&domain.ArticleCharacteristic{}).Count(&acCount).Error)
	assert.Zero(t, articleCount)
	assert.Zero(t, acCount)
}

func TestUpdateAndDeleteMissingArticle(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	err := svc.Update(ctx, 999, CreateArticleCommand{Name: "x", Price: 1, Stock: 0})
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	err = svc.Delete(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestDeletedArticleDisappearsFromReads(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	article, err := svc.Create(ctx, CreateArticleCommand{Name: "shelf", Price: 60, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, article.ID))

	_, err = svc.Get(ctx, article.ID)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	rows, err := svc.TopSold(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTopSoldOrdersBySalesWithFirstImage(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	a1, err := svc.Create(ctx, CreateArticleCommand{Name: "bestseller", Price: 10, Stock: 50})
	require.NoError(t, err)
	a2, err := svc.Create(ctx, CreateArticleCommand{Name: "runner-up", Price: 20, Stock: 50})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateArticleCommand{Name: "shelf warmer", Price: 30, Stock: 50})
	require.NoError(t, err)

	require.NoError(t, db.Create(&ordermysql.OrderLineModel{OrderID: 1, ArticleID: a1.ID, Quantity: 5, UnitPrice: 10}).Error)
	require.NoError(t, db.Create(&ordermysql.OrderLineModel{OrderID: 2, ArticleID: a1.ID, Quantity: 2, UnitPrice: 10}).Error)
	require.NoError(t, db.Create(&ordermysql.OrderLineModel{OrderID: 1, ArticleID: a2.ID, Quantity: 3, UnitPrice: 20}).Error)

	require.NoError(t, db.Create(&domain.ArticleImage{ArticleID: a1.ID, Data: "second", SortOrder: 2}).Error)
	require.NoError(t, db.Create(&domain.ArticleImage{ArticleID: a1.ID, Data: "first", SortOrder: 1}).Error)

	rows, err := svc.TopSold(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, a1.ID, rows[0].ArticleID)
	assert.Equal(t, int64(7), rows[0].TotalSold)
	assert.Equal(t, "first", rows[0].Image)

	assert.Equal(t, a2.ID, rows[1].ArticleID)
	assert.Equal(t, int64(3), rows[1].TotalSold)
	assert.Empty(t, rows[1].Image)
}

func TestTopSoldSkipsDeletedImages(t *testing.T) {
	db := newTestDB(t)
	articleSvc := newArticleService(db)
	imageSvc := NewImageService(mysql.NewImageRepository(db))
	ctx := context.Background()

	article, err := articleSvc.Create(ctx, CreateArticleCommand{Name: "camera", Price: 300, Stock: 5})
	require.NoError(t, err)

	first, err := imageSvc.Create(ctx, CreateImageCommand{ArticleID: article.ID, Data: "first", SortOrder: 1})
	require.NoError(t, err)
	_, err = imageSvc.Create(ctx, CreateImageCommand{ArticleID: article.ID, Data: "second", SortOrder: 2})
	require.NoError(t, err)

	require.NoError(t, imageSvc.Delete(ctx, first.ID))

	rows, err := articleSvc.TopSold(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Image)
}

func TestTopSoldDefaultLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateArticleCommand{Name: fmt.Sprintf("item-%d", i), Price: 10, Stock: 1})
		require.NoError(t, err)
	}

	rows, err := svc.TopSold(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestCategoriesAndPriceRange(t *testing.T) {
	db := newTestDB(t)
	svc := newArticleService(db)
	ctx := context.Background()

	// 空表返回零值
	summary, err := svc.CategoriesAndPriceRange(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Categories)
	assert.Zero(t, summary.MinPrice)
	assert.Zero(t, summary.MaxPrice)

	seed := []CreateArticleCommand{
		{Name: "a", Price: 15, Stock: 1, Category: "tools"},
		{Name: "b", Price: 99, Stock: 1, Category: "tools"},
		{Name: "c", Price: 5, Stock: 1, Category: "office"},
		{Name: "d", Price: 50, Stock: 1},
	}
	for _, cmd := range seed {
		_, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
	}

	summary, err = svc.CategoriesAndPriceRange(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tools", "office"}, summary.Categories)
	assert.InDelta(t, 5, summary.MinPrice, 1e-9)
	assert.InDelta(t, 99, summary.MaxPrice, 1e-9)
}
