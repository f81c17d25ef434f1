package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/catalogmarket/internal/cart/domain"
	cartmysql "github.com/wyfcoding/catalogmarket/internal/cart/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/catalogmarket/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/catalogmarket/internal/order/domain"
	ordermysql "github.com/wyfcoding/catalogmarket/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:order_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Article{},
		&cartdomain.Cart{},
		&cartdomain.CartLine{},
		&ordermysql.OrderModel{},
		&ordermysql.OrderLineModel{},
	))
	return db
}

func newService(db *gorm.DB) *OrderService {
	return NewOrderService(
		ordermysql.NewOrderRepository(db),
		cartmysql.NewCartRepository(db),
		catalogmysql.NewArticleRepository(db),
		nil,
		nil,
	)
}

func seedArticle(t *testing.T, db *gorm.DB, name string, price float64) *catalogdomain.Article {
	t.Helper()
	a := &catalogdomain.Article{Name: name, Price: price, Stock: 100}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int) *cartdomain.Cart {
	t.Helper()
	cart := &cartdomain.Cart{UserID: userID}
	require.NoError(t, db.Create(cart).Error)
	for articleID, qty := range lines {
		require.NoError(t, db.Create(&cartdomain.CartLine{
			CartID:    cart.ID,
			ArticleID: articleID,
			Quantity:  qty,
		}).Error)
	}
	return cart
}

func TestCheckoutComputesTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	keyboard := seedArticle(t, db, "keyboard", 10.00)
	mouse := seedArticle(t, db, "mouse", 5.50)
	seedCart(t, db, 1, map[uint]int{keyboard.ID: 2, mouse.ID: 1})

	result, err := svc.CreateOrder(ctx, 1)
	require.NoError(t, err)

	assert.InDelta(t, 25.50, result.Subtotal, 1e-9)
	assert.InDelta(t, 25.50*0.19, result.Tax, 1e-9)
	assert.InDelta(t, 25.50*0.10, result.Shipping, 1e-9)
	assert.InDelta(t, 25.50*1.29, result.Total, 1e-9)

	detail, err := svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, detail.Order.Status)
	assert.Equal(t, uint(1), detail.Order.UserID)
	require.Len(t, detail.Lines, 2)
}

func TestCheckoutWithoutCart(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	_, err := svc.CreateOrder(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCart))
	assert.Equal(t, errs.Domain, errs.KindOf(err))
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	seedCart(t, db, 1, nil)

	_, err := svc.CreateOrder(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestCheckoutClearsCartLinesButKeepsCart(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	article := seedArticle(t, db, "monitor", 150.00)
	cart := seedCart(t, db, 1, map[uint]int{article.ID: 1})

	_, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	var lineCount int64
	require.NoError(t, db.Model(&cartdomain.CartLine{}).Where("cart_id = ?", cart.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	var cartCount int64
	require.NoError(t, db.Model(&cartdomain.Cart{}).Count(&cartCount).Error)
	assert.Equal(t, int64(1), cartCount)

	// a second checkout against the now-empty cart is rejected
	_, err = svc.CreateOrder(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestCheckoutRollsBackWhenLineInsertFails(t *testing.T) {
	// 不建 order_lines 表，让订单行插入在事务中途失败
	dsn := fmt.Sprintf("file:order_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Article{},
		&cartdomain.Cart{},
		&cartdomain.CartLine{},
		&ordermysql.OrderModel{},
	))
	svc := newService(db)

	article := &catalogdomain.Article{Name: "gpu", Price: 600.00, Stock: 3}
	require.NoError(t, db.Create(article).Error)
	cart := seedCart(t, db, 1, map[uint]int{article.ID: 1})

	_, err = svc.CreateOrder(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, errs.Store, errs.KindOf(err))

	// 整个事务回滚：订单没有落库，购物车行原样保留
	var orderCount int64
	require.NoError(t, db.Model(&ordermysql.OrderModel{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var lines []cartdomain.CartLine
	require.NoError(t, db.Where("cart_id = ?", cart.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCheckoutSnapshotsUnitPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	article := seedArticle(t, db, "ssd", 80.00)
	seedCart(t, db, 1, map[uint]int{article.ID: 1})

	result, err := svc.CreateOrder(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(&catalogdomain.Article{}).
		Where("id = ?", article.ID).
		Update("price", 120.00).Error)

	detail, err := svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.InDelta(t, 80.00, detail.Lines[0].UnitPrice, 1e-9)
	assert.Equal(t, "ssd", detail.Lines[0].ArticleName)
}

func TestCheckoutUsesMostRecentCart(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	old := seedArticle(t, db, "old pick", 10.00)
	recent := seedArticle(t, db, "recent pick", 30.00)

	seedCart(t, db, 1, map[uint]int{old.ID: 1})
	seedCart(t, db, 1, map[uint]int{recent.ID: 1})

	result, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 30.00, result.Subtotal, 1e-9)
}

func TestGetOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	_, err := svc.GetOrder(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestListByUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	article := seedArticle(t, db, "ram", 45.00)

	seedCart(t, db, 1, map[uint]int{article.ID: 1})
	first, err := svc.CreateOrder(ctx, 1)
	require.NoError(t, err)

	seedCart(t, db, 1, map[uint]int{article.ID: 2})
	second, err := svc.CreateOrder(ctx, 1)
	require.NoError(t, err)

	orders, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	ids := []uint{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, first.OrderID)
	assert.Contains(t, ids, second.OrderID)

	// 其他用户看不到
	others, err := svc.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, others)
}
