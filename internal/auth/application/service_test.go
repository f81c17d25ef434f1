package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/catalogmarket/internal/auth/domain"
	"github.com/wyfcoding/catalogmarket/internal/auth/infrastructure/persistence/mysql"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&mysql.UserModel{}))

	svc := NewAuthService(mysql.NewUserRepository(db), testSecret, 2*time.Hour, nil, nil)
	return svc, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterCommand{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotZero(t, userID)

	// 密码只存哈希
	var model mysql.UserModel
	require.NoError(t, db.First(&model, userID).Error)
	assert.NotEqual(t, "secret123", model.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(model.PasswordHash), []byte("secret123")))
	assert.Equal(t, domain.RoleRegular, model.Role)

	result, err := svc.Login(ctx, LoginCommand{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, userID, result.User.ID)
	assert.Equal(t, domain.RoleRegular, result.User.Role)
}

func TestLoginTokenClaims(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterCommand{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	before := time.Now()
	result, err := svc.Login(ctx, LoginCommand{Email: "grace@example.com", Password: "hunter22"})
	require.NoError(t, err)

	token, err := jwt.Parse(result.Token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(userID), claims["user_id"])
	assert.Equal(t, "grace@example.com", claims["email"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	wantExp := before.Add(2 * time.Hour).Unix()
	assert.InDelta(t, wantExp, int64(exp), 5)
	assert.Equal(t, int64(exp), result.ExpiresAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cmd := RegisterCommand{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
	_, err := svc.Register(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.Register(ctx, cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmailTaken))
	assert.Equal(t, 409, errs.HTTPStatus(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	// 未知邮箱和错误密码返回同一个错误
	_, err = svc.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Login(ctx, LoginCommand{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, 401, errs.HTTPStatus(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterCommand{Name: "", Email: "a@b.c", Password: "x"})
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = svc.Login(context.Background(), LoginCommand{Email: "", Password: ""})
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}
