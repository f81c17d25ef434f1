package application

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/catalogmarket/internal/auth/domain"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errs.New(errs.Conflict, "email already registered")
	// ErrInvalidCredentials 未知邮箱和密码错误返回同一个错误，避免用户枚举
	ErrInvalidCredentials = errs.New(errs.Unauthorized, "invalid credentials")
)

const bcryptCost = 10

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type AuthService struct {
	repo      domain.UserRepository
	secret    []byte
	tokenTTL  time.Duration
	publisher domain.EventPublisher
	collector *metrics.Metrics
}

func NewAuthService(repo domain.UserRepository, secret string, tokenTTL time.Duration, publisher domain.EventPublisher, collector *metrics.Metrics) *AuthService {
	return &AuthService{
		repo:      repo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		publisher: publisher,
		collector: collector,
	}
}

// Register 注册新用户，密码只保存 bcrypt 哈希
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (uint, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return 0, errs.New(errs.Validation, "name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		return 0, errs.Wrap(errs.Store, "failed to hash password", err)
	}

	var user *domain.User
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByEmail(txCtx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}
		user = domain.NewUser(cmd.Name, cmd.Email, string(hash))
		return s.repo.Save(txCtx, user)
	})
	if err != nil {
		if err == ErrEmailTaken {
			return 0, err
		}
		return 0, errs.Wrap(errs.Store, "failed to register user", err)
	}

	if s.collector != nil {
		s.collector.UsersRegistered.Inc()
	}
	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.UserRegisteredEventType, user.Email, event); err != nil {
			logger.Warn(ctx, "Failed to publish user registered event", "user_id", user.ID, "error", err)
		}
	}

	logger.Info(ctx, "User registered", "user_id", user.ID)
	return user.ID, nil
}

// Login 校验凭据并签发有时效的 Bearer 令牌
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, errs.New(errs.Validation, "email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to get user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role == 0 {
		user.Role = domain.RoleRegular
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"iat":     time.Now().Unix(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errs.Wrap(errs.Store, "failed to sign token", err)
	}

	return &LoginResult{Token: signed, ExpiresAt: expiresAt.Unix(), User: user}, nil
}
