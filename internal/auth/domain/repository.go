package domain

import "context"

type UserRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, user *User) error
	// GetByEmail 按邮箱查找用户，不存在时返回 nil
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}
