package domain

import (
	"context"
	"time"
)

// UserRegisteredEventType 用户注册事件主题
const UserRegisteredEventType = "user.registered"

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
