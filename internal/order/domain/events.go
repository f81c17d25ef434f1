package domain

import (
	"context"
	"time"
)

// OrderCreatedEventType 订单创建事件主题
const OrderCreatedEventType = "order.created"

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID   uint      `json:"order_id"`
	UserID    uint      `json:"user_id"`
	Total     float64   `json:"total"`
	LineCount int       `json:"line_count"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
