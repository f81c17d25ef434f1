package messaging

import (
	"context"

	"github.com/wyfcoding/catalogmarket/internal/auth/domain"
	"github.com/wyfcoding/catalogmarket/pkg/mq"
)

type kafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 基于 Kafka producer 创建认证事件发布者
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
