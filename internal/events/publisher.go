package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Topics published by the service.
const (
	TopicUserRegistered    = "sentinel.user.registered"
	TopicUserResetCode     = "sentinel.user.reset_code"
	TopicUserPasswordReset = "sentinel.user.password_reset"
)

// UserRegistered is emitted after a successful sign-up.
type UserRegistered struct {
	UserID       uuid.UUID `json:"user_id"`
	EmailAddress string    `json:"email_address"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ResetCodeIssued is emitted when a recovery code has been generated for a
// user. The mailer consumes this topic and delivers the code.
type ResetCodeIssued struct {
	UserID       uuid.UUID `json:"user_id"`
	EmailAddress string    `json:"email_address"`
	Code         string    `json:"code"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserPasswordReset is emitted after a password has been reset through the
// recovery flow.
type UserPasswordReset struct {
	UserID  uuid.UUID `json:"user_id"`
	ResetAt time.Time `json:"reset_at"`
}

// Publisher delivers domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
	Close() error
}

// RedisPublisher publishes events onto Redis streams via watermill.
type RedisPublisher struct {
	publisher message.Publisher
	logger    *zap.Logger
}

// NewRedisPublisher creates a publisher on top of an existing Redis client.
func NewRedisPublisher(client redis.UniversalClient, logger *zap.Logger) (*RedisPublisher, error) {
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: client},
		watermill.NopLogger{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	return &RedisPublisher{publisher: publisher, logger: logger}, nil
}

// Publish serializes payload as JSON and emits it on topic. Delivery is
// best effort from the caller's point of view; business flows never fail
// on a publish error.
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("message_id", msg.UUID),
	)
	return nil
}

// Close shuts the underlying publisher down.
func (p *RedisPublisher) Close() error {
	return p.publisher.Close()
}

// NopPublisher discards every event. Used in tests and when eventing is
// disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
