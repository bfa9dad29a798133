package event

import (
	"context"
	"time"

	"github.com/utafrali/AuthGo/internal/domain"
	"github.com/utafrali/AuthGo/pkg/kafka"
	"github.com/utafrali/AuthGo/pkg/logger"
)

// Kafka topics for user lifecycle events.
const (
	TopicUserRegistered      = "authgo.user.registered"
	TopicUserUpdated         = "authgo.user.updated"
	TopicUserPasswordChanged = "authgo.user.password_changed"
	TopicUserDeleted         = "authgo.user.deleted"
)

const (
	aggregateTypeUser = "user"
	source            = "authgo"
)

// Publisher is the transport the producer publishes through. The Kafka
// producer in pkg/kafka satisfies it; tests inject a stub.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes user lifecycle events. Publishing is best-effort: the
// service logs failures and carries on, so an unavailable broker never fails
// a request.
type Producer struct {
	publisher Publisher
}

// NewProducer creates a new lifecycle event producer.
func NewProducer(publisher Publisher) *Producer {
	return &Producer{publisher: publisher}
}

// UserPayload is the event body carried by registered and updated events.
// It deliberately excludes the password hash.
type UserPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserIDPayload is the event body for events that only reference a user.
type UserIDPayload struct {
	ID string `json:"id"`
}

func userPayload(u *domain.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, "user.registered", u.ID, userPayload(u))
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserUpdated, "user.updated", u.ID, userPayload(u))
}

// PublishUserPasswordChanged publishes a user.password_changed event. The
// body carries only the user ID.
func (p *Producer) PublishUserPasswordChanged(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicUserPasswordChanged, "user.password_changed", userID, UserIDPayload{ID: userID})
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicUserDeleted, "user.deleted", userID, UserIDPayload{ID: userID})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID string, payload any) error {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateTypeUser, source, payload)
	if err != nil {
		return err
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.publisher.Publish(ctx, topic, evt)
}
