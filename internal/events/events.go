// Package events публикует доменные события блога в RabbitMQ.
//
// Публикация не входит в транзакцию запроса: сервисы логируют ошибку
// публикации и продолжают работу.
package events

import (
	"context"
	"time"
)

// Ключи маршрутизации событий.
const (
	UserRegistered = "user.registered"
	PostCreated    = "post.created"
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
)

// Publisher публикует событие с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Message конверт, в котором событие уходит в брокер.
type Message struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// UserPayload данные события user.registered.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostPayload данные событий постов.
type PostPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id,omitempty"`
}

// Nop используется, когда брокер не настроен.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
