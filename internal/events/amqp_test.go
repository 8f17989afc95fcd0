package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestNewAMQPPublisher(t *testing.T) {
	t.Run("declares topic exchange", func(t *testing.T) {
		ch := new(mockChannel)
		ch.On("ExchangeDeclare", "blog.events", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

		p, err := NewAMQPPublisher(ch, "blog.events")
		require.NoError(t, err)
		require.NotNil(t, p)
		ch.AssertExpectations(t)
	})

	t.Run("declare error", func(t *testing.T) {
		ch := new(mockChannel)
		ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(errors.New("closed"))

		p, err := NewAMQPPublisher(ch, "blog.events")
		require.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestAMQPPublisher_Publish(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var sent amqp.Publishing
	ch.On("Publish", "blog.events", PostCreated, false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) {
			sent = args.Get(4).(amqp.Publishing)
		}).Return(nil)

	p, err := NewAMQPPublisher(ch, "blog.events")
	require.NoError(t, err)
	p.now = func() time.Time { return fixed }

	err = p.Publish(context.Background(), PostCreated, PostPayload{ID: "p1", Title: "hello", AuthorID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)

	var msg struct {
		Type       string      `json:"type"`
		OccurredAt time.Time   `json:"occurred_at"`
		Payload    PostPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(sent.Body, &msg))
	assert.Equal(t, PostCreated, msg.Type)
	assert.True(t, fixed.Equal(msg.OccurredAt))
	assert.Equal(t, PostPayload{ID: "p1", Title: "hello", AuthorID: "u1"}, msg.Payload)
	ch.AssertExpectations(t)
}

func TestAMQPPublisher_PublishErrors(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(amqp.ErrClosed)

	p, err := NewAMQPPublisher(ch, "blog.events")
	require.NoError(t, err)

	err = p.Publish(context.Background(), UserRegistered, UserPayload{ID: "u1"})
	require.ErrorIs(t, err, amqp.ErrClosed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.Publish(ctx, UserRegistered, UserPayload{ID: "u1"})
	require.ErrorIs(t, err, context.Canceled)

	err = p.Publish(context.Background(), UserRegistered, make(chan int))
	require.Error(t, err)
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Close").Return(nil).Once()

	p, err := NewAMQPPublisher(ch, "blog.events")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), PostDeleted, nil))
	assert.NoError(t, p.Close())
}
