package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/langpoll/langpoll/logging"
)

// VoteCaster publishes accepted votes for downstream consumers.
type VoteCaster interface {
	CastVote(ctx context.Context, option string) error
}

// NoopCaster is used when event publishing is disabled.
type NoopCaster struct{}

func (NoopCaster) CastVote(context.Context, string) error { return nil }

// AmqpVoteCaster pushes every vote onto a RabbitMQ queue. The channel is not
// safe for concurrent publish, hence the mutex.
type AmqpVoteCaster struct {
	channel *amqp.Channel
	queue   string
	mu      sync.Mutex
}

func NewAmqpVoteCaster(ch *amqp.Channel, queue string) (*AmqpVoteCaster, error) {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &AmqpVoteCaster{channel: ch, queue: queue}, nil
}

func (c *AmqpVoteCaster) CastVote(ctx context.Context, option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.channel.PublishWithContext(ctx,
		"",
		c.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(option),
		},
	)
}

// ConnectAmqp dials RabbitMQ with a few retries, the broker is often still
// starting when we are.
func ConnectAmqp(url string) (*amqp.Connection, error) {
	var (
		connection *amqp.Connection
		err        error
	)
	for i := 0; i < 5; i++ {
		if connection, err = amqp.Dial(url); err == nil {
			logging.Log.Info("EVENTS: connected to RabbitMQ")
			return connection, nil
		}
		logging.Log.Warnf("EVENTS: failed to connect to RabbitMQ, retrying in 5 seconds")
		time.Sleep(5 * time.Second)
	}
	return nil, fmt.Errorf("could not connect to RabbitMQ after multiple retries: %w", err)
}
