package mq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"solven/config"
	"solven/internal/logger"
)

const (
	ExchangeEvents = "files.events"

	RoutingFileUploaded  = "file.uploaded"
	RoutingFileDeleted   = "file.deleted"
	RoutingFilePruned    = "file.pruned"
	RoutingFolderDeleted = "folder.deleted"
)

// Event is a file lifecycle notification for external collaborators,
// e.g. the retention sweeper that enforces expires_at.
type Event struct {
	FileID    string    `json:"file_id,omitempty"`
	FolderID  string    `json:"folder_id,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	ObjectKey string    `json:"object_key,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	At        time.Time `json:"at"`
}

type Client struct {
	Conn      *amqp.Connection
	Channel   *amqp.Channel
	publishMu sync.Mutex
}

var publisherMu sync.Mutex
var publisher *Client
var enabled bool

// InitPublisher enables event emission and eagerly connects. A broker
// that is down at startup is tolerated; Emit keeps retrying lazily.
func InitPublisher() {
	publisherMu.Lock()
	enabled = true
	publisherMu.Unlock()
	if _, err := GetPublisher(); err != nil {
		logger.L().Warn("rabbitmq unavailable at startup", zap.Error(err))
	}
}

// Enabled reports whether event emission was turned on.
func Enabled() bool {
	publisherMu.Lock()
	defer publisherMu.Unlock()
	return enabled
}

func Dial() (*Client, error) {
	conn, err := amqp.Dial(config.AppConfig.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Client{Conn: conn, Channel: ch}, nil
}

func GetPublisher() (*Client, error) {
	publisherMu.Lock()
	defer publisherMu.Unlock()
	if publisher != nil {
		if !publisher.Conn.IsClosed() && !publisher.Channel.IsClosed() {
			return publisher, nil
		}
		publisher.Close()
		publisher = nil
	}
	client, err := Dial()
	if err != nil {
		return nil, err
	}
	if err := client.DeclareTopology(); err != nil {
		client.Close()
		return nil, err
	}
	publisher = client
	return publisher, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

// DeclareTopology declares the events exchange.
func (c *Client) DeclareTopology() error {
	return c.Channel.ExchangeDeclare(
		ExchangeEvents,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Publish sends one event to the events exchange.
func (c *Client) Publish(ctx context.Context, routingKey string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	return c.Channel.PublishWithContext(ctx, ExchangeEvents, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Emit publishes a lifecycle event best-effort. Failures are logged
// and never alter the outcome of the operation that emitted them.
func Emit(ctx context.Context, routingKey string, event Event) {
	if !Enabled() {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	client, err := GetPublisher()
	if err != nil {
		logger.L().Warn("event publisher unavailable",
			zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	if err := client.Publish(ctx, routingKey, event); err != nil {
		logger.L().Warn("event publish failed",
			zap.String("routing_key", routingKey), zap.Error(err))
	}
}
