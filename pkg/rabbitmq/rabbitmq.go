package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"visualcaption/internal/models"
	"visualcaption/pkg/metrics"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// HistoryQueue carries upload.recorded events to the history consumer.
const HistoryQueue = "caption_history"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // serializes publishes on the shared channel
	logger  *logrus.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the history queue.
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareHistoryQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.WithField("queue", HistoryQueue).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareHistoryQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		HistoryQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", HistoryQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishUploadRecorded publishes a persistent JSON upload event to the history queue.
func (c *Client) PublishUploadRecorded(event models.UploadEvent) (err error) {
	defer func() { metrics.RecordQueueMessage(HistoryQueue, "publish", err) }()

	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal upload event: %w", err)
	}

	c.mu.Lock()
	err = c.channel.Publish(
		"",           // default exchange
		HistoryQueue, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         "upload.recorded",
			MessageId:    event.UploadID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish upload event: %w", err)
	}

	c.logger.WithField("upload_id", event.UploadID).Debug("upload event published")
	return nil
}

// ConsumeUploadEvents delivers history queue messages to handle on a background
// goroutine. Messages are acked on success. Failed messages are nacked without
// requeue so a malformed body cannot loop forever.
func (c *Client) ConsumeUploadEvents(handle func(body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		HistoryQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.WithField("queue", HistoryQueue).Info("waiting for upload events")

	go func() {
		for msg := range msgs {
			err := handle(msg.Body)
			metrics.RecordQueueMessage(HistoryQueue, "consume", err)
			if err != nil {
				c.logger.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("failed to process upload event")
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.logger.WithError(nackErr).Error("failed to nack message")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.WithError(ackErr).Error("failed to ack message")
			}
		}
		c.logger.Info("upload event consumer stopped")
	}()

	return nil
}
