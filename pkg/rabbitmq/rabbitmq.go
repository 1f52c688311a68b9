// Package rabbitmq carries outbound email requests between the API server
// and the mail-sending consumer, so a slow or failing relay never blocks a
// request handler.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"brutarie/internal/email"

	amqp "github.com/streadway/amqp"
)

const emailQueue = "email_queue"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the email queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		emailQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", emailQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", emailQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
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
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishEmailRequested enqueues an outbound email for the consumer to send.
func (c *Client) PublishEmailRequested(msg email.Message) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",         // default exchange
		emailQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	log.Printf(" [x] Queued email: %s", msg.Subject)
	return nil
}

// ConsumeEmailRequests drains the email queue, handing each decoded message
// to the mailer. Send failures nack the delivery for a retry; malformed
// payloads are dropped.
func (c *Client) ConsumeEmailRequests(mailer email.Mailer) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(emailQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack off, acknowledge after the send
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for email requests")

	go func() {
		for d := range msgs {
			var msg email.Message
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Dropping malformed email message %d: %v", d.DeliveryTag, err)
				if nackErr := d.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking message %d: %v", d.DeliveryTag, nackErr)
				}
				continue
			}
			if err := mailer.Send(msg); err != nil {
				log.Printf("Error sending email %q: %v", msg.Subject, err)
				if nackErr := d.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking message %d: %v", d.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", d.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
