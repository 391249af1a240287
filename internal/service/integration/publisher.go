package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	RoutingKeyAnnouncementCreated = "announcement.created"
	RoutingKeyAssignmentCreated   = "assignment.created"
	RoutingKeySubmissionReceived  = "submission.received"
	RoutingKeyAssignmentDeleted   = "assignment.deleted"
)

// EventPublisher отдаёт события жизненного цикла во внешний контур уведомлений.
type EventPublisher interface {
	PublishAnnouncementCreated(ctx context.Context, event *models.AnnouncementCreatedEvent) error
	PublishAssignmentCreated(ctx context.Context, event *models.AssignmentCreatedEvent) error
	PublishSubmissionReceived(ctx context.Context, event *models.SubmissionReceivedEvent) error
	PublishAssignmentDeleted(ctx context.Context, event *models.AssignmentDeletedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

func NewRabbitMQPublisher(url, exchange, queueName string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	routingKeys := []string{
		RoutingKeyAnnouncementCreated,
		RoutingKeyAssignmentCreated,
		RoutingKeySubmissionReceived,
		RoutingKeyAssignmentDeleted,
	}
	for _, key := range routingKeys {
		if err := channel.QueueBind(queue.Name, key, exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queue.Name).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishAnnouncementCreated(ctx context.Context, event *models.AnnouncementCreatedEvent) error {
	return p.publish(ctx, RoutingKeyAnnouncementCreated, event)
}

func (p *rabbitMQPublisher) PublishAssignmentCreated(ctx context.Context, event *models.AssignmentCreatedEvent) error {
	return p.publish(ctx, RoutingKeyAssignmentCreated, event)
}

func (p *rabbitMQPublisher) PublishSubmissionReceived(ctx context.Context, event *models.SubmissionReceivedEvent) error {
	return p.publish(ctx, RoutingKeySubmissionReceived, event)
}

func (p *rabbitMQPublisher) PublishAssignmentDeleted(ctx context.Context, event *models.AssignmentDeletedEvent) error {
	return p.publish(ctx, RoutingKeyAssignmentDeleted, event)
}

func (p *rabbitMQPublisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug().
		Str("routing_key", routingKey).
		Msg("Event published")

	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
