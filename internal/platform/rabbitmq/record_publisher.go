package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"ai-code-reviewer/internal/model"
)

// RecordPublisher enqueues completed review turns for the archive worker.
type RecordPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewRecordPublisher(conn *amqp.Connection, queueName string) *RecordPublisher {
	return &RecordPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *RecordPublisher) Publish(ctx context.Context, record model.ReviewRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish record failed: %w", err)
	}
	return nil
}
