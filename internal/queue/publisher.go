package queue

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

// Publisher pushes submission notices to SubmissionQueue, dialing once per
// publish.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// NotifySubmitted publishes the notice as a persistent message.  Errors are
// logged and returned.
func (p *Publisher) NotifySubmitted(ctx context.Context, n model.SubmissionNotice) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Error("rabbitmq: dial failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("rabbitmq: channel open failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(SubmissionQueue, true, false, false, false, nil); err != nil {
		logger.Error("rabbitmq: queue declare failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	now := time.Now().UTC()
	body, err := encodeEvent(ChecklistSubmittedEvent{Notice: n, PublishedAt: now})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", SubmissionQueue, false, false, pub); err != nil {
		logger.Error("rabbitmq: publish failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	logger.Debug("submission notice queued", map[string]interface{}{
		"event_id": n.EventID, "type": string(n.Kind),
	})
	return nil
}
