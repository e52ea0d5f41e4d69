package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

// Handler processes one submission notice.
type Handler func(ctx context.Context, n model.SubmissionNotice) error

const (
	maxBackoff     = 30 * time.Second
	handlerTimeout = 2 * time.Minute
)

// StartSubmissionConsumer consumes SubmissionQueue until ctx is cancelled,
// reconnecting with exponential backoff.  A message the handler rejects is
// nacked without requeue so a poison message cannot loop.
func StartSubmissionConsumer(ctx context.Context, url string, handle Handler) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("submission-consumer: dial failed", map[string]interface{}{
				"error": err.Error(), "retry_in": backoff.String(),
			})
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			break
		}
		logger.Warn("submission-consumer: consume loop ended, reconnecting", map[string]interface{}{"error": err.Error()})
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
	logger.Info("submission-consumer stopped", nil)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		logger.Warn("submission-consumer: set QoS failed", map[string]interface{}{"error": err.Error()})
	}
	if _, err := ch.QueueDeclare(SubmissionQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SubmissionQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	logger.Info("submission-consumer started", map[string]interface{}{"queue": SubmissionQueue})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(ctx, d.Body, handle); err != nil {
				logger.Error("submission-consumer: handle message failed", map[string]interface{}{"error": err.Error()})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(ctx context.Context, body []byte, handle Handler) error {
	ev, err := decodeEvent(body)
	if err != nil {
		return err
	}
	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()
	return handle(hctx, ev.Notice)
}
