package consumer

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/namsos-athenaeum/athenaeum/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// OutcomeConsumer prints submission outcomes from the feed in the same line
// format as the submission logs.
type OutcomeConsumer struct {
	out io.Writer
	log *zap.Logger
	mu  sync.Mutex
}

func NewOutcomeConsumer(out io.Writer, log *zap.Logger) *OutcomeConsumer {
	return &OutcomeConsumer{out: out, log: log}
}

// Start handles messages until msgs is closed. The returned channel is closed
// once the consumer has stopped.
func (oc *OutcomeConsumer) Start(msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			oc.handleMessage(msg)
		}
		oc.log.Info("delivery channel closed, stopping consumer")
	}()
	return done
}

func (oc *OutcomeConsumer) handleMessage(msg amqp.Delivery) {
	var event models.OutcomeEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		oc.log.Warn("dropping malformed outcome event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	entry := &models.OutcomeEntry{
		Outcome:   event.Outcome,
		Timestamp: event.Timestamp,
		Message:   event.Message,
		Request: &models.BookingRequest{
			Name:      event.Name,
			Email:     event.Email,
			Phone:     event.Phone,
			Date:      event.Date,
			Resources: event.Resources,
			Purpose:   event.Purpose,
		},
	}

	oc.mu.Lock()
	_, err := fmt.Fprintf(oc.out, "[%s] %s", event.Outcome, entry.Line())
	oc.mu.Unlock()
	if err != nil {
		oc.log.Error("failed to print outcome", zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
