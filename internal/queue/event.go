// Package queue carries checklist submission notices over RabbitMQ.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kandebooths/packer-service/internal/model"
)

// SubmissionQueue is the durable queue submission notices are routed to.
const SubmissionQueue = "checklist.submitted"

// ChecklistSubmittedEvent is published when a checklist is submitted with
// email requested.  It carries the full notice so the consumer can compose
// the summary without reading the checklist store.
type ChecklistSubmittedEvent struct {
	Notice      model.SubmissionNotice `json:"notice"`
	PublishedAt time.Time              `json:"published_at"`
}

func encodeEvent(ev ChecklistSubmittedEvent) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(body []byte) (ChecklistSubmittedEvent, error) {
	var ev ChecklistSubmittedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Notice.EventID == "" {
		return ev, errors.New("missing event id")
	}
	if _, err := model.ParseKind(string(ev.Notice.Kind)); err != nil {
		return ev, err
	}
	return ev, nil
}
