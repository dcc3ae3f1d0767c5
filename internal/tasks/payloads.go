package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task types shared by the queue producer and consumer.
const (
	TypeContactNotify = "contact:notify"
)

// ContactNotifyPayload carries everything the mailer needs, so the worker never
// reads the database.
type ContactNotifyPayload struct {
	MessageID     string    `json:"message_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Message       string    `json:"message"`
	ReceivedAt    time.Time `json:"received_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// NewContactNotifyTask builds a notification task. MaxRetry(0) keeps delivery at
// most once.
func NewContactNotifyTask(p ContactNotifyPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeContactNotify, payload, asynq.MaxRetry(0)), nil
}

// ParseContactNotify decodes a task payload.
func ParseContactNotify(t *asynq.Task) (ContactNotifyPayload, error) {
	var p ContactNotifyPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
