// Package notify dispatches contact-message notifications outside the request path.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/tasks"
)

// Notifier hands a persisted message off for notification. Implementations never
// block on delivery and never return delivery errors.
type Notifier interface {
	Notify(ctx context.Context, msg database.Message)
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, p tasks.ContactNotifyPayload) error
}

// Payload converts a stored message into a task payload.
func Payload(msg database.Message, correlationID string) tasks.ContactNotifyPayload {
	return tasks.ContactNotifyPayload{
		MessageID:     msg.ID,
		Name:          msg.Name,
		Email:         msg.Email,
		Phone:         msg.Phone,
		Subject:       msg.Subject,
		Message:       msg.Body,
		ReceivedAt:    msg.CreatedAt,
		CorrelationID: correlationID,
	}
}

type correlationKey struct{}

// WithCorrelationID tags ctx so dispatched notifications can be traced.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Discard is used when SMTP is not configured.
type Discard struct{}

func (Discard) Notify(context.Context, database.Message) {}

// Inline runs each delivery on its own goroutine with a private timeout.
type Inline struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewInline returns a goroutine-based notifier.
func NewInline(sender Sender, timeout time.Duration, logger *slog.Logger) *Inline {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inline{sender: sender, timeout: timeout, logger: logger}
}

func (n *Inline) Notify(ctx context.Context, msg database.Message) {
	payload := Payload(msg, correlationID(ctx))
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("notification panicked", slog.Any("panic", r), slog.String("message_id", payload.MessageID))
			}
		}()

		sendCtx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, payload); err != nil {
			n.logger.Error("email notification failed",
				slog.String("message_id", payload.MessageID),
				slog.String("correlation_id", payload.CorrelationID),
				slog.Any("error", err),
			)
			return
		}
		n.logger.Info("email notification sent", slog.String("message_id", payload.MessageID))
	}()
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (n *Inline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueuer is the subset of *asynq.Client used by Queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue hands notifications to the asynq worker.
type Queue struct {
	client Enqueuer
	logger *slog.Logger
}

// NewQueue returns a queue-backed notifier.
func NewQueue(client Enqueuer, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{client: client, logger: logger}
}

func (q *Queue) Notify(ctx context.Context, msg database.Message) {
	if err := q.enqueue(ctx, Payload(msg, correlationID(ctx))); err != nil {
		q.logger.Error("enqueue notification failed", slog.String("message_id", msg.ID), slog.Any("error", err))
	}
}

func (q *Queue) enqueue(ctx context.Context, p tasks.ContactNotifyPayload) error {
	task, err := tasks.NewContactNotifyTask(p)
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	// detach from the request so a client disconnect does not drop the hand-off
	enqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := q.client.EnqueueContext(enqCtx, task); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}
