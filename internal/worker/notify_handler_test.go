package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/MdFayaz7/portfolio1/internal/tasks"
)

type stubSender struct {
	got []tasks.ContactNotifyPayload
	err error
}

func (s *stubSender) Send(_ context.Context, p tasks.ContactNotifyPayload) error {
	s.got = append(s.got, p)
	return s.err
}

func TestNotifyTaskHandlerSendsOnce(t *testing.T) {
	sender := &stubSender{}
	h := NewNotifyTaskHandler(sender, nil)

	task, err := tasks.NewContactNotifyTask(tasks.ContactNotifyPayload{MessageID: "m1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(sender.got) != 1 || sender.got[0].MessageID != "m1" {
		t.Fatalf("unexpected deliveries %+v", sender.got)
	}
}

func TestNotifyTaskHandlerSkipsRetryOnFailure(t *testing.T) {
	h := NewNotifyTaskHandler(&stubSender{err: errors.New("relay down")}, nil)

	task, _ := tasks.NewContactNotifyTask(tasks.ContactNotifyPayload{MessageID: "m2"})
	err := h.ProcessTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry got %v", err)
	}
}

func TestNotifyTaskHandlerRejectsBadPayload(t *testing.T) {
	h := NewNotifyTaskHandler(&stubSender{}, nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeContactNotify, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry got %v", err)
	}
}
