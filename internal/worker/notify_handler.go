package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/MdFayaz7/portfolio1/internal/notify"
	"github.com/MdFayaz7/portfolio1/internal/tasks"
)

// NotifyTaskHandler 负责消费联系表单通知任务。
type NotifyTaskHandler struct {
	sender notify.Sender
	logger *slog.Logger
}

// NewNotifyTaskHandler 创建任务处理器。
func NewNotifyTaskHandler(sender notify.Sender, logger *slog.Logger) *NotifyTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyTaskHandler{sender: sender, logger: logger}
}

// ProcessTask 实现 asynq.Handler。发送失败不再重试：任务入队时已设置
// MaxRetry(0)，这里同时返回 SkipRetry。
func (h *NotifyTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseContactNotify(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("message_id", payload.MessageID),
	)

	if err := h.sender.Send(ctx, payload); err != nil {
		log.Error("email notification failed", slog.Any("error", err))
		return fmt.Errorf("send notification: %v: %w", err, asynq.SkipRetry)
	}

	log.Info("email notification sent")
	return nil
}
