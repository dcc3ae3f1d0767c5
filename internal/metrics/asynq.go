package metrics

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "tasks_processed_total",
			Help:      "任务处理总数。",
		},
		[]string{"task_type", "outcome"},
	)

	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "任务处理耗时（秒）。",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"task_type"},
	)

	taskInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "tasks_in_progress",
			Help:      "当前正在处理的任务数量。",
		},
		[]string{"task_type"},
	)
)

// TaskMiddleware 记录 Asynq 任务处理指标。
func TaskMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			taskType := task.Type()
			taskInProgress.WithLabelValues(taskType).Inc()
			defer taskInProgress.WithLabelValues(taskType).Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)
			taskDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())

			outcome := "sent"
			if err != nil {
				outcome = "failed"
			}
			taskProcessedTotal.WithLabelValues(taskType, outcome).Inc()
			return err
		})
	}
}
