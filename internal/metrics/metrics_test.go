package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/skills", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `portfolio_http_requests_total{method="GET",path="/api/skills",status="200"}`) {
		t.Fatalf("request counter missing from exposition")
	}
}

func TestFallbackServedCounts(t *testing.T) {
	before := testutil.ToFloat64(fallbackServed.WithLabelValues("projects"))
	FallbackServed("projects")
	if got := testutil.ToFloat64(fallbackServed.WithLabelValues("projects")); got != before+1 {
		t.Fatalf("expected %v got %v", before+1, got)
	}
}

func TestTaskMiddlewareOutcome(t *testing.T) {
	failing := TaskMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return errors.New("boom")
	}))
	before := testutil.ToFloat64(taskProcessedTotal.WithLabelValues("t:test", "failed"))
	_ = failing.ProcessTask(context.Background(), asynq.NewTask("t:test", nil))
	if got := testutil.ToFloat64(taskProcessedTotal.WithLabelValues("t:test", "failed")); got != before+1 {
		t.Fatalf("expected failure to be counted")
	}
}
