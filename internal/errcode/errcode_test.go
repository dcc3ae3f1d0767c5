package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	base := Missing("Project not found")
	wrapped := fmt.Errorf("get project: %w", base)

	if got := KindOf(wrapped); got != NotFound {
		t.Fatalf("expected NotFound got %v", got)
	}
	if got := KindOf(errors.New("boom")); got != Internal {
		t.Fatalf("expected Internal for plain errors got %v", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:     http.StatusBadRequest,
		Upload:         http.StatusBadRequest,
		Authentication: http.StatusUnauthorized,
		Authorization:  http.StatusForbidden,
		NotFound:       http.StatusNotFound,
		Conflict:       http.StatusConflict,
		RateLimited:    http.StatusTooManyRequests,
		Internal:       http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("kind %d: expected %d got %d", kind, want, got)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Internal, "Server error", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Error() != "Server error: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
