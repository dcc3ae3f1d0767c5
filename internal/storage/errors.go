package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// objectError maps a MinIO failure on the named object onto ErrNotExist when
// the key is missing and wraps it otherwise. A missing bucket is a deployment
// fault and is never reported as a missing file.
func objectError(op, name string, err error) error {
	if isMissingKey(err) {
		return ErrNotExist
	}
	return fmt.Errorf("%s object %q: %w", op, name, err)
}

func isMissingKey(err error) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(resp.Code)) {
	case "nosuchkey", "notfound":
		return true
	}
	return false
}
