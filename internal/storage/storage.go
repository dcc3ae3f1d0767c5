// Package storage persists uploaded files on local disk or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotExist is returned by Open when the object is missing.
var ErrNotExist = errors.New("object does not exist")

// Object is an open stored file.
type Object struct {
	io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// ObjectStore is a flat namespace of uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
}

const maxNameLength = 200

// ValidName reports whether name is a single flat object name.
func ValidName(name string) bool {
	if name == "" || !utf8.ValidString(name) || len(name) > maxNameLength {
		return false
	}
	if name == "." || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return true
}

// NameFromPath extracts the object name from a stored public path such as
// "/uploads/x.pdf" or "uploads/x.pdf".
func NameFromPath(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "/")
	return strings.TrimPrefix(p, "uploads/")
}
