// Package store provides a small document-store abstraction over gorm and MongoDB.
//
// Field names used in Query.Where and Query.Sort are storage names (snake_case),
// which both backends share.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// Document is implemented by every persisted entity through an embedded Base.
type Document interface {
	GetID() string
	SetID(id string)
	Touch(now time.Time)
}

// Base holds the identifier and timestamps shared by all documents.
type Base struct {
	ID        string    `json:"_id" gorm:"primaryKey;size:64" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (b *Base) GetID() string   { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }

// Touch stamps UpdatedAt and, on first write, CreatedAt.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Sort orders results by a storage field.
type Sort struct {
	Field string
	Desc  bool
}

// Query describes an equality filter with ordering and paging.
type Query struct {
	Where  map[string]any
	Sort   []Sort
	Offset int
	Limit  int
}

// Store is the persistence contract used by the content services.
type Store[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, where map[string]any) (int64, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, where map[string]any) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Save(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id string) (bool, error)
}

// prepare assigns an id when missing and stamps timestamps.
func prepare(doc Document, now time.Time) {
	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
	}
	doc.Touch(now)
}
