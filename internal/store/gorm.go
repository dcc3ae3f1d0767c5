package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a relational database through gorm.
type GormStore[T any, PT interface {
	*T
	Document
}] struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm returns a gorm-backed store for T.
func NewGorm[T any, PT interface {
	*T
	Document
}](db *gorm.DB) *GormStore[T, PT] {
	return &GormStore[T, PT]{db: db, now: time.Now}
}

func (s *GormStore[T, PT]) scoped(ctx context.Context, where map[string]any) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(new(T))
	if len(where) > 0 {
		tx = tx.Where(where)
	}
	return tx
}

func (s *GormStore[T, PT]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := s.scoped(ctx, q.Where)
	for _, o := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Field}, Desc: o.Desc})
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	out := make([]T, 0)
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return out, nil
}

func (s *GormStore[T, PT]) Count(ctx context.Context, where map[string]any) (int64, error) {
	var n int64
	if err := s.scoped(ctx, where).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *GormStore[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	return s.FindOne(ctx, map[string]any{"id": id})
}

func (s *GormStore[T, PT]) FindOne(ctx context.Context, where map[string]any) (*T, error) {
	var doc T
	err := s.scoped(ctx, where).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &doc, nil
}

func (s *GormStore[T, PT]) Insert(ctx context.Context, doc *T) error {
	prepare(PT(doc), s.now())
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func (s *GormStore[T, PT]) Save(ctx context.Context, doc *T) error {
	prepare(PT(doc), s.now())
	if err := s.db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (s *GormStore[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, fmt.Errorf("delete: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
