package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB collection.
type MongoStore[T any, PT interface {
	*T
	Document
}] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongo returns a collection-backed store for T.
func NewMongo[T any, PT interface {
	*T
	Document
}](coll *mongo.Collection) *MongoStore[T, PT] {
	return &MongoStore[T, PT]{coll: coll, now: time.Now}
}

func filter(where map[string]any) bson.M {
	f := bson.M{}
	for k, v := range where {
		if k == "id" {
			k = "_id"
		}
		f[k] = v
	}
	return f
}

func sortSpec(sorts []Sort) bson.D {
	d := make(bson.D, 0, len(sorts))
	for _, o := range sorts {
		dir := 1
		if o.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: o.Field, Value: dir})
	}
	return d
}

func (s *MongoStore[T, PT]) Find(ctx context.Context, q Query) ([]T, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(sortSpec(q.Sort))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.coll.Find(ctx, filter(q.Where), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s *MongoStore[T, PT]) Count(ctx context.Context, where map[string]any) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filter(where))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}
	return n, nil
}

func (s *MongoStore[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	return s.FindOne(ctx, map[string]any{"_id": id})
}

func (s *MongoStore[T, PT]) FindOne(ctx context.Context, where map[string]any) (*T, error) {
	var doc T
	err := s.coll.FindOne(ctx, filter(where)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", s.coll.Name(), err)
	}
	return &doc, nil
}

func (s *MongoStore[T, PT]) Insert(ctx context.Context, doc *T) error {
	prepare(PT(doc), s.now())
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return nil
}

// Save replaces the whole document, inserting it when absent.
func (s *MongoStore[T, PT]) Save(ctx context.Context, doc *T) error {
	pt := PT(doc)
	prepare(pt, s.now())
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": pt.GetID()}, doc, opts); err != nil {
		return fmt.Errorf("save %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *MongoStore[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	return res.DeletedCount > 0, nil
}
