// Package content implements the portfolio collections on top of the store layer.
//
// Public reads go through a short-lived read cache and, when the store fails,
// degrade to the fallback dataset. Admin writes flush the cache and never
// degrade.
package content

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/fallback"
	"github.com/MdFayaz7/portfolio1/internal/metrics"
	"github.com/MdFayaz7/portfolio1/internal/notify"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

// Options configures the services.
type Options struct {
	// Fallback is served on public read failures. Nil disables degradation.
	Fallback *fallback.Dataset
	// CacheTTL bounds how long public reads are cached. Zero disables caching.
	CacheTTL time.Duration
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Services groups one service per collection.
type Services struct {
	Profile   *ProfileService
	Education *EducationService
	Skills    *SkillService
	Projects  *ProjectService
	Messages  *MessageService
}

// New wires the services over stores.
func New(stores database.Stores, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	s := &shared{
		cache:    newReadCache(opts.CacheTTL),
		fallback: opts.Fallback,
		log:      opts.Logger,
		now:      time.Now,
	}
	return &Services{
		Profile:   &ProfileService{shared: s, store: stores.Profiles},
		Education: &EducationService{shared: s, store: stores.Education},
		Skills:    &SkillService{shared: s, store: stores.Skills},
		Projects:  &ProjectService{shared: s, store: stores.Projects},
		Messages:  &MessageService{shared: s, store: stores.Messages, notifier: opts.Notifier},
	}
}

type shared struct {
	cache    *readCache
	fallback *fallback.Dataset
	log      *slog.Logger
	now      func() time.Time
}

// degrade reports whether a failed public read may be answered from fallback data.
func (s *shared) degrade(resource string, err error) bool {
	if s.fallback == nil {
		return false
	}
	s.log.Warn("database unavailable, serving fallback data",
		slog.String("resource", resource),
		slog.Any("error", err),
	)
	metrics.FallbackServed(resource)
	return true
}

// readCache wraps go-cache; a nil inner cache disables it.
type readCache struct {
	c *cache.Cache
}

func newReadCache(ttl time.Duration) *readCache {
	if ttl <= 0 {
		return &readCache{}
	}
	return &readCache{c: cache.New(ttl, 2*ttl)}
}

func (r *readCache) get(key string) (any, bool) {
	if r.c == nil {
		return nil, false
	}
	return r.c.Get(key)
}

func (r *readCache) set(key string, v any) {
	if r.c != nil {
		r.c.SetDefault(key, v)
	}
}

func (r *readCache) flush() {
	if r.c != nil {
		r.c.Flush()
	}
}

// cachedList returns a copy of the cached list for key, loading it on a miss.
func cachedList[T any](ctx context.Context, s *shared, key string, st store.Store[T], q store.Query) ([]T, error) {
	if v, ok := s.cache.get(key); ok {
		if items, ok := v.([]T); ok {
			return slices.Clone(items), nil
		}
	}
	items, err := st.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, items)
	return slices.Clone(items), nil
}

// load fetches a document for an admin write, mapping absence to a 404.
func load[T any](ctx context.Context, st store.Store[T], id, notFound, failure string) (*T, error) {
	doc, err := st.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errcode.Missing(notFound)
	}
	if err != nil {
		return nil, errcode.Wrap(errcode.Internal, failure, err)
	}
	return doc, nil
}

// remove hard-deletes a document.
func remove[T any](ctx context.Context, s *shared, st store.Store[T], id, notFound, failure string) error {
	ok, err := st.Delete(ctx, id)
	if err != nil {
		return errcode.Wrap(errcode.Internal, failure, err)
	}
	if !ok {
		return errcode.Missing(notFound)
	}
	s.cache.flush()
	return nil
}
