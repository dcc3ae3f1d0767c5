package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

// flakyHandle returns a handle whose ping fails until up is set.
func flakyHandle(db *gorm.DB, up *atomic.Bool, setups *atomic.Int32) *Handle {
	return &Handle{
		Stores:  NewGormStores(db),
		Backend: "sqlite",
		ping: func(context.Context) error {
			if !up.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
		setup: func(context.Context) error {
			setups.Add(1)
			return Migrate(db)
		},
	}
}

func TestWatchSchemaMigratesOnceDatabaseRecovers(t *testing.T) {
	db := openSQLite(t)
	var up atomic.Bool
	var setups atomic.Int32
	h := flakyHandle(db, &up, &setups)

	require.Error(t, h.EnsureSchema(context.Background()))
	assert.False(t, h.Ready())
	assert.False(t, db.Migrator().HasTable(&Education{}))
	assert.Zero(t, setups.Load())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- h.WatchSchema(ctx, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	time.Sleep(50 * time.Millisecond)
	up.Store(true)

	require.NoError(t, <-done)
	assert.True(t, h.Ready())
	assert.True(t, db.Migrator().HasTable(&Education{}))
	assert.True(t, db.Migrator().HasTable(&User{}))

	require.NoError(t, h.EnsureSchema(ctx))
	assert.EqualValues(t, 1, setups.Load())
}

func TestEnsureSchemaRetriesFailedSetup(t *testing.T) {
	var calls atomic.Int32
	h := &Handle{
		ping: func(context.Context) error { return nil },
		setup: func(context.Context) error {
			if calls.Add(1) == 1 {
				return errors.New("index build failed")
			}
			return nil
		},
	}

	require.Error(t, h.EnsureSchema(context.Background()))
	assert.False(t, h.Ready())

	require.NoError(t, h.EnsureSchema(context.Background()))
	assert.True(t, h.Ready())
	assert.EqualValues(t, 2, calls.Load())
}

func TestWatchSchemaStopsWithContext(t *testing.T) {
	var up atomic.Bool
	var setups atomic.Int32
	h := flakyHandle(openSQLite(t), &up, &setups)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := h.WatchSchema(ctx, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, h.Ready())
	assert.Zero(t, setups.Load())
}
