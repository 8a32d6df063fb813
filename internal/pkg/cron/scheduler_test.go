package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(discardLogger())
	var ok, failed int32

	s.AddJob("ok", time.Hour, func(context.Context) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})
	s.AddJob("failing", time.Hour, func(context.Context) error {
		atomic.AddInt32(&failed, 1)
		return errors.New("boom")
	})
	s.AddJob("ignored", 0, func(context.Context) error {
		t.Fatal("job with zero interval must not be registered")
		return nil
	})

	s.RunOnce(context.Background())

	assert.EqualValues(t, 1, ok)
	assert.EqualValues(t, 1, failed)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(discardLogger())
	var runs int32
	s.AddJob("tick", 5*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs))
}

func TestRegisterCacheSweep(t *testing.T) {
	c := cache.New(time.Nanosecond, nil)
	_, err := cache.GetOrLoad(context.Background(), c, "employees/list", func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	s := NewScheduler(discardLogger())
	RegisterCacheSweep(s, c, time.Minute)
	time.Sleep(time.Millisecond)
	s.RunOnce(context.Background())

	assert.Equal(t, 0, c.Len())
}
