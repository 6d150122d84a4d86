package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCompleter struct {
	n   int64
	err error
}

func (f fakeCompleter) CompleteStale(context.Context) (int64, error) { return f.n, f.err }

func TestEventSweeperLogsCompletedCount(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	err := EventSweeper(fakeCompleter{n: 3}, zap.New(core))(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["count"])
}

func TestEventSweeperQuietWhenNothingChanged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	require.NoError(t, EventSweeper(fakeCompleter{}, zap.New(core))(context.Background()))
	assert.Equal(t, 0, logs.Len())
}

func TestEventSweeperPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	err := EventSweeper(fakeCompleter{err: boom}, zap.NewNop())(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	assert.Error(t, s.Add("broken", "not a cron spec", func(context.Context) error { return nil }))
	assert.NoError(t, s.Add("hourly", "@every 1h", func(context.Context) error { return nil }))

	s.Start()
	s.Stop(context.Background())
}
