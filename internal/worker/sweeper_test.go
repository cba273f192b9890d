package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
	at    atomic.Value
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) (*service.SweepResult, error) {
	f.calls.Add(1)
	f.at.Store(now)
	if f.err != nil {
		return &service.SweepResult{Failed: 1}, f.err
	}
	return &service.SweepResult{Users: 2, Pruned: service.PruneResult{Daily: 3}}, nil
}

func TestNewRetentionSweeper_RejectsBadSchedule(t *testing.T) {
	_, err := NewRetentionSweeper(&fakeSweeper{}, "every tuesday", nil)
	assert.Error(t, err)
}

func TestRunOnce_PassesClockAndRecordsStats(t *testing.T) {
	fake := &fakeSweeper{}
	s, err := NewRetentionSweeper(fake, "@daily", nil)
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 13, 3, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Users)
	assert.Equal(t, fixed, fake.at.Load())

	runs, lastErr := s.Stats()
	assert.Equal(t, 1, runs)
	assert.NoError(t, lastErr)
}

func TestRunOnce_ReturnsSweepError(t *testing.T) {
	boom := errors.New("store down")
	s, err := NewRetentionSweeper(&fakeSweeper{err: boom}, "@daily", nil)
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	_, lastErr := s.Stats()
	assert.ErrorIs(t, lastErr, boom)
}

func TestRun_SweepsOnScheduleUntilCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the cron clock")
	}
	fake := &fakeSweeper{}
	s, err := NewRetentionSweeper(fake, "@every 1s", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return fake.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
