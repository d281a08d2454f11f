package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after Stop")
}

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	s := NewScheduler()
	var second bool
	s.AddJob("fails", time.Hour, func(ctx context.Context) error { return errors.New("boom") })
	s.AddJob("works", time.Hour, func(ctx context.Context) error {
		second = true
		return nil
	})

	s.RunOnce(context.Background())

	assert.True(t, second)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { NewScheduler().Stop() })
}

type fakeSweeper struct {
	removed int
	err     error
	calls   int
}

func (f *fakeSweeper) Sweep(ctx context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

func TestIdempotencyJobs(t *testing.T) {
	sweeper := &fakeSweeper{removed: 3}
	jobs := NewIdempotencyJobs(sweeper, 0)
	s := NewScheduler()

	jobs.RegisterJobs(s)
	s.RunOnce(context.Background())

	assert.Equal(t, 1, sweeper.calls)
	require.Len(t, s.jobs, 1)
	assert.Equal(t, 10*time.Minute, s.jobs[0].Interval)

	sweeper.err = errors.New("down")
	assert.Error(t, jobs.SweepExpiredKeys(context.Background()))
}
