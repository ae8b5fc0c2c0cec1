package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lunchlog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	err      error
	runs     atomic.Int32
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Schedule() Schedule { return j.schedule }

func (j *countingJob) Execute(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestSchedule_String(t *testing.T) {
	assert.Equal(t, "hourly", Hourly.String())
	assert.Equal(t, "daily", Daily.String())
	assert.Equal(t, "every_two_days", EveryTwoDays.String())
	assert.Equal(t, "Schedule(99)", Schedule(99).String())
}

func TestSchedulerService_AddJobAndStart(t *testing.T) {
	scheduler := NewSchedulerService()
	ctx := context.Background()

	require.NoError(t, scheduler.AddJob(&countingJob{name: "sweep", schedule: EveryTwoDays}))
	require.NoError(t, scheduler.AddJob(&countingJob{name: "digest", schedule: Daily}))
	assert.Error(t, scheduler.AddJob(&countingJob{name: "sweep", schedule: Hourly}))
	assert.Error(t, scheduler.AddJob(&countingJob{name: "bad", schedule: Schedule(99)}))

	assert.Empty(t, scheduler.NextRuns())

	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())

	runs := scheduler.NextRuns()
	require.Len(t, runs, 2)
	assert.True(t, runs["sweep"].After(time.Now()))
	assert.Contains(t, runs, "digest")

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.Empty(t, scheduler.NextRuns())
}

func TestSchedulerService_RunRecordsOutcome(t *testing.T) {
	scheduler := NewSchedulerService()
	ok := &countingJob{name: "run-ok", schedule: EveryTwoDays}
	failing := &countingJob{name: "run-fail", schedule: Hourly, err: errors.New("boom")}

	okBefore := testutil.ToFloat64(metrics.ScheduledJobRuns.WithLabelValues("run-ok", metrics.StatusSuccess))
	failBefore := testutil.ToFloat64(metrics.ScheduledJobRuns.WithLabelValues("run-fail", metrics.StatusError))

	scheduler.run(context.Background(), ok, "test")
	scheduler.run(context.Background(), failing, "test")

	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(1), failing.runs.Load())
	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.ScheduledJobRuns.WithLabelValues("run-ok", metrics.StatusSuccess)))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(metrics.ScheduledJobRuns.WithLabelValues("run-fail", metrics.StatusError)))
}
