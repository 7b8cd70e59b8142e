package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type funcJob struct {
	name string
	runs atomic.Int32
	fn   func(ctx context.Context) error
}

func (j *funcJob) Name() string { return j.name }

func (j *funcJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fn == nil {
		return nil
	}
	return j.fn(ctx)
}

func TestScheduler_RegisterValidation(t *testing.T) {
	s := New(Config{}, zaptest.NewLogger(t))

	require.NoError(t, s.Register("@hourly", &funcJob{name: "a"}))
	assert.ErrorIs(t, s.Register("@daily", &funcJob{name: "a"}), ErrJobAlreadyRegistered)
	assert.ErrorIs(t, s.Register("not a cron", &funcJob{name: "b"}), ErrInvalidConfig)

	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()
	assert.ErrorIs(t, s.Register("@hourly", &funcJob{name: "c"}), ErrSchedulerRunning)
}

func TestScheduler_RunNowRecordsStatus(t *testing.T) {
	s := New(Config{JobTimeout: time.Second}, zaptest.NewLogger(t))
	ok := &funcJob{name: "ok"}
	bad := &funcJob{name: "bad", fn: func(context.Context) error { return errors.New("boom") }}
	require.NoError(t, s.Register("0 * * * *", ok))
	require.NoError(t, s.Register("0 * * * *", bad))

	require.NoError(t, s.RunNow("ok"))
	require.EqualError(t, s.RunNow("bad"), "boom")
	assert.ErrorIs(t, s.RunNow("missing"), ErrJobNotFound)

	byName := map[string]JobRun{}
	for _, r := range s.Status() {
		byName[r.Name] = r
	}
	assert.Equal(t, JobStatusSuccess, byName["ok"].Status)
	assert.Equal(t, 1, byName["ok"].Runs)
	assert.Equal(t, JobStatusFailed, byName["bad"].Status)
	assert.Equal(t, "boom", byName["bad"].Error)
	assert.Equal(t, 1, byName["bad"].Failures)
	assert.NotNil(t, byName["bad"].CompletedAt)
}

func TestScheduler_JobTimeoutCancelsContext(t *testing.T) {
	s := New(Config{JobTimeout: 20 * time.Millisecond}, zaptest.NewLogger(t))
	job := &funcJob{name: "slow", fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	require.NoError(t, s.Register("@hourly", job))

	err := s.RunNow("slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	s := New(Config{}, zaptest.NewLogger(t))
	require.NoError(t, s.Register("@every 1h", &funcJob{name: "a"}))

	s.Start()
	s.Start()
	status := s.Status()
	require.Len(t, status, 1)
	assert.False(t, status[0].NextRunAt.IsZero())

	assert.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	s := New(Config{}, zaptest.NewLogger(t))
	job := &funcJob{name: "tick"}
	require.NoError(t, s.Register("@every 1s", job))

	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) SweepLapsed(ctx context.Context, grace time.Duration) (int, error) {
	args := m.Called(ctx, grace)
	return args.Int(0), args.Error(1)
}

func TestSubscriptionSweepJob_Run(t *testing.T) {
	sweeper := new(mockSweeper)
	sweeper.On("SweepLapsed", mock.Anything, time.Hour).Return(2, nil).Once()
	sweeper.On("SweepLapsed", mock.Anything, time.Hour).Return(0, errors.New("db down")).Once()

	job := NewSubscriptionSweepJob(sweeper, time.Hour, zaptest.NewLogger(t))
	assert.Equal(t, SubscriptionSweepJobName, job.Name())
	assert.NoError(t, job.Run(context.Background()))
	assert.EqualError(t, job.Run(context.Background()), "db down")
	sweeper.AssertExpectations(t)
}
