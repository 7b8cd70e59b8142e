package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SubscriptionSweepJobName names the lapsed subscription sweep
const SubscriptionSweepJobName = "subscription_sweep"

// SubscriptionSweeper cancels subscriptions whose paid period ended more
// than grace ago without renewal. It returns how many were canceled.
type SubscriptionSweeper interface {
	SweepLapsed(ctx context.Context, grace time.Duration) (int, error)
}

// SubscriptionSweepJob periodically reconciles subscriptions Stripe never
// sent a final webhook for
type SubscriptionSweepJob struct {
	sweeper SubscriptionSweeper
	grace   time.Duration
	logger  *zap.Logger
}

// NewSubscriptionSweepJob creates the sweep job
func NewSubscriptionSweepJob(sweeper SubscriptionSweeper, grace time.Duration, logger *zap.Logger) *SubscriptionSweepJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionSweepJob{sweeper: sweeper, grace: grace, logger: logger}
}

// Name implements Job
func (j *SubscriptionSweepJob) Name() string {
	return SubscriptionSweepJobName
}

// Run implements Job
func (j *SubscriptionSweepJob) Run(ctx context.Context) error {
	canceled, err := j.sweeper.SweepLapsed(ctx, j.grace)
	if err != nil {
		return err
	}
	if canceled > 0 {
		j.logger.Info("Lapsed subscriptions canceled", zap.Int("count", canceled))
	}
	return nil
}
