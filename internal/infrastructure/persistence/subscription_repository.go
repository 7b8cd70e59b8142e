package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByOwner returns the subscription of a user
func (r *GormSubscriptionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*billing.Subscription, error) {
	return r.findOne(ctx, "owner_id = ?", ownerID)
}

// FindByCustomerID returns the subscription linked to a Stripe customer
func (r *GormSubscriptionRepository) FindByCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	if customerID == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "stripe_customer_id = ?", customerID)
}

// FindBySubscriptionID returns the subscription linked to a Stripe subscription
func (r *GormSubscriptionRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	if subscriptionID == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "stripe_subscription_id = ?", subscriptionID)
}

func (r *GormSubscriptionRepository) findOne(ctx context.Context, where string, arg any) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Where(where, arg).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindPendingCancellation returns subscriptions flagged to cancel whose period has ended
func (r *GormSubscriptionRepository) FindPendingCancellation(ctx context.Context, periodEndBefore time.Time) ([]billing.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("cancel_at_period_end = ? AND current_period_end IS NOT NULL AND current_period_end < ?", true, periodEndBefore.UTC()).
		Where("status <> ?", string(billing.StatusCanceled)).
		Order("current_period_end ASC").
		Find(&subModels).Error; err != nil {
		return nil, err
	}
	subs := make([]billing.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = *subModels[i].ToDomain()
	}
	return subs, nil
}

// Save upserts the owner's subscription row
func (r *GormSubscriptionRepository) Save(ctx context.Context, s *billing.Subscription) error {
	model := models.SubscriptionModelFromDomain(s)
	return translateError(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id", "stripe_subscription_id", "status", "plan", "price_id",
			"current_period_end", "cancel_at_period_end", "canceled_at", "version", "updated_at",
		}),
	}).Create(model).Error)
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
