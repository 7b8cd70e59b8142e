package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything persisted under its own UUID: users, contractors,
// projects, screens, line items and subscriptions.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity and audit timestamps every row shares.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch stamps UpdatedAt. It never moves the timestamp backwards, so two
// mutations inside the same clock tick still order after CreatedAt.
func (e *BaseEntity) Touch() {
	now := time.Now().UTC()
	if now.Before(e.UpdatedAt) {
		return
	}
	e.UpdatedAt = now
}

// NewBaseEntity allocates a fresh ID with both timestamps set to now (UTC).
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
