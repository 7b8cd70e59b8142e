package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.Equal(t, time.UTC, e.GetCreatedAt().Location())
	assert.Equal(t, e.GetCreatedAt(), e.GetUpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	t.Run("advances updated at", func(t *testing.T) {
		e := NewBaseEntity()
		e.UpdatedAt = e.UpdatedAt.Add(-time.Hour)
		created := e.CreatedAt

		e.Touch()

		assert.False(t, e.UpdatedAt.Before(created))
		assert.Equal(t, created, e.CreatedAt)
	})

	t.Run("never moves backwards", func(t *testing.T) {
		e := NewBaseEntity()
		future := time.Now().UTC().Add(time.Hour)
		e.UpdatedAt = future

		e.Touch()

		assert.Equal(t, future, e.UpdatedAt)
	})
}

func TestBaseAggregateRoot_TouchThroughEmbedding(t *testing.T) {
	a := NewBaseAggregateRoot()
	a.UpdatedAt = time.Time{}

	a.Touch()

	assert.False(t, a.GetUpdatedAt().IsZero())
	assert.Equal(t, 1, a.GetVersion())
}
