package contractor

import (
	"context"

	"github.com/google/uuid"
)

// ContractorRepository persists contractor profiles
type ContractorRepository interface {
	// FindByOwner returns the profile of a user or shared.ErrNotFound
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Contractor, error)
	// Create inserts a profile; a second profile for the same owner yields shared.ErrAlreadyExists
	Create(ctx context.Context, c *Contractor) error
	Save(ctx context.Context, c *Contractor) error
}
