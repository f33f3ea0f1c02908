package repository

import (
	"context"

	"storefront/internal/domain"
)

// LocationRepository defines the persistence operations for delivery states
// and locations.
type LocationRepository interface {
	CreateState(ctx context.Context, state *domain.State) error
	GetState(ctx context.Context, id int64) (*domain.State, error)

	// ListStates returns active states ordered by name.
	ListStates(ctx context.Context) ([]*domain.State, error)

	CreateLocation(ctx context.Context, location *domain.Location) error

	// GetActiveLocation returns the location only while it and its state
	// are active.
	GetActiveLocation(ctx context.Context, id int64) (*domain.Location, error)

	// ListActiveLocations returns active locations ordered by state and name.
	// A zero stateID lists every state.
	ListActiveLocations(ctx context.Context, stateID int64) ([]*domain.Location, error)
}
