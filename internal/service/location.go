package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/redis"
	"storefront/internal/repository"
)

// LocationService serves the delivery states and locations buyers pick from
// at checkout.
type LocationService struct {
	locationRepo repository.LocationRepository
	cache        redis.LocationCacheInterface
	logger       *slog.Logger
}

// NewLocationService creates a new LocationService.
func NewLocationService(
	locationRepo repository.LocationRepository,
	cache redis.LocationCacheInterface,
	logger *slog.Logger,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		cache:        cache,
		logger:       logger,
	}
}

// ListStates returns active states ordered by name.
func (s *LocationService) ListStates(ctx context.Context) ([]*domain.State, error) {
	return s.locationRepo.ListStates(ctx)
}

// GetState returns an active state.
func (s *LocationService) GetState(ctx context.Context, id int64) (*domain.State, error) {
	state, err := s.locationRepo.GetState(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrStateNotFound
	}
	return state, nil
}

// ListLocations returns active locations, all of them or those in one state.
// Lists are served from the cache when possible. A cache failure falls
// through to the database.
func (s *LocationService) ListLocations(ctx context.Context, stateID int64) ([]*domain.Location, error) {
	cached, err := s.cache.GetActiveLocations(ctx, stateID)
	if err != nil {
		s.logger.WarnContext(ctx, "location cache read failed",
			slog.Int64("state_id", stateID), slog.String("error", err.Error()))
	}
	if cached != nil {
		return fromCachedLocations(cached), nil
	}

	locations, err := s.locationRepo.ListActiveLocations(ctx, stateID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetActiveLocations(ctx, stateID, toCachedLocations(locations)); err != nil {
		s.logger.WarnContext(ctx, "location cache write failed",
			slog.Int64("state_id", stateID), slog.String("error", err.Error()))
	}
	return locations, nil
}

// GetLocation returns a location that can currently be delivered to.
func (s *LocationService) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	loc, err := s.locationRepo.GetActiveLocation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return loc, nil
}

// CreateStateRequest contains the parameters for adding a state.
type CreateStateRequest struct {
	Name string
	Code string
}

// CreateState adds an active state. Admin only.
func (s *LocationService) CreateState(ctx context.Context, caller domain.Principal, req CreateStateRequest) (*domain.State, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidLocation
	}

	state := &domain.State{
		Name:     name,
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		IsActive: true,
	}
	if err := s.locationRepo.CreateState(ctx, state); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLocationExists
		}
		return nil, err
	}
	return state, nil
}

// CreateLocationRequest contains the parameters for adding a location.
type CreateLocationRequest struct {
	StateID     int64
	Name        string
	DeliveryFee decimal.Decimal
}

// CreateLocation adds an active location and drops the cached lists. Admin only.
func (s *LocationService) CreateLocation(ctx context.Context, caller domain.Principal, req CreateLocationRequest) (*domain.Location, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.StateID <= 0 || req.DeliveryFee.IsNegative() {
		return nil, ErrInvalidLocation
	}

	state, err := s.GetState(ctx, req.StateID)
	if err != nil {
		return nil, err
	}

	loc := &domain.Location{
		StateID:     state.ID,
		StateName:   state.Name,
		StateCode:   state.Code,
		Name:        name,
		DeliveryFee: req.DeliveryFee.Round(2),
		IsActive:    true,
	}
	if err := s.locationRepo.CreateLocation(ctx, loc); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrLocationExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrStateNotFound
		}
		return nil, err
	}

	if err := s.cache.InvalidateLocations(ctx); err != nil {
		s.logger.WarnContext(ctx, "location cache invalidation failed",
			slog.Int64("location_id", loc.ID), slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "delivery location created",
		slog.Int64("location_id", loc.ID),
		slog.String("state", state.Name),
		slog.String("delivery_fee", loc.DeliveryFee.StringFixed(2)),
	)
	return loc, nil
}

func toCachedLocations(locations []*domain.Location) []redis.CachedLocation {
	out := make([]redis.CachedLocation, 0, len(locations))
	for _, l := range locations {
		out = append(out, redis.CachedLocation{
			ID:          l.ID,
			StateID:     l.StateID,
			StateName:   l.StateName,
			StateCode:   l.StateCode,
			Name:        l.Name,
			DeliveryFee: l.DeliveryFee.StringFixed(2),
		})
	}
	return out
}

func fromCachedLocations(cached []redis.CachedLocation) []*domain.Location {
	out := make([]*domain.Location, 0, len(cached))
	for _, c := range cached {
		fee, err := decimal.NewFromString(c.DeliveryFee)
		if err != nil {
			fee = decimal.Zero
		}
		out = append(out, &domain.Location{
			ID:          c.ID,
			StateID:     c.StateID,
			StateName:   c.StateName,
			StateCode:   c.StateCode,
			Name:        c.Name,
			DeliveryFee: fee,
			IsActive:    true,
		})
	}
	return out
}
