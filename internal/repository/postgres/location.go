package postgres

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// LocationRepository implements repository.LocationRepository using PostgreSQL.
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// CreateState adds a delivery state.
func (r *LocationRepository) CreateState(ctx context.Context, state *domain.State) error {
	query := `
		INSERT INTO states (name, code, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, state.Name, nullString(state.Code), state.IsActive).
		Scan(&state.ID, &state.CreatedAt, &state.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetState retrieves a state by ID, active or not.
func (r *LocationRepository) GetState(ctx context.Context, id int64) (*domain.State, error) {
	query := `SELECT id, name, COALESCE(code, ''), is_active, created_at, updated_at FROM states WHERE id = $1`

	var s domain.State
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.Code, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStates returns active states ordered by name.
func (r *LocationRepository) ListStates(ctx context.Context) ([]*domain.State, error) {
	query := `
		SELECT id, name, COALESCE(code, ''), is_active, created_at, updated_at
		FROM states WHERE is_active ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*domain.State
	for rows.Next() {
		var s domain.State
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		states = append(states, &s)
	}
	return states, rows.Err()
}

// CreateLocation adds a delivery location. A (state, name) pair is unique.
func (r *LocationRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	query := `
		INSERT INTO locations (state_id, name, delivery_fee, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		location.StateID,
		location.Name,
		location.DeliveryFee,
		location.IsActive,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return repository.ErrDuplicate
	case isForeignKeyViolation(err):
		return repository.ErrNotFound
	}
	return err
}

const locationColumns = `
	l.id, l.state_id, s.name, COALESCE(s.code, ''), l.name, l.delivery_fee, l.is_active, l.created_at, l.updated_at
	FROM locations l
	JOIN states s ON s.id = l.state_id
`

// GetActiveLocation retrieves a location that can currently be delivered to.
func (r *LocationRepository) GetActiveLocation(ctx context.Context, id int64) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` WHERE l.id = $1 AND l.is_active AND s.is_active`

	loc, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return loc, err
}

// ListActiveLocations returns active locations, optionally for one state.
func (r *LocationRepository) ListActiveLocations(ctx context.Context, stateID int64) ([]*domain.Location, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if stateID != 0 {
		query := `SELECT ` + locationColumns + ` WHERE l.is_active AND s.is_active AND l.state_id = $1 ORDER BY s.name, l.name`
		rows, err = r.db.QueryContext(ctx, query, stateID)
	} else {
		query := `SELECT ` + locationColumns + ` WHERE l.is_active AND s.is_active ORDER BY s.name, l.name`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func scanLocation(s scanner) (*domain.Location, error) {
	var loc domain.Location
	err := s.Scan(
		&loc.ID,
		&loc.StateID,
		&loc.StateName,
		&loc.StateCode,
		&loc.Name,
		&loc.DeliveryFee,
		&loc.IsActive,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Ensure LocationRepository implements repository.LocationRepository.
var _ repository.LocationRepository = (*LocationRepository)(nil)
