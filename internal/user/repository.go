package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fitcoach/fitcoach-api/internal/database"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateCedula = errors.New("cedula already registered")
)

// ListFilter narrows List results. A nil field means "no constraint".
type ListFilter struct {
	Role    *Role
	CoachID *uuid.UUID
}

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the fields needed to provision an account.
type CreateParams struct {
	Email        string
	Cedula       string
	Name         string
	PasswordHash string
	Role         Role
	CoachID      *uuid.UUID
	CreatedBy    *uuid.UUID
}

// Create inserts a new user. Email and cedula conflicts are reported as
// distinct sentinel errors so callers can surface which field collided.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	dbUser := &database.User{
		Email:        params.Email,
		Cedula:       params.Cedula,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		Role:         string(params.Role),
		IsActive:     true,
		CoachID:      params.CoachID,
		CreatedBy:    params.CreatedBy,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			if strings.Contains(err.Error(), "cedula") {
				return nil, ErrDuplicateCedula
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// FindByEmailOrCedula returns the first user matching either unique field.
// Used to report which field collides before attempting an insert.
func (r *Repository) FindByEmailOrCedula(ctx context.Context, email, cedula string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("email = ?", email).WhereOr("cedula = ?", cedula)
		}).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email or cedula: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// List returns active users matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	var dbUsers []*database.User
	q := r.db.NewSelect().
		Model(&dbUsers).
		Where("is_active = ?", true)

	if filter.Role != nil {
		q = q.Where("role = ?", string(*filter.Role))
	}
	if filter.CoachID != nil {
		q = q.Where("coach_id = ?", *filter.CoachID)
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for _, dbu := range dbUsers {
		users = append(users, mapDBUserToModel(dbu))
	}
	return users, nil
}

// SetActive updates the isActive flag and returns the updated user.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewUpdate().
		Model(dbUser).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Email:        dbu.Email,
		Cedula:       dbu.Cedula,
		Name:         dbu.Name,
		PasswordHash: dbu.PasswordHash,
		Role:         Role(dbu.Role),
		IsActive:     dbu.IsActive,
		CoachID:      dbu.CoachID,
		CreatedBy:    dbu.CreatedBy,
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
