package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role determines a user's authorization scope.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleCoach Role = "COACH"
	RoleUser  Role = "USER"
)

// ParseRole validates a client-supplied role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCoach, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Cedula       string     `json:"cedula"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // Never expose password hash in JSON
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	CoachID      *uuid.UUID `json:"coach_id,omitempty"`
	CreatedBy    *uuid.UUID `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
