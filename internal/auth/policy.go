package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/user"
)

// ErrForbidden is the base error for every policy denial. Specific
// denials wrap it so handlers can match the category with errors.Is.
var ErrForbidden = errors.New("forbidden")

var (
	ErrUsersMayNotCreate     = fmt.Errorf("%w: users may not create accounts", ErrForbidden)
	ErrCoachesCreateUsers    = fmt.Errorf("%w: coaches may only create users", ErrForbidden)
	ErrManageOwnUsersOnly    = fmt.Errorf("%w: you may only manage your own users", ErrForbidden)
	ErrUsersMayNotManage     = fmt.Errorf("%w: you may not manage users", ErrForbidden)
	ErrUsersMayNotListUsers  = fmt.Errorf("%w: you may not list users", ErrForbidden)
	ErrUnknownRequesterRole  = fmt.Errorf("%w: unknown requester role", ErrForbidden)
)

// CanCreate decides whether creatorRole may provision an account with
// targetRole. Pure function, no I/O.
func CanCreate(creatorRole, targetRole user.Role) error {
	switch creatorRole {
	case user.RoleAdmin:
		return nil
	case user.RoleCoach:
		if targetRole != user.RoleUser {
			return ErrCoachesCreateUsers
		}
		return nil
	case user.RoleUser:
		return ErrUsersMayNotCreate
	default:
		return ErrUnknownRequesterRole
	}
}

// CanManage decides whether the requester may manage (e.g. toggle) the
// target account. Coaches may only manage USER accounts bound to them.
func CanManage(requesterRole user.Role, requesterID uuid.UUID, target *user.User) error {
	switch requesterRole {
	case user.RoleAdmin:
		return nil
	case user.RoleCoach:
		if target.Role != user.RoleUser || target.CoachID == nil || *target.CoachID != requesterID {
			return ErrManageOwnUsersOnly
		}
		return nil
	case user.RoleUser:
		return ErrUsersMayNotManage
	default:
		return ErrUnknownRequesterRole
	}
}

// ListScope returns the repository filter a requester is allowed to list
// with. Admins see everyone, optionally narrowed by roleQuery; coaches see
// only their own USER accounts; users may not list at all.
func ListScope(requester *user.User, roleQuery *user.Role) (user.ListFilter, error) {
	switch requester.Role {
	case user.RoleAdmin:
		return user.ListFilter{Role: roleQuery}, nil
	case user.RoleCoach:
		role := user.RoleUser
		coachID := requester.ID
		return user.ListFilter{Role: &role, CoachID: &coachID}, nil
	case user.RoleUser:
		return user.ListFilter{}, ErrUsersMayNotListUsers
	default:
		return user.ListFilter{}, ErrUnknownRequesterRole
	}
}

// EffectiveCoachID applies the coach-binding rule: a COACH creating a USER
// always binds the new account to itself; a client-supplied coach id is
// honored only when the creator is an ADMIN.
func EffectiveCoachID(creator *user.User, targetRole user.Role, requested *uuid.UUID) *uuid.UUID {
	if targetRole != user.RoleUser {
		return nil
	}
	if creator == nil {
		// Self-registration never carries a coach binding.
		return nil
	}
	if creator.Role == user.RoleCoach {
		id := creator.ID
		return &id
	}
	if creator.Role == user.RoleAdmin {
		return requested
	}
	return nil
}
