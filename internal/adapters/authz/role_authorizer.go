package authz

import (
	"context"

	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

// Role names live here, outside the core, which only asks for capabilities.
const (
	RoleVoter      = "voter"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

type RoleAuthorizer struct {
	// resultsBeforeClose lets plain voters see tallies while voting is
	// still underway.
	resultsBeforeClose bool
}

func NewRoleAuthorizer(resultsBeforeClose bool) ports.Authorizer {
	return &RoleAuthorizer{
		resultsBeforeClose: resultsBeforeClose,
	}
}

func (a *RoleAuthorizer) CanSubmitVote(_ context.Context, actor domain.Actor, _ *domain.Election) bool {
	switch actor.Role {
	case RoleVoter, RoleAdmin, RoleSuperadmin:
		return true
	default:
		return false
	}
}

func (a *RoleAuthorizer) CanViewResults(_ context.Context, actor domain.Actor, election *domain.Election) bool {
	switch actor.Role {
	case RoleAdmin, RoleSuperadmin:
		return true
	case RoleVoter:
		return election.Status == domain.StatusClosed || a.resultsBeforeClose
	default:
		return false
	}
}

func (a *RoleAuthorizer) CanManageElections(_ context.Context, actor domain.Actor) bool {
	return actor.Role == RoleAdmin || actor.Role == RoleSuperadmin
}

func (a *RoleAuthorizer) CanOverrideSchedule(_ context.Context, actor domain.Actor) bool {
	return actor.Role == RoleSuperadmin
}
