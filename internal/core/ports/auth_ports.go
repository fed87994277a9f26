package ports

import (
	"context"

	"github.com/orgelect/orgelect/internal/core/domain"
)

// Authorizer is the capability-check collaborator. The core asks in terms of
// capabilities and never interprets role names itself.
type Authorizer interface {
	CanSubmitVote(ctx context.Context, actor domain.Actor, election *domain.Election) bool
	CanViewResults(ctx context.Context, actor domain.Actor, election *domain.Election) bool
	CanManageElections(ctx context.Context, actor domain.Actor) bool

	// CanOverrideSchedule covers the elevated privilege: opening early,
	// editing while open, and deleting an election that has votes.
	CanOverrideSchedule(ctx context.Context, actor domain.Actor) bool
}
