package domain

import "time"

// Lifecycle predicates take the current time explicitly so the state machine
// stays deterministic under test. The stored status alone is never trusted
// for voting eligibility; the window check runs alongside it.

// HasEnded reports whether the voting window is over, independent of the
// stored status.
func (e *Election) HasEnded(now time.Time) bool {
	return !now.Before(e.EndAt)
}

// IsOpen reports whether votes may be accepted right now.
func (e *Election) IsOpen(now time.Time) bool {
	return e.Status == StatusOpen && !e.HasEnded(now)
}

// Fillable reports whether the position has enough candidates to satisfy its
// maximum selection count.
func (p *Position) Fillable() bool {
	return len(p.Candidates) >= p.MaxVotesAllowed
}

// ValidateTransition checks a requested status change against the current
// state. allowEarly lets a privileged actor open before the scheduled start.
func (e *Election) ValidateTransition(to ElectionStatus, now time.Time, allowEarly bool) error {
	if to == e.Status {
		return nil
	}
	switch {
	case e.Status == StatusClosed:
		return NewStateError("election %q is closed and can no longer change status", e.Title)
	case e.Status == StatusDraft && to == StatusOpen:
		return e.validateOpen(now, allowEarly)
	case e.Status == StatusOpen && to == StatusClosed:
		return nil
	case e.Status == StatusDraft && to == StatusClosed:
		return NewStateError("election %q must be opened before it can be closed", e.Title)
	default:
		return NewStateError("election status cannot move from %s to %s", e.Status, to)
	}
}

func (e *Election) validateOpen(now time.Time, allowEarly bool) error {
	if len(e.Positions) == 0 {
		return NewStateError("election %q has no positions to vote on", e.Title)
	}
	for i := range e.Positions {
		p := &e.Positions[i]
		if !p.Fillable() {
			return NewStateError("%s position slot is not filled (%d/%d candidates).",
				p.Title, len(p.Candidates), p.MaxVotesAllowed)
		}
	}
	if e.HasEnded(now) {
		return NewStateError("voting window for election %q has already ended", e.Title)
	}
	if now.Before(e.StartAt) && !allowEarly {
		return NewStateError("election %q is not scheduled to open until %s",
			e.Title, e.StartAt.Format(time.RFC3339))
	}
	return nil
}

// Close marks the election closed and freezes the window. Closing before the
// scheduled end pulls the end forward to now so HasEnded holds immediately.
func (e *Election) Close(now time.Time) {
	if e.Status == StatusClosed {
		return
	}
	e.Status = StatusClosed
	if now.Before(e.EndAt) {
		e.EndAt = now
	}
}

// CanEdit reports whether schedule/title/description edits are permitted.
func (e *Election) CanEdit(privileged bool) bool {
	switch e.Status {
	case StatusDraft:
		return true
	case StatusOpen:
		return privileged
	default:
		return false
	}
}
