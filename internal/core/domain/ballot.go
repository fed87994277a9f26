package domain

// ValidateBallot checks a proposed set of selections against the election's
// ballot schema. It is pure: the election graph must already be loaded, so
// the check can run before any transaction opens. The first failing rule is
// returned as a ValidationError.
func ValidateBallot(e *Election, selections []Selection) error {
	counts := make(map[*Position]int, len(e.Positions))
	seen := make(map[Selection]struct{}, len(selections))

	for _, sel := range selections {
		pos := e.FindPosition(sel.PositionID)
		if pos == nil {
			return NewValidationError("position %s does not belong to this election", sel.PositionID)
		}
		if pos.FindCandidate(sel.CandidateID) == nil {
			return NewValidationError("candidate %s is not running for position %q", sel.CandidateID, pos.Title)
		}
		if _, dup := seen[sel]; dup {
			return NewValidationError("duplicate selection of candidate %s for position %q", sel.CandidateID, pos.Title)
		}
		seen[sel] = struct{}{}
		counts[pos]++
	}

	// Every position of the election must satisfy its bounds, including
	// positions the submission did not touch (zero selections).
	for i := range e.Positions {
		pos := &e.Positions[i]
		lo := pos.MinVotesAllowed
		if lo < 1 {
			lo = 1
		}
		hi := pos.MaxVotesAllowed
		if hi < pos.MinVotesAllowed {
			hi = pos.MinVotesAllowed
		}
		if n := counts[pos]; n < lo || n > hi {
			return NewValidationError("Position %q requires between %d and %d selection(s).", pos.Title, lo, hi)
		}
	}

	return nil
}
