package quality

// TransitionPolicy decides how strictly the investigation lifecycle order is
// applied. The reference dashboard never enforced it outside button layout,
// so enforcement is an explicit, configurable rule here.
type TransitionPolicy struct {
	EnforceInvestigationOrder bool
	AllowReopen               bool
}

// DefaultPolicy enforces forward order and keeps closed investigations closed.
func DefaultPolicy() TransitionPolicy {
	return TransitionPolicy{EnforceInvestigationOrder: true}
}

// ValidateInvestigationTransition checks a status change against the policy.
// Under enforcement the lifecycle advances one step at a time; reopening a
// completed or closed investigation back to in-progress needs AllowReopen.
func (p TransitionPolicy) ValidateInvestigationTransition(from, to InvestigationStatus) error {
	fromRank := from.Rank()
	toRank := to.Rank()
	if fromRank < 0 {
		return ValidationError{Field: "status", Reason: "unknown current status " + string(from)}
	}
	if toRank < 0 {
		return ValidationError{Field: "status", Reason: "unknown target status " + string(to)}
	}

	if !p.EnforceInvestigationOrder {
		return nil
	}

	if toRank == fromRank+1 {
		return nil
	}
	if p.AllowReopen && (from == StatusCompleted || from == StatusClosed) && to == StatusInProgress {
		return nil
	}

	return StateTransitionError{Entity: "investigation", From: string(from), To: string(to)}
}

// ValidateActionTransition enforces the strictly forward action lifecycle:
// pending, in-progress, completed, verified, one step at a time.
func ValidateActionTransition(from, to ActionStatus) error {
	fromRank := from.Rank()
	toRank := to.Rank()
	if fromRank < 0 {
		return ValidationError{Field: "status", Reason: "unknown current status " + string(from)}
	}
	if toRank < 0 {
		return ValidationError{Field: "status", Reason: "unknown target status " + string(to)}
	}

	if toRank != fromRank+1 {
		return StateTransitionError{Entity: "action", From: string(from), To: string(to)}
	}
	return nil
}

// AdvanceCompletion applies the completion floor of the new status while
// keeping the percentage monotonically non-decreasing.
func AdvanceCompletion(current int, status InvestigationStatus) int {
	next := status.CompletionFloor()
	if current > next {
		next = current
	}
	if next > 100 {
		next = 100
	}
	if next < 0 {
		next = 0
	}
	return next
}
