package quality

import "testing"

func TestInvestigationTransitionOneStepForward(t *testing.T) {
	policy := DefaultPolicy()

	if err := policy.ValidateInvestigationTransition(StatusInitiated, StatusInProgress); err != nil {
		t.Fatalf("ValidateInvestigationTransition() error = %v", err)
	}
	if err := policy.ValidateInvestigationTransition(StatusCAPAPending, StatusApprovalPending); err != nil {
		t.Fatalf("ValidateInvestigationTransition() error = %v", err)
	}
}

func TestInvestigationTransitionRejectsSkips(t *testing.T) {
	policy := DefaultPolicy()

	err := policy.ValidateInvestigationTransition(StatusInitiated, StatusCAPAPending)
	if _, ok := err.(StateTransitionError); !ok {
		t.Fatalf("ValidateInvestigationTransition() error = %v, want StateTransitionError", err)
	}

	err = policy.ValidateInvestigationTransition(StatusRCAPending, StatusInitiated)
	if _, ok := err.(StateTransitionError); !ok {
		t.Fatalf("backward transition error = %v, want StateTransitionError", err)
	}
}

func TestInvestigationTransitionReopen(t *testing.T) {
	strict := DefaultPolicy()
	err := strict.ValidateInvestigationTransition(StatusCompleted, StatusInProgress)
	if _, ok := err.(StateTransitionError); !ok {
		t.Fatalf("reopen without AllowReopen error = %v, want StateTransitionError", err)
	}

	relaxed := TransitionPolicy{EnforceInvestigationOrder: true, AllowReopen: true}
	if err := relaxed.ValidateInvestigationTransition(StatusClosed, StatusInProgress); err != nil {
		t.Fatalf("reopen with AllowReopen error = %v", err)
	}
}

func TestInvestigationTransitionUnenforced(t *testing.T) {
	policy := TransitionPolicy{EnforceInvestigationOrder: false}
	if err := policy.ValidateInvestigationTransition(StatusInitiated, StatusClosed); err != nil {
		t.Fatalf("unenforced transition error = %v", err)
	}
}

func TestActionTransitionStrictlySequential(t *testing.T) {
	if err := ValidateActionTransition(ActionPending, ActionInProgress); err != nil {
		t.Fatalf("ValidateActionTransition() error = %v", err)
	}

	err := ValidateActionTransition(ActionPending, ActionVerified)
	if _, ok := err.(StateTransitionError); !ok {
		t.Fatalf("skip transition error = %v, want StateTransitionError", err)
	}

	err = ValidateActionTransition(ActionCompleted, ActionInProgress)
	if _, ok := err.(StateTransitionError); !ok {
		t.Fatalf("backward transition error = %v, want StateTransitionError", err)
	}
}

func TestAdvanceCompletionMonotonic(t *testing.T) {
	if got := AdvanceCompletion(0, StatusInProgress); got != 20 {
		t.Fatalf("AdvanceCompletion(0, in-progress) = %d", got)
	}
	// Already ahead of the floor: stays put.
	if got := AdvanceCompletion(55, StatusCAPAPending); got != 60 {
		t.Fatalf("AdvanceCompletion(55, capa-pending) = %d", got)
	}
	if got := AdvanceCompletion(90, StatusApprovalPending); got != 90 {
		t.Fatalf("AdvanceCompletion(90, approval-pending) = %d", got)
	}
	if got := AdvanceCompletion(42, StatusCompleted); got != 100 {
		t.Fatalf("AdvanceCompletion(42, completed) = %d", got)
	}
}

func TestStatusNext(t *testing.T) {
	next, ok := StatusInitiated.Next()
	if !ok || next != StatusInProgress {
		t.Fatalf("Next(initiated) = %v, %v", next, ok)
	}
	if _, ok := StatusClosed.Next(); ok {
		t.Fatalf("Next(closed) should have no successor")
	}
}
