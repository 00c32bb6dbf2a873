package quality

import "testing"

func TestCAPAProgressRounding(t *testing.T) {
	actions := []Action{
		{ID: "CA-001", Status: ActionCompleted},
		{ID: "CA-002", Status: ActionPending},
		{ID: "PA-001", Status: ActionInProgress},
	}
	if got := CAPAProgress(actions); got != 33 {
		t.Fatalf("CAPAProgress() = %d, want 33", got)
	}

	actions[2].Status = ActionVerified
	if got := CAPAProgress(actions); got != 67 {
		t.Fatalf("CAPAProgress() = %d, want 67", got)
	}
}

func TestCAPAProgressEmpty(t *testing.T) {
	if got := CAPAProgress(nil); got != 0 {
		t.Fatalf("CAPAProgress(nil) = %d", got)
	}
}

func TestRCACompletionCountsRequiredOnly(t *testing.T) {
	yes := true
	checklist := []ChecklistItem{
		{ID: "1", Required: true, Response: &yes},
		{ID: "2", Required: true},
		{ID: "3", Required: false},
		{ID: "4", Required: false, Response: &yes},
	}
	if got := RCACompletion(checklist); got != 50 {
		t.Fatalf("RCACompletion() = %d, want 50", got)
	}

	checklist[1].Response = &yes
	if got := RCACompletion(checklist); got != 100 {
		t.Fatalf("RCACompletion() = %d, want 100", got)
	}
}

func TestApprovalProgress(t *testing.T) {
	flow := []ApprovalStep{
		{ID: "1", Status: ApprovalApproved},
		{ID: "2", Status: ApprovalPending},
	}
	if got := ApprovalProgress(flow); got != 50 {
		t.Fatalf("ApprovalProgress() = %d, want 50", got)
	}
}

func TestCheckCompletion(t *testing.T) {
	if err := CheckCompletion(Investigation{Status: StatusInProgress, CompletionPercentage: 20}); err != nil {
		t.Fatalf("CheckCompletion() error = %v", err)
	}

	err := CheckCompletion(Investigation{Status: StatusCompleted, CompletionPercentage: 80})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("terminal status below 100 error = %v, want ValidationError", err)
	}

	err = CheckCompletion(Investigation{Status: StatusInitiated, CompletionPercentage: 120})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("out of range error = %v, want ValidationError", err)
	}
}
