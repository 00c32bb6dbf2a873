package quality

import "math"

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// CAPAProgress is the share of actions that are completed or verified,
// rounded to the nearest percent. Empty action lists yield 0.
func CAPAProgress(actions []Action) int {
	done := 0
	for _, action := range actions {
		if action.Status.Done() {
			done++
		}
	}
	return roundPercent(done, len(actions))
}

// RCACompletion is the share of required checklist items that have an answer.
// Optional items never affect the percentage.
func RCACompletion(checklist []ChecklistItem) int {
	required := 0
	answered := 0
	for _, item := range checklist {
		if !item.Required {
			continue
		}
		required++
		if item.Response != nil {
			answered++
		}
	}
	return roundPercent(answered, required)
}

// ApprovalProgress is the share of approved steps in a flow.
func ApprovalProgress(flow []ApprovalStep) int {
	approved := 0
	for _, step := range flow {
		if step.Status == ApprovalApproved {
			approved++
		}
	}
	return roundPercent(approved, len(flow))
}

// CheckCompletion verifies the completion invariants for an investigation:
// the percentage stays within [0,100] and terminal statuses imply 100.
func CheckCompletion(inv Investigation) error {
	if inv.CompletionPercentage < 0 || inv.CompletionPercentage > 100 {
		return ValidationError{Field: "completionPercentage", Reason: "must be between 0 and 100"}
	}
	if (inv.Status == StatusCompleted || inv.Status == StatusClosed) && inv.CompletionPercentage != 100 {
		return ValidationError{Field: "completionPercentage", Reason: "terminal status requires 100"}
	}
	return nil
}
