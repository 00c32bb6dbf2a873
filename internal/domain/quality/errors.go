package quality

import "fmt"

// ValidationError reports a missing or malformed field on input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("field %q is required", e.Field)
	}
	return fmt.Sprintf("invalid %q: %s", e.Field, e.Reason)
}

// NotFoundError reports a record id absent from the store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// StateTransitionError reports an illegal status change, such as skipping a
// step of the action lifecycle or re-deciding a terminal approval step.
type StateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e StateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}

// SequenceError reports an approval decision attempted on a step that is not
// the earliest pending step of its flow.
type SequenceError struct {
	Flow string
	Step string
}

func (e SequenceError) Error() string {
	return fmt.Sprintf("approval step %q of flow %q is not actionable yet", e.Step, e.Flow)
}

// NotImplementedError marks behavior the reference dashboard only stubbed.
// Surfacing it keeps the gap explicit instead of silently faking the feature.
type NotImplementedError struct {
	Feature string
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Feature)
}
