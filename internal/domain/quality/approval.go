package quality

import (
	"strings"
	"time"
)

// NextActionableStep returns the index of the only step a decision may be
// taken on: the earliest pending step, with every earlier step approved.
// A rejected step freezes the rest of the flow.
func NextActionableStep(flow []ApprovalStep) (int, bool) {
	for i, step := range flow {
		switch step.Status {
		case ApprovalApproved:
			continue
		case ApprovalPending:
			return i, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// DecideStep applies an approve or reject decision to one step of a flow and
// returns the updated flow. The input slice is not modified.
//
// A step that already carries a decision fails with StateTransitionError;
// deciding any step other than the actionable one fails with SequenceError.
func DecideStep(flow []ApprovalStep, flowID string, stepID string, decision ApprovalStatus, comments string, now time.Time) ([]ApprovalStep, error) {
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return nil, ValidationError{Field: "decision", Reason: "must be approved or rejected"}
	}

	target := -1
	for i, step := range flow {
		if step.ID == stepID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, NotFoundError{Kind: "approval step", ID: stepID}
	}

	if flow[target].Status != ApprovalPending {
		return nil, StateTransitionError{
			Entity: "approval step",
			From:   string(flow[target].Status),
			To:     string(decision),
		}
	}

	actionable, ok := NextActionableStep(flow)
	if !ok || actionable != target {
		return nil, SequenceError{Flow: flowID, Step: stepID}
	}

	out := make([]ApprovalStep, len(flow))
	copy(out, flow)
	out[target].Status = decision
	out[target].Comments = comments
	out[target].Timestamp = now.UTC().Format(time.RFC3339)
	out[target].DigitalSignature = SignatureToken(out[target].Approver, now)
	return out, nil
}

// SignatureToken builds the DS reference token stamped on a decided step:
// DS-<initials-or-name>-<yyyymmdd-hhmm>. It is an audit reference, not a
// cryptographic signature.
func SignatureToken(approver string, now time.Time) string {
	name := strings.TrimSpace(approver)
	parts := strings.Fields(name)

	ident := strings.ReplaceAll(name, " ", "")
	if len(parts) > 1 {
		var b strings.Builder
		for _, part := range parts {
			b.WriteByte(part[0])
		}
		ident = strings.ToUpper(b.String())
	}
	if ident == "" {
		ident = "UNKNOWN"
	}

	return "DS-" + ident + "-" + now.UTC().Format("20060102-1504")
}
