package investigation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"labqms/internal/bootstrap/logging"
	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

// DecideApproval applies an approve or reject decision to one step of the
// CAPA approval flow. Steps are decided in chain order; a rejection freezes
// the remaining steps until the plan is reworked.
func (s *Service) DecideApproval(ctx context.Context, investigationID, stepID, rawDecision, approver, comments string) (quality.CAPA, error) {
	if ctx == nil {
		return quality.CAPA{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.CAPA{}, errs.Wrap(err, "check context")
	}

	decision, err := quality.ParseApprovalStatus(rawDecision)
	if err != nil {
		return quality.CAPA{}, err
	}
	if approver == "" {
		return quality.CAPA{}, quality.ValidationError{Field: "approver", Reason: "required"}
	}

	capa, err := s.repo.GetCAPA(ctx, investigationID)
	if err != nil {
		return quality.CAPA{}, err
	}

	flow := make([]quality.ApprovalStep, len(capa.ApprovalFlow))
	copy(flow, capa.ApprovalFlow)
	for i := range flow {
		if flow[i].ID == stepID && flow[i].Approver == "" {
			flow[i].Approver = approver
		}
	}

	decided, err := quality.DecideStep(flow, capa.ID, stepID, decision, comments, time.Now())
	if err != nil {
		return quality.CAPA{}, err
	}
	capa.ApprovalFlow = decided

	auditAction := quality.AuditApprove
	if decision == quality.ApprovalRejected {
		auditAction = quality.AuditReject
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveCAPA(txCtx, capa); err != nil {
			return errs.Wrap(err, "save capa")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      auditAction,
			Module:      "CAPA",
			RecordID:    investigationID,
			RecordType:  "ApprovalStep",
			Description: "Step " + stepID + " " + string(decision) + " by " + approver,
		})
	})
	if err != nil {
		return quality.CAPA{}, err
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "usecase.investigation")),
		"approval decision recorded",
		slog.String("investigation_id", investigationID),
		slog.String("step_id", stepID),
		slog.String("decision", string(decision)),
	)
	return capa, nil
}

// ApprovalState reports the flow with the index of the step a decision may
// currently be taken on, if any.
type ApprovalState struct {
	Flow       []quality.ApprovalStep
	Actionable int
	HasNext    bool
	Progress   int
}

func (s *Service) ApprovalFlow(ctx context.Context, investigationID string) (ApprovalState, error) {
	capa, err := s.repo.GetCAPA(ctx, investigationID)
	if err != nil {
		return ApprovalState{}, err
	}

	idx, ok := quality.NextActionableStep(capa.ApprovalFlow)
	return ApprovalState{
		Flow:       capa.ApprovalFlow,
		Actionable: idx,
		HasNext:    ok,
		Progress:   quality.ApprovalProgress(capa.ApprovalFlow),
	}, nil
}
