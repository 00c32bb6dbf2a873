package investigation

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"labqms/internal/bootstrap/logging"
	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

// UpdateStatus moves an investigation through its lifecycle. The active
// policy decides whether out-of-order jumps are rejected; completion only
// ever advances.
func (s *Service) UpdateStatus(ctx context.Context, id string, rawStatus string) (quality.Investigation, error) {
	if ctx == nil {
		return quality.Investigation{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.Investigation{}, errs.Wrap(err, "check context")
	}

	target, err := quality.ParseInvestigationStatus(rawStatus)
	if err != nil {
		return quality.Investigation{}, err
	}

	inv, err := s.repo.GetInvestigation(ctx, id)
	if err != nil {
		return quality.Investigation{}, err
	}

	if err := s.Policy().Transitions.ValidateInvestigationTransition(inv.Status, target); err != nil {
		return quality.Investigation{}, err
	}

	changes := map[string]quality.FieldChange{
		"status": {From: string(inv.Status), To: string(target)},
	}
	previousCompletion := inv.CompletionPercentage

	inv.Status = target
	inv.CompletionPercentage = quality.AdvanceCompletion(inv.CompletionPercentage, target)
	inv.CurrentStep = stepLabel(target)
	inv.UpdatedAt = nowUTC()
	if inv.CompletionPercentage != previousCompletion {
		changes["completionPercentage"] = quality.FieldChange{
			From: strconv.Itoa(previousCompletion),
			To:   strconv.Itoa(inv.CompletionPercentage),
		}
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateInvestigation(txCtx, inv); err != nil {
			return err
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "Investigation",
			RecordID:    inv.ID,
			RecordType:  "Investigation",
			Description: "Status changed to " + target.Label(),
			Changes:     changes,
		})
	})
	if err != nil {
		return quality.Investigation{}, err
	}

	s.invalidateStats(ctx)
	logging.Info(logging.WithAttrs(ctx, slog.String("component", "usecase.investigation")),
		"investigation status updated",
		slog.String("investigation_id", inv.ID),
		slog.String("status", string(target)),
	)
	return inv, nil
}

// Assign hands the investigation to another owner.
func (s *Service) Assign(ctx context.Context, id string, assignee string) (quality.Investigation, error) {
	if ctx == nil {
		return quality.Investigation{}, errors.New("context is required")
	}
	if assignee == "" {
		return quality.Investigation{}, quality.ValidationError{Field: "assignedTo", Reason: "required"}
	}

	inv, err := s.repo.GetInvestigation(ctx, id)
	if err != nil {
		return quality.Investigation{}, err
	}

	changes := map[string]quality.FieldChange{
		"assignedTo": {From: inv.AssignedTo, To: assignee},
	}
	inv.AssignedTo = assignee
	inv.UpdatedAt = nowUTC()

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateInvestigation(txCtx, inv); err != nil {
			return err
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "Investigation",
			RecordID:    inv.ID,
			RecordType:  "Investigation",
			Description: "Reassigned to " + assignee,
			Changes:     changes,
		})
	})
	if err != nil {
		return quality.Investigation{}, err
	}
	return inv, nil
}
