package investigation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

type ActionInput struct {
	Kind        string
	Description string
	AssignedTo  string
	DueDate     string
	Priority    string
	Resources   []string
}

// AddAction appends a corrective or preventive action to the CAPA plan.
// Action ids are sequential per kind: CA-001, CA-002, ... and PA-001, ...
func (s *Service) AddAction(ctx context.Context, investigationID string, input ActionInput) (quality.CAPA, error) {
	if ctx == nil {
		return quality.CAPA{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.CAPA{}, errs.Wrap(err, "check context")
	}

	kind := quality.ActionKind(strings.TrimSpace(input.Kind))
	if kind != quality.ActionCorrective && kind != quality.ActionPreventive {
		return quality.CAPA{}, quality.ValidationError{Field: "kind", Reason: "must be corrective or preventive"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return quality.CAPA{}, quality.ValidationError{Field: "description", Reason: "required"}
	}
	if strings.TrimSpace(input.AssignedTo) == "" {
		return quality.CAPA{}, quality.ValidationError{Field: "assignedTo", Reason: "required"}
	}
	priority, err := quality.ParsePriority(input.Priority)
	if err != nil {
		return quality.CAPA{}, err
	}

	capa, err := s.repo.GetCAPA(ctx, investigationID)
	if err != nil {
		return quality.CAPA{}, err
	}

	action := quality.Action{
		Kind:        kind,
		Description: strings.TrimSpace(input.Description),
		AssignedTo:  strings.TrimSpace(input.AssignedTo),
		DueDate:     input.DueDate,
		Status:      quality.ActionPending,
		Priority:    priority,
		Resources:   input.Resources,
	}
	if kind == quality.ActionCorrective {
		action.ID = fmt.Sprintf("CA-%03d", len(capa.CorrectiveActions)+1)
		capa.CorrectiveActions = append(capa.CorrectiveActions, action)
	} else {
		action.ID = fmt.Sprintf("PA-%03d", len(capa.PreventiveActions)+1)
		capa.PreventiveActions = append(capa.PreventiveActions, action)
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveCAPA(txCtx, capa); err != nil {
			return errs.Wrap(err, "save capa")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditCreate,
			Module:      "CAPA",
			RecordID:    investigationID,
			RecordType:  "Action",
			Description: "Added " + string(kind) + " action " + action.ID,
		})
	})
	if err != nil {
		return quality.CAPA{}, err
	}
	return capa, nil
}

// UpdateActionStatus moves one action forward. The lifecycle is strictly
// sequential; skipping a step is rejected.
func (s *Service) UpdateActionStatus(ctx context.Context, investigationID, actionID, rawStatus string) (quality.CAPA, error) {
	if ctx == nil {
		return quality.CAPA{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.CAPA{}, errs.Wrap(err, "check context")
	}

	target, err := quality.ParseActionStatus(rawStatus)
	if err != nil {
		return quality.CAPA{}, err
	}

	capa, err := s.repo.GetCAPA(ctx, investigationID)
	if err != nil {
		return quality.CAPA{}, err
	}

	previous, err := transitionAction(capa.CorrectiveActions, actionID, target)
	var notFound quality.NotFoundError
	if errors.As(err, &notFound) {
		previous, err = transitionAction(capa.PreventiveActions, actionID, target)
	}
	if err != nil {
		return quality.CAPA{}, err
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveCAPA(txCtx, capa); err != nil {
			return errs.Wrap(err, "save capa")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "CAPA",
			RecordID:    investigationID,
			RecordType:  "Action",
			Description: "Action " + actionID + " moved to " + target.Label(),
			Changes: map[string]quality.FieldChange{
				"status": {From: string(previous), To: string(target)},
			},
		})
	})
	if err != nil {
		return quality.CAPA{}, err
	}
	return capa, nil
}

// transitionAction finds the action in place and applies the status change,
// returning the previous status.
func transitionAction(actions []quality.Action, actionID string, target quality.ActionStatus) (quality.ActionStatus, error) {
	for i := range actions {
		if actions[i].ID != actionID {
			continue
		}
		previous := actions[i].Status
		if err := quality.ValidateActionTransition(previous, target); err != nil {
			return "", err
		}
		actions[i].Status = target
		return previous, nil
	}
	return "", quality.NotFoundError{Kind: "action", ID: actionID}
}

// AttachActionEvidence links evidence references to a completed action.
func (s *Service) AttachActionEvidence(ctx context.Context, investigationID, actionID string, evidence []string) (quality.CAPA, error) {
	if len(evidence) == 0 {
		return quality.CAPA{}, quality.ValidationError{Field: "evidence", Reason: "required"}
	}

	capa, err := s.repo.GetCAPA(ctx, investigationID)
	if err != nil {
		return quality.CAPA{}, err
	}

	attach := func(actions []quality.Action) bool {
		for i := range actions {
			if actions[i].ID == actionID {
				actions[i].Evidence = append(actions[i].Evidence, evidence...)
				return true
			}
		}
		return false
	}
	if !attach(capa.CorrectiveActions) && !attach(capa.PreventiveActions) {
		return quality.CAPA{}, quality.NotFoundError{Kind: "action", ID: actionID}
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveCAPA(txCtx, capa); err != nil {
			return errs.Wrap(err, "save capa")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "CAPA",
			RecordID:    investigationID,
			RecordType:  "Action",
			Description: "Attached evidence to action " + actionID,
		})
	})
	if err != nil {
		return quality.CAPA{}, err
	}
	return capa, nil
}
