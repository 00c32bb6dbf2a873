package investigation

import (
	"context"
	"errors"
	"strings"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

func (s *Service) getRCA(ctx context.Context, investigationID string) (quality.RootCauseAnalysis, error) {
	if ctx == nil {
		return quality.RootCauseAnalysis{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.RootCauseAnalysis{}, errs.Wrap(err, "check context")
	}
	return s.repo.GetRCA(ctx, investigationID)
}

func (s *Service) saveRCA(ctx context.Context, rca quality.RootCauseAnalysis, description string) error {
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveRCA(txCtx, rca); err != nil {
			return errs.Wrap(err, "save rca")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "RCA",
			RecordID:    rca.InvestigationID,
			RecordType:  "RootCauseAnalysis",
			Description: description,
		})
	})
}

// AnswerChecklistItem records a yes/no response with optional comments.
func (s *Service) AnswerChecklistItem(ctx context.Context, investigationID, itemID string, response bool, comments string) (quality.RootCauseAnalysis, error) {
	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	found := false
	for i := range rca.Checklist {
		if rca.Checklist[i].ID == itemID {
			value := response
			rca.Checklist[i].Response = &value
			rca.Checklist[i].Comments = comments
			found = true
			break
		}
	}
	if !found {
		return quality.RootCauseAnalysis{}, quality.NotFoundError{Kind: "checklist item", ID: itemID}
	}

	if err := s.saveRCA(ctx, rca, "Answered checklist item "+itemID); err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	return rca, nil
}

// SetRootCause stores the concluded root cause and free-form analysis.
func (s *Service) SetRootCause(ctx context.Context, investigationID, rootCause, manualAnalysis string) (quality.RootCauseAnalysis, error) {
	if strings.TrimSpace(rootCause) == "" {
		return quality.RootCauseAnalysis{}, quality.ValidationError{Field: "rootCause", Reason: "required"}
	}

	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	rca.RootCause = rootCause
	if manualAnalysis != "" {
		rca.ManualAnalysis = manualAnalysis
	}

	if err := s.saveRCA(ctx, rca, "Root cause recorded"); err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	return rca, nil
}

// AddContributingFactor appends a factor; duplicates are ignored.
func (s *Service) AddContributingFactor(ctx context.Context, investigationID, factor string) (quality.RootCauseAnalysis, error) {
	trimmed := strings.TrimSpace(factor)
	if trimmed == "" {
		return quality.RootCauseAnalysis{}, quality.ValidationError{Field: "factor", Reason: "required"}
	}

	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	for _, existing := range rca.ContributingFactors {
		if existing == trimmed {
			return rca, nil
		}
	}
	rca.ContributingFactors = append(rca.ContributingFactors, trimmed)

	if err := s.saveRCA(ctx, rca, "Added contributing factor"); err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	return rca, nil
}

func (s *Service) RemoveContributingFactor(ctx context.Context, investigationID, factor string) (quality.RootCauseAnalysis, error) {
	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	kept := rca.ContributingFactors[:0]
	removed := false
	for _, existing := range rca.ContributingFactors {
		if existing == factor {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return quality.RootCauseAnalysis{}, quality.NotFoundError{Kind: "contributing factor", ID: factor}
	}
	rca.ContributingFactors = kept

	if err := s.saveRCA(ctx, rca, "Removed contributing factor"); err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	return rca, nil
}

// ToggleSuggestion marks or unmarks a proposed root cause as considered.
// Selection is informational and never alters the catalogue.
func (s *Service) ToggleSuggestion(ctx context.Context, investigationID, suggestionID string) (quality.RootCauseAnalysis, error) {
	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	found := false
	for i := range rca.Suggestions {
		if rca.Suggestions[i].ID == suggestionID {
			rca.Suggestions[i].Selected = !rca.Suggestions[i].Selected
			found = true
			break
		}
	}
	if !found {
		return quality.RootCauseAnalysis{}, quality.NotFoundError{Kind: "suggestion", ID: suggestionID}
	}

	if err := s.saveRCA(ctx, rca, "Toggled root cause suggestion "+suggestionID); err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	return rca, nil
}

// CompleteRCA closes the analysis phase: every required checklist item must
// be answered and a root cause recorded, then the investigation advances from
// rca-pending to capa-pending.
func (s *Service) CompleteRCA(ctx context.Context, investigationID string) (quality.Investigation, error) {
	rca, err := s.getRCA(ctx, investigationID)
	if err != nil {
		return quality.Investigation{}, err
	}

	if quality.RCACompletion(rca.Checklist) < 100 {
		return quality.Investigation{}, quality.ValidationError{
			Field:  "checklist",
			Reason: "all required items must be answered",
		}
	}
	if strings.TrimSpace(rca.RootCause) == "" {
		return quality.Investigation{}, quality.ValidationError{Field: "rootCause", Reason: "required"}
	}

	return s.UpdateStatus(ctx, investigationID, string(quality.StatusCAPAPending))
}
