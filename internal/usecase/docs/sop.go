package docs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

type SOPInput struct {
	Title    string
	Category string
	Author   string
}

// CreateSOP registers a new procedure as a 1.0 draft. Ids follow the
// SOP-<category abbreviation>-NNN convention.
func (s *Service) CreateSOP(ctx context.Context, input SOPInput) (quality.SOPDocument, error) {
	if ctx == nil {
		return quality.SOPDocument{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.SOPDocument{}, errs.Wrap(err, "check context")
	}

	if strings.TrimSpace(input.Title) == "" {
		return quality.SOPDocument{}, quality.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(input.Category) == "" {
		return quality.SOPDocument{}, quality.ValidationError{Field: "category", Reason: "required"}
	}

	existing, err := s.repo.ListSOPs(ctx)
	if err != nil {
		return quality.SOPDocument{}, errs.Wrap(err, "count sops")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	sop := quality.SOPDocument{
		ID:           fmt.Sprintf("SOP-%s-%03d", categoryAbbrev(input.Category), len(existing)+1),
		Title:        strings.TrimSpace(input.Title),
		Version:      "1.0",
		Status:       quality.SOPDraft,
		Category:     strings.TrimSpace(input.Category),
		LastModified: now,
		ModifiedBy:   strings.TrimSpace(input.Author),
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveSOP(txCtx, sop); err != nil {
			return errs.Wrap(err, "save sop")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditCreate,
			Module:      "SOP",
			RecordID:    sop.ID,
			RecordType:  "SOPDocument",
			Description: "Created SOP " + sop.ID + " v" + sop.Version,
		})
	})
	if err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// ReviseSOP opens a new revision: the current version is snapshotted into
// history, the minor version bumps, and the document returns to draft.
func (s *Service) ReviseSOP(ctx context.Context, id, changeReason, author string) (quality.SOPDocument, error) {
	if strings.TrimSpace(changeReason) == "" {
		return quality.SOPDocument{}, quality.ValidationError{Field: "changeReason", Reason: "required"}
	}

	sop, err := s.repo.GetSOP(ctx, id)
	if err != nil {
		return quality.SOPDocument{}, err
	}

	sop.History = append(sop.History, quality.SOPVersion{
		Version: sop.Version,
		Date:    sop.LastModified,
		Author:  sop.ModifiedBy,
		Changes: sop.ChangeReason,
		Status:  sop.Status,
	})

	now := time.Now().UTC().Format(time.RFC3339)
	previousVersion := sop.Version
	sop.Version = bumpMinorVersion(sop.Version)
	sop.Status = quality.SOPDraft
	sop.LastModified = now
	sop.ModifiedBy = author
	sop.ChangeReason = changeReason
	sop.ApprovedBy = ""
	sop.ApprovalDate = ""
	sop.ApprovalFlow = nil

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveSOP(txCtx, sop); err != nil {
			return errs.Wrap(err, "save sop")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditUpdate,
			Module:      "SOP",
			RecordID:    sop.ID,
			RecordType:  "SOPDocument",
			Description: "Opened revision " + sop.Version + ": " + changeReason,
			Changes: map[string]quality.FieldChange{
				"version": {From: previousVersion, To: sop.Version},
			},
		})
	})
	if err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// SubmitForReview moves a draft into review with the given sign-off chain.
func (s *Service) SubmitForReview(ctx context.Context, id string, reviewRoles []string) (quality.SOPDocument, error) {
	sop, err := s.repo.GetSOP(ctx, id)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	if sop.Status != quality.SOPDraft {
		return quality.SOPDocument{}, quality.StateTransitionError{
			Entity: "sop", From: string(sop.Status), To: string(quality.SOPUnderReview),
		}
	}

	sop.Status = quality.SOPUnderReview
	sop.LastModified = time.Now().UTC().Format(time.RFC3339)
	sop.ApprovalFlow = make([]quality.ApprovalStep, 0, len(reviewRoles))
	for i, role := range reviewRoles {
		sop.ApprovalFlow = append(sop.ApprovalFlow, quality.ApprovalStep{
			ID:     strconv.Itoa(i + 1),
			Role:   role,
			Status: quality.ApprovalPending,
		})
	}

	err = s.saveWithAudit(ctx, sop, quality.AuditUpdate, "Submitted for review")
	if err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// DecideSOPStep records one review decision. When the last step approves,
// the document becomes the approved version and the next review date is set
// a year out.
func (s *Service) DecideSOPStep(ctx context.Context, id, stepID, rawDecision, approver, comments string) (quality.SOPDocument, error) {
	decision, err := quality.ParseApprovalStatus(rawDecision)
	if err != nil {
		return quality.SOPDocument{}, err
	}

	sop, err := s.repo.GetSOP(ctx, id)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	if sop.Status != quality.SOPUnderReview {
		return quality.SOPDocument{}, quality.StateTransitionError{
			Entity: "sop", From: string(sop.Status), To: string(quality.SOPApproved),
		}
	}

	flow := make([]quality.ApprovalStep, len(sop.ApprovalFlow))
	copy(flow, sop.ApprovalFlow)
	for i := range flow {
		if flow[i].ID == stepID && flow[i].Approver == "" {
			flow[i].Approver = approver
		}
	}

	now := time.Now()
	decided, err := quality.DecideStep(flow, sop.ID, stepID, decision, comments, now)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	sop.ApprovalFlow = decided

	description := "Review step " + stepID + " " + string(decision) + " by " + approver
	auditAction := quality.AuditApprove
	if decision == quality.ApprovalRejected {
		auditAction = quality.AuditReject
		sop.Status = quality.SOPDraft
		description += "; returned to draft"
	} else if quality.ApprovalProgress(decided) == 100 {
		sop.Status = quality.SOPApproved
		sop.ApprovedBy = approver
		sop.ApprovalDate = now.UTC().Format(time.RFC3339)
		sop.NextReview = now.UTC().AddDate(1, 0, 0).Format(time.RFC3339)
		description += "; version " + sop.Version + " approved"
	}
	sop.LastModified = now.UTC().Format(time.RFC3339)

	if err := s.saveWithAudit(ctx, sop, auditAction, description); err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// ObsoleteSOP retires an approved procedure.
func (s *Service) ObsoleteSOP(ctx context.Context, id string) (quality.SOPDocument, error) {
	sop, err := s.repo.GetSOP(ctx, id)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	if sop.Status != quality.SOPApproved {
		return quality.SOPDocument{}, quality.StateTransitionError{
			Entity: "sop", From: string(sop.Status), To: string(quality.SOPObsolete),
		}
	}

	sop.Status = quality.SOPObsolete
	sop.LastModified = time.Now().UTC().Format(time.RFC3339)

	if err := s.saveWithAudit(ctx, sop, quality.AuditUpdate, "Marked obsolete"); err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// LinkInvestigation cross-references an investigation that touched this
// procedure. Duplicates are ignored.
func (s *Service) LinkInvestigation(ctx context.Context, sopID, investigationID string) (quality.SOPDocument, error) {
	sop, err := s.repo.GetSOP(ctx, sopID)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	if _, err := s.repo.GetInvestigation(ctx, investigationID); err != nil {
		return quality.SOPDocument{}, err
	}

	for _, linked := range sop.LinkedInvestigations {
		if linked == investigationID {
			return sop, nil
		}
	}
	sop.LinkedInvestigations = append(sop.LinkedInvestigations, investigationID)

	if err := s.saveWithAudit(ctx, sop, quality.AuditUpdate, "Linked investigation "+investigationID); err != nil {
		return quality.SOPDocument{}, err
	}
	return sop, nil
}

// SOPFilter narrows the document list; Status and Category accept "all".
type SOPFilter struct {
	Query    string
	Status   string
	Category string
}

func (s *Service) ListSOPs(ctx context.Context, filter SOPFilter) ([]quality.SOPDocument, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	items, err := s.repo.ListSOPs(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list sops")
	}

	return quality.Apply(items,
		func(sop quality.SOPDocument) bool { return quality.MatchText(filter.Query, sop.ID, sop.Title) },
		func(sop quality.SOPDocument) bool { return quality.MatchExact(filter.Status, string(sop.Status)) },
		func(sop quality.SOPDocument) bool { return quality.MatchExact(filter.Category, sop.Category) },
	), nil
}

// DueForReview lists approved procedures whose next review date has passed.
func (s *Service) DueForReview(ctx context.Context) ([]quality.SOPDocument, error) {
	items, err := s.ListSOPs(ctx, SOPFilter{Status: string(quality.SOPApproved)})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return quality.Apply(items, func(sop quality.SOPDocument) bool {
		return sop.NextReview != "" && sop.NextReview <= now
	}), nil
}

func (s *Service) saveWithAudit(ctx context.Context, sop quality.SOPDocument, action quality.AuditAction, description string) error {
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveSOP(txCtx, sop); err != nil {
			return errs.Wrap(err, "save sop")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      action,
			Module:      "SOP",
			RecordID:    sop.ID,
			RecordType:  "SOPDocument",
			Description: description,
		})
	})
}

// bumpMinorVersion turns "3.1" into "3.2". Anything unparsable restarts the
// minor counter on the same major.
func bumpMinorVersion(version string) string {
	major, minor, ok := strings.Cut(version, ".")
	if !ok {
		return version + ".1"
	}
	n, err := strconv.Atoi(minor)
	if err != nil {
		return major + ".1"
	}
	return major + "." + strconv.Itoa(n+1)
}

// categoryAbbrev derives the id infix from the category initials: "Quality
// Control" becomes "QC".
func categoryAbbrev(category string) string {
	var b strings.Builder
	for _, word := range strings.Fields(category) {
		b.WriteString(strings.ToUpper(word[:1]))
	}
	if b.Len() == 0 {
		return "GEN"
	}
	return b.String()
}
