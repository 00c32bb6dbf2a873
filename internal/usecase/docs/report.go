package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

// GenerateInvestigationReport renders the investigation aggregate into a
// draft report document. Content is assembled from live data at generation
// time; regenerating after further work produces a new report.
func (s *Service) GenerateInvestigationReport(ctx context.Context, investigationID, author string, reviewRoles []string) (quality.Report, error) {
	if ctx == nil {
		return quality.Report{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.Report{}, errs.Wrap(err, "check context")
	}

	inv, err := s.repo.GetInvestigation(ctx, investigationID)
	if err != nil {
		return quality.Report{}, err
	}
	dev, err := s.repo.GetDeviation(ctx, inv.DeviationID)
	if err != nil {
		return quality.Report{}, err
	}
	rca, err := s.repo.GetRCA(ctx, inv.ID)
	if err != nil {
		return quality.Report{}, err
	}
	capa, err := s.repo.GetCAPA(ctx, inv.ID)
	if err != nil {
		return quality.Report{}, err
	}

	existing, err := s.repo.ListReports(ctx)
	if err != nil {
		return quality.Report{}, errs.Wrap(err, "count reports")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	flow := make([]quality.ApprovalStep, 0, len(reviewRoles))
	for i, role := range reviewRoles {
		flow = append(flow, quality.ApprovalStep{
			ID:     strconv.Itoa(i + 1),
			Role:   role,
			Status: quality.ApprovalPending,
		})
	}

	report := quality.Report{
		ID:                   fmt.Sprintf("RPT-%s-%03d", time.Now().UTC().Format("2006"), len(existing)+1),
		Title:                "Investigation Report: " + inv.Title,
		Type:                 quality.ReportInvestigation,
		Status:               quality.ReportDraft,
		CreatedBy:            author,
		CreatedAt:            now,
		ModifiedAt:           now,
		LinkedInvestigations: []string{inv.ID},
		ApprovalFlow:         flow,
		Content:              renderInvestigationReport(inv, dev, rca, capa),
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveReport(txCtx, report); err != nil {
			return errs.Wrap(err, "save report")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditCreate,
			Module:      "Report",
			RecordID:    report.ID,
			RecordType:  "Report",
			Description: "Generated investigation report for " + inv.ID,
		})
	})
	if err != nil {
		return quality.Report{}, err
	}
	return report, nil
}

func renderInvestigationReport(inv quality.Investigation, dev quality.Deviation, rca quality.RootCauseAnalysis, capa quality.CAPA) string {
	var m quality.MarkupBuilder

	m.Heading("Investigation Report: " + inv.ID)
	m.Section("Investigation Summary")
	m.Field("Title", inv.Title)
	m.Field("Status", inv.Status.Label())
	m.Field("Priority", inv.Priority.Label())
	m.Field("Assigned To", inv.AssignedTo)
	m.Field("Created", inv.CreatedAt)
	m.Field("Due", inv.DueDate)
	m.Field("Completion", strconv.Itoa(inv.CompletionPercentage)+"%")

	m.Rule()
	m.Section("Deviation Details")
	m.Field("Deviation ID", dev.ID)
	m.Field("Type", dev.DeviationType)
	m.Field("Sample", dev.SampleID)
	m.Field("Analyst", dev.AnalystID)
	m.Field("Occurred", dev.OccurredAt)
	m.Field("Severity", dev.Severity.Label())
	m.Blank()
	m.Para(dev.Description)
	if dev.CustomerImpact || dev.RegulatoryImpact {
		m.Subsection("Impact Assessment")
		if dev.CustomerImpact {
			m.Bullet("Potential customer impact identified")
		}
		if dev.RegulatoryImpact {
			m.Bullet("Potential regulatory impact identified")
		}
		m.Blank()
	}

	m.Rule()
	m.Section("Root Cause Analysis")
	if rca.RootCause != "" {
		m.Subsection("Root Cause")
		m.Para(rca.RootCause)
	}
	if rca.ManualAnalysis != "" {
		m.Subsection("Analysis")
		m.Para(rca.ManualAnalysis)
	}
	if len(rca.ContributingFactors) > 0 {
		m.Subsection("Contributing Factors")
		for _, factor := range rca.ContributingFactors {
			m.Bullet(factor)
		}
		m.Blank()
	}
	if len(rca.Checklist) > 0 {
		m.Subsection("Checklist")
		m.TableRow("Category", "Question", "Response", "Comments")
		for _, item := range rca.Checklist {
			m.TableRow(item.Category, item.Question, checklistResponse(item.Response), item.Comments)
		}
		m.Blank()
	}

	m.Rule()
	m.Section("Corrective and Preventive Actions")
	m.Field("Overall Progress", strconv.Itoa(quality.CAPAProgress(capa.Actions()))+"%")
	m.Blank()
	if len(capa.Actions()) > 0 {
		m.TableRow("ID", "Kind", "Description", "Assigned To", "Due", "Status")
		for _, action := range capa.Actions() {
			m.TableRow(action.ID, string(action.Kind), action.Description,
				action.AssignedTo, action.DueDate, action.Status.Label())
		}
		m.Blank()
	}
	if len(capa.ApprovalFlow) > 0 {
		m.Subsection("Approval Flow")
		m.TableRow("Step", "Role", "Approver", "Status", "Signature")
		for _, step := range capa.ApprovalFlow {
			m.TableRow(step.ID, step.Role, step.Approver, string(step.Status), step.DigitalSignature)
		}
		m.Blank()
	}

	return m.String()
}

func checklistResponse(response *bool) string {
	switch {
	case response == nil:
		return "Unanswered"
	case *response:
		return "Yes"
	default:
		return "No"
	}
}

// SubmitReport moves a draft into review.
func (s *Service) SubmitReport(ctx context.Context, id string) (quality.Report, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return quality.Report{}, err
	}
	if report.Status != quality.ReportDraft {
		return quality.Report{}, quality.StateTransitionError{
			Entity: "report", From: string(report.Status), To: string(quality.ReportPendingReview),
		}
	}

	report.Status = quality.ReportPendingReview
	report.ModifiedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.saveReportWithAudit(ctx, report, quality.AuditUpdate, "Submitted for review"); err != nil {
		return quality.Report{}, err
	}
	return report, nil
}

// DecideReportStep records one review decision; full approval moves the
// report to approved, a rejection returns it to draft for rework.
func (s *Service) DecideReportStep(ctx context.Context, id, stepID, rawDecision, approver, comments string) (quality.Report, error) {
	decision, err := quality.ParseApprovalStatus(rawDecision)
	if err != nil {
		return quality.Report{}, err
	}

	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return quality.Report{}, err
	}
	if report.Status != quality.ReportPendingReview {
		return quality.Report{}, quality.StateTransitionError{
			Entity: "report", From: string(report.Status), To: string(quality.ReportApproved),
		}
	}

	flow := make([]quality.ApprovalStep, len(report.ApprovalFlow))
	copy(flow, report.ApprovalFlow)
	for i := range flow {
		if flow[i].ID == stepID && flow[i].Approver == "" {
			flow[i].Approver = approver
		}
	}

	decided, err := quality.DecideStep(flow, report.ID, stepID, decision, comments, time.Now())
	if err != nil {
		return quality.Report{}, err
	}
	report.ApprovalFlow = decided

	description := "Review step " + stepID + " " + string(decision) + " by " + approver
	auditAction := quality.AuditApprove
	if decision == quality.ApprovalRejected {
		auditAction = quality.AuditReject
		report.Status = quality.ReportDraft
		description += "; returned to draft"
	} else if quality.ApprovalProgress(decided) == 100 {
		report.Status = quality.ReportApproved
		description += "; report approved"
	}
	report.ModifiedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.saveReportWithAudit(ctx, report, auditAction, description); err != nil {
		return quality.Report{}, err
	}
	return report, nil
}

// PublishReport releases an approved report.
func (s *Service) PublishReport(ctx context.Context, id string) (quality.Report, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return quality.Report{}, err
	}
	if report.Status != quality.ReportApproved {
		return quality.Report{}, quality.StateTransitionError{
			Entity: "report", From: string(report.Status), To: string(quality.ReportPublished),
		}
	}

	report.Status = quality.ReportPublished
	report.ModifiedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.saveReportWithAudit(ctx, report, quality.AuditUpdate, "Published"); err != nil {
		return quality.Report{}, err
	}
	return report, nil
}

// ReportFilter narrows the report list; Type and Status accept "all".
type ReportFilter struct {
	Query  string
	Type   string
	Status string
}

func (s *Service) ListReports(ctx context.Context, filter ReportFilter) ([]quality.Report, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	items, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list reports")
	}

	return quality.Apply(items,
		func(r quality.Report) bool { return quality.MatchText(filter.Query, r.ID, r.Title) },
		func(r quality.Report) bool { return quality.MatchExact(filter.Type, string(r.Type)) },
		func(r quality.Report) bool { return quality.MatchExact(filter.Status, string(r.Status)) },
	), nil
}

// ExportReport writes the rendered content, returning the byte count.
func (s *Service) ExportReport(ctx context.Context, id string, w io.Writer) (int, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return 0, err
	}

	n, err := io.WriteString(w, report.Content)
	if err != nil {
		return n, errs.Wrap(err, "write report content")
	}
	if !strings.HasSuffix(report.Content, "\n") {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return n, errs.Wrap(err, "write report content")
		}
	}
	return n, nil
}

func (s *Service) saveReportWithAudit(ctx context.Context, report quality.Report, action quality.AuditAction, description string) error {
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveReport(txCtx, report); err != nil {
			return errs.Wrap(err, "save report")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      action,
			Module:      "Report",
			RecordID:    report.ID,
			RecordType:  "Report",
			Description: description,
		})
	})
}
