package docs

import (
	"context"
	"strings"
	"testing"

	"labqms/internal/domain/quality"
)

func seedAggregate(t *testing.T, fx docsFixture) quality.Investigation {
	t.Helper()
	ctx := context.Background()

	yes := true
	inv := quality.Investigation{
		ID: "INV-2024-001", DeviationID: "DEV-2024-001",
		Title: "OOS Result - HPLC Assay", Status: quality.StatusCAPAPending,
		Priority: quality.PriorityHigh, AssignedTo: "John Doe",
		CreatedAt: "2024-01-15T09:30:00Z", DueDate: "2024-01-22T17:00:00Z",
		CompletionPercentage: 60,
	}
	if err := fx.repo.CreateInvestigation(ctx, inv); err != nil {
		t.Fatalf("CreateInvestigation() error = %v", err)
	}
	if err := fx.repo.CreateDeviation(ctx, quality.Deviation{
		ID: "DEV-2024-001", SampleID: "QC-2024-0156", AnalystID: "ANL-007",
		OccurredAt: "2024-01-15T08:45:00Z", DeviationType: "OOS Result",
		Description: "Assay result 87.2% against specification 95.0-105.0%",
		Severity:    quality.PriorityHigh, RegulatoryImpact: true,
	}); err != nil {
		t.Fatalf("CreateDeviation() error = %v", err)
	}
	if err := fx.repo.SaveRCA(ctx, quality.RootCauseAnalysis{
		ID: "RCA-INV-2024-001", InvestigationID: "INV-2024-001",
		Checklist: []quality.ChecklistItem{
			{ID: "1", Category: "Equipment", Question: "Was the instrument calibrated?", Response: &yes, Required: true},
		},
		RootCause:           "HPLC column degradation",
		ContributingFactors: []string{"No column usage tracking"},
	}); err != nil {
		t.Fatalf("SaveRCA() error = %v", err)
	}
	if err := fx.repo.SaveCAPA(ctx, quality.CAPA{
		ID: "CAPA-INV-2024-001", InvestigationID: "INV-2024-001",
		CorrectiveActions: []quality.Action{
			{ID: "CA-001", Kind: quality.ActionCorrective, Description: "Replace column", AssignedTo: "Mike", Status: quality.ActionCompleted, Priority: quality.PriorityHigh},
			{ID: "CA-002", Kind: quality.ActionCorrective, Description: "Re-test sample", AssignedTo: "Mike", Status: quality.ActionPending, Priority: quality.PriorityHigh},
		},
		ApprovalFlow: []quality.ApprovalStep{
			{ID: "1", Role: "Lab Supervisor", Status: quality.ApprovalPending},
		},
	}); err != nil {
		t.Fatalf("SaveCAPA() error = %v", err)
	}
	return inv
}

func mustGenerate(t *testing.T, fx docsFixture) quality.Report {
	t.Helper()
	report, err := fx.svc.GenerateInvestigationReport(context.Background(), "INV-2024-001", "Jane Smith", reviewRoles)
	if err != nil {
		t.Fatalf("GenerateInvestigationReport() error = %v", err)
	}
	return report
}

func TestGenerateInvestigationReport(t *testing.T) {
	fx := setupDocs(t)
	seedAggregate(t, fx)
	report := mustGenerate(t, fx)

	if !strings.HasPrefix(report.ID, "RPT-") || !strings.HasSuffix(report.ID, "-001") {
		t.Fatalf("report id = %q", report.ID)
	}
	if report.Status != quality.ReportDraft || report.Type != quality.ReportInvestigation {
		t.Fatalf("report = %+v", report)
	}
	if len(report.LinkedInvestigations) != 1 || report.LinkedInvestigations[0] != "INV-2024-001" {
		t.Fatalf("linked investigations = %v", report.LinkedInvestigations)
	}
	if len(report.ApprovalFlow) != 2 {
		t.Fatalf("approval flow = %+v", report.ApprovalFlow)
	}

	content := report.Content
	for _, want := range []string{
		"Investigation Report: INV-2024-001",
		"Investigation Summary",
		"OOS Result - HPLC Assay",
		"Deviation Details",
		"QC-2024-0156",
		"Potential regulatory impact identified",
		"Root Cause Analysis",
		"HPLC column degradation",
		"No column usage tracking",
		"Was the instrument calibrated?",
		"Corrective and Preventive Actions",
		"**Overall Progress**: 50%",
		"CA-001",
		"Approval Flow",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("report content missing %q:\n%s", want, content)
		}
	}
}

func TestGenerateReportUnknownInvestigation(t *testing.T) {
	fx := setupDocs(t)

	_, err := fx.svc.GenerateInvestigationReport(context.Background(), "INV-MISSING", "Jane Smith", reviewRoles)
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestReportReviewLifecycle(t *testing.T) {
	fx := setupDocs(t)
	seedAggregate(t, fx)
	report := mustGenerate(t, fx)
	ctx := context.Background()

	// Publishing and deciding require review first.
	_, err := fx.svc.PublishReport(ctx, report.ID)
	if _, ok := err.(quality.StateTransitionError); !ok {
		t.Fatalf("publish draft error = %v", err)
	}
	_, err = fx.svc.DecideReportStep(ctx, report.ID, "1", "approved", "Sarah Wilson", "")
	if _, ok := err.(quality.StateTransitionError); !ok {
		t.Fatalf("deciding draft error = %v", err)
	}

	report, err = fx.svc.SubmitReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}
	if report.Status != quality.ReportPendingReview {
		t.Fatalf("status = %s", report.Status)
	}

	report, err = fx.svc.DecideReportStep(ctx, report.ID, "1", "approved", "Sarah Wilson", "")
	if err != nil {
		t.Fatalf("DecideReportStep(1) error = %v", err)
	}
	if report.Status != quality.ReportPendingReview {
		t.Fatalf("status after partial approval = %s", report.Status)
	}
	report, err = fx.svc.DecideReportStep(ctx, report.ID, "2", "approved", "Robert Chen", "")
	if err != nil {
		t.Fatalf("DecideReportStep(2) error = %v", err)
	}
	if report.Status != quality.ReportApproved {
		t.Fatalf("status after full approval = %s", report.Status)
	}

	report, err = fx.svc.PublishReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("PublishReport() error = %v", err)
	}
	if report.Status != quality.ReportPublished {
		t.Fatalf("status = %s", report.Status)
	}
}

func TestReportRejectionReturnsToDraft(t *testing.T) {
	fx := setupDocs(t)
	seedAggregate(t, fx)
	report := mustGenerate(t, fx)
	ctx := context.Background()

	if _, err := fx.svc.SubmitReport(ctx, report.ID); err != nil {
		t.Fatalf("SubmitReport() error = %v", err)
	}
	report, err := fx.svc.DecideReportStep(ctx, report.ID, "1", "rejected", "Sarah Wilson", "summary incomplete")
	if err != nil {
		t.Fatalf("DecideReportStep() error = %v", err)
	}
	if report.Status != quality.ReportDraft {
		t.Fatalf("status after rejection = %s", report.Status)
	}
}

func TestExportReportEndsWithNewline(t *testing.T) {
	fx := setupDocs(t)
	seedAggregate(t, fx)
	report := mustGenerate(t, fx)

	var buf strings.Builder
	n, err := fx.svc.ExportReport(context.Background(), report.ID, &buf)
	if err != nil {
		t.Fatalf("ExportReport() error = %v", err)
	}
	if n == 0 {
		t.Fatalf("ExportReport() wrote nothing")
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("export does not end with newline")
	}
}

func TestListReportsFilters(t *testing.T) {
	fx := setupDocs(t)
	seedAggregate(t, fx)
	report := mustGenerate(t, fx)
	ctx := context.Background()

	items, err := fx.svc.ListReports(ctx, ReportFilter{Status: "draft", Type: "all"})
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != report.ID {
		t.Fatalf("ListReports() = %+v", items)
	}

	items, err = fx.svc.ListReports(ctx, ReportFilter{Status: "published"})
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("ListReports(published) = %+v", items)
	}
}
