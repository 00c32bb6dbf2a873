package repository

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"labqms/internal/domain/quality"
	"labqms/internal/infrastructure/persistence/sqlite/model"
)

func setupQualityRepository(t *testing.T) *QualityRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "quality.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.Investigation{}, &model.Deviation{}, &model.RCA{},
		&model.CAPA{}, &model.SOPDocument{}, &model.Report{}, &model.AuditEntry{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewQualityRepository(db)
}

func sampleInvestigation(id string) quality.Investigation {
	return quality.Investigation{
		ID:          id,
		DeviationID: "DEV-" + id,
		Title:       "OOS Result",
		Status:      quality.StatusInitiated,
		Priority:    quality.PriorityHigh,
		AssignedTo:  "John Doe",
		CreatedBy:   "Jane Smith",
		CreatedAt:   "2024-01-15T09:30:00Z",
		UpdatedAt:   "2024-01-15T09:30:00Z",
		DueDate:     "2024-01-22T17:00:00Z",
		CurrentStep: "Initial Assessment",
	}
}

func TestInvestigationRoundtrip(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	want := sampleInvestigation("INV-2024-001")
	if err := repo.CreateInvestigation(ctx, want); err != nil {
		t.Fatalf("CreateInvestigation() error = %v", err)
	}

	got, err := repo.GetInvestigation(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetInvestigation() error = %v", err)
	}
	if got != want {
		t.Fatalf("GetInvestigation() = %+v, want %+v", got, want)
	}
}

func TestGetInvestigationNotFound(t *testing.T) {
	repo := setupQualityRepository(t)

	_, err := repo.GetInvestigation(context.Background(), "INV-MISSING")
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("GetInvestigation() error = %v, want NotFoundError", err)
	}
}

func TestUpdateInvestigationNotFound(t *testing.T) {
	repo := setupQualityRepository(t)

	err := repo.UpdateInvestigation(context.Background(), sampleInvestigation("INV-MISSING"))
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("UpdateInvestigation() error = %v, want NotFoundError", err)
	}
}

func TestUpdateInvestigationPersistsChanges(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	inv := sampleInvestigation("INV-2024-001")
	if err := repo.CreateInvestigation(ctx, inv); err != nil {
		t.Fatalf("CreateInvestigation() error = %v", err)
	}

	inv.Status = quality.StatusInProgress
	inv.CompletionPercentage = 20
	if err := repo.UpdateInvestigation(ctx, inv); err != nil {
		t.Fatalf("UpdateInvestigation() error = %v", err)
	}

	got, err := repo.GetInvestigation(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvestigation() error = %v", err)
	}
	if got.Status != quality.StatusInProgress || got.CompletionPercentage != 20 {
		t.Fatalf("updated investigation = %+v", got)
	}
}

func TestReplaceInvestigations(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	if err := repo.CreateInvestigation(ctx, sampleInvestigation("INV-2024-001")); err != nil {
		t.Fatalf("CreateInvestigation() error = %v", err)
	}

	replacement := []quality.Investigation{
		sampleInvestigation("INV-2024-010"),
		sampleInvestigation("INV-2024-011"),
	}
	if err := repo.ReplaceInvestigations(ctx, replacement); err != nil {
		t.Fatalf("ReplaceInvestigations() error = %v", err)
	}

	items, err := repo.ListInvestigations(ctx)
	if err != nil {
		t.Fatalf("ListInvestigations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListInvestigations() len = %d", len(items))
	}
	if items[0].ID != "INV-2024-010" || items[1].ID != "INV-2024-011" {
		t.Fatalf("ListInvestigations() ids = %s, %s", items[0].ID, items[1].ID)
	}
	if _, err := repo.GetInvestigation(ctx, "INV-2024-001"); err == nil {
		t.Fatalf("replaced investigation still present")
	}
}

func TestRCARoundtripPreservesNestedData(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	yes := true
	want := quality.RootCauseAnalysis{
		ID:              "RCA-INV-2024-001",
		InvestigationID: "INV-2024-001",
		Checklist: []quality.ChecklistItem{
			{ID: "1", Category: "Equipment", Question: "Calibrated?", Response: &yes, Comments: "current", Required: true},
			{ID: "2", Category: "Method", Question: "Correct method?", Required: true},
		},
		Suggestions: []quality.AISuggestion{
			{ID: "1", Category: "Equipment", Suggestion: "Column degradation", Confidence: 85, Reasoning: "history", Selected: true},
		},
		ManualAnalysis:      "back pressure trending up",
		RootCause:           "column past lifecycle",
		ContributingFactors: []string{"no usage tracking"},
	}
	if err := repo.SaveRCA(ctx, want); err != nil {
		t.Fatalf("SaveRCA() error = %v", err)
	}

	got, err := repo.GetRCA(ctx, want.InvestigationID)
	if err != nil {
		t.Fatalf("GetRCA() error = %v", err)
	}
	if len(got.Checklist) != 2 || got.Checklist[0].Response == nil || !*got.Checklist[0].Response {
		t.Fatalf("GetRCA() checklist = %+v", got.Checklist)
	}
	if got.Checklist[1].Response != nil {
		t.Fatalf("unanswered item came back non-nil")
	}
	if len(got.Suggestions) != 1 || !got.Suggestions[0].Selected {
		t.Fatalf("GetRCA() suggestions = %+v", got.Suggestions)
	}
	if got.RootCause != want.RootCause || len(got.ContributingFactors) != 1 {
		t.Fatalf("GetRCA() = %+v", got)
	}

	// Save again overwrites in place.
	got.RootCause = "revised root cause"
	if err := repo.SaveRCA(ctx, got); err != nil {
		t.Fatalf("SaveRCA() second error = %v", err)
	}
	again, err := repo.GetRCA(ctx, want.InvestigationID)
	if err != nil {
		t.Fatalf("GetRCA() error = %v", err)
	}
	if again.RootCause != "revised root cause" {
		t.Fatalf("GetRCA() after upsert root cause = %q", again.RootCause)
	}
}

func TestCAPARoundtrip(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	want := quality.CAPA{
		ID:              "CAPA-INV-2024-001",
		InvestigationID: "INV-2024-001",
		CorrectiveActions: []quality.Action{
			{ID: "CA-001", Kind: quality.ActionCorrective, Description: "Replace column", AssignedTo: "Mike", Status: quality.ActionInProgress, Priority: quality.PriorityHigh, Resources: []string{"column"}},
		},
		PreventiveActions: []quality.Action{
			{ID: "PA-001", Kind: quality.ActionPreventive, Description: "Track usage", AssignedTo: "Sarah", Status: quality.ActionPending, Priority: quality.PriorityMedium},
		},
		ApprovalFlow: []quality.ApprovalStep{
			{ID: "1", Role: "Lab Supervisor", Status: quality.ApprovalPending},
			{ID: "2", Role: "QA Manager", Status: quality.ApprovalPending},
		},
	}
	if err := repo.SaveCAPA(ctx, want); err != nil {
		t.Fatalf("SaveCAPA() error = %v", err)
	}

	got, err := repo.GetCAPA(ctx, want.InvestigationID)
	if err != nil {
		t.Fatalf("GetCAPA() error = %v", err)
	}
	if len(got.CorrectiveActions) != 1 || len(got.PreventiveActions) != 1 || len(got.ApprovalFlow) != 2 {
		t.Fatalf("GetCAPA() = %+v", got)
	}
	if got.CorrectiveActions[0].ID != "CA-001" || got.CorrectiveActions[0].Status != quality.ActionInProgress {
		t.Fatalf("GetCAPA() corrective = %+v", got.CorrectiveActions[0])
	}
}

func TestSOPRoundtripWithHistory(t *testing.T) {
	repo := setupQualityRepository(t)
	ctx := context.Background()

	want := quality.SOPDocument{
		ID:           "SOP-QC-001",
		Title:        "HPLC Analysis Procedure",
		Version:      "3.1",
		Status:       quality.SOPUnderReview,
		Category:     "Quality Control",
		LastModified: "2024-01-16T14:30:00Z",
		ModifiedBy:   "John Doe",
		History: []quality.SOPVersion{
			{Version: "3.0", Date: "2023-06-01T00:00:00Z", Author: "Emily Davis", Changes: "annual review", Status: quality.SOPApproved},
		},
		LinkedInvestigations: []string{"INV-2024-001"},
	}
	if err := repo.SaveSOP(ctx, want); err != nil {
		t.Fatalf("SaveSOP() error = %v", err)
	}

	got, err := repo.GetSOP(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetSOP() error = %v", err)
	}
	if len(got.History) != 1 || got.History[0].Version != "3.0" {
		t.Fatalf("GetSOP() history = %+v", got.History)
	}
	if len(got.LinkedInvestigations) != 1 {
		t.Fatalf("GetSOP() linked = %+v", got.LinkedInvestigations)
	}
}

func TestSaveRejectsEmptyID(t *testing.T) {
	repo := setupQualityRepository(t)

	err := repo.SaveReport(context.Background(), quality.Report{Title: "no id"})
	if _, ok := err.(quality.ValidationError); !ok {
		t.Fatalf("SaveReport() error = %v, want ValidationError", err)
	}
}
