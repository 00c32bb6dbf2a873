package investigation

import (
	"testing"

	"labqms/internal/domain/quality"
)

func storeFixture() []quality.Investigation {
	return []quality.Investigation{
		{ID: "INV-2024-001", Title: "OOS Result", Status: quality.StatusInProgress},
		{ID: "INV-2024-002", Title: "Balance Drift", Status: quality.StatusInitiated},
	}
}

func TestStoreSelection(t *testing.T) {
	store := NewStore()
	store.ReplaceInvestigations(storeFixture())

	if err := store.SetCurrent("INV-2024-002"); err != nil {
		t.Fatalf("SetCurrent() error = %v", err)
	}
	current, ok := store.Current()
	if !ok || current.ID != "INV-2024-002" {
		t.Fatalf("Current() = %+v, %v", current, ok)
	}

	err := store.SetCurrent("INV-MISSING")
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("SetCurrent(missing) error = %v, want NotFoundError", err)
	}

	if err := store.SetCurrent(""); err != nil {
		t.Fatalf("clearing selection error = %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Fatalf("selection not cleared")
	}
}

func TestStoreReplaceKeepsSurvivingSelection(t *testing.T) {
	store := NewStore()
	store.ReplaceInvestigations(storeFixture())
	_ = store.SetCurrent("INV-2024-001")

	store.ReplaceInvestigations([]quality.Investigation{
		{ID: "INV-2024-001", Title: "OOS Result", Status: quality.StatusRCAPending},
	})
	current, ok := store.Current()
	if !ok || current.Status != quality.StatusRCAPending {
		t.Fatalf("Current() after replace = %+v, %v", current, ok)
	}

	store.ReplaceInvestigations([]quality.Investigation{
		{ID: "INV-2024-009"},
	})
	if _, ok := store.Current(); ok {
		t.Fatalf("selection should clear when its id is replaced away")
	}
}

func TestStoreUpdateInvestigation(t *testing.T) {
	store := NewStore()
	store.ReplaceInvestigations(storeFixture())

	updated := storeFixture()[0]
	updated.Status = quality.StatusRCAPending
	if err := store.UpdateInvestigation(updated); err != nil {
		t.Fatalf("UpdateInvestigation() error = %v", err)
	}
	if got := store.Investigations()[0].Status; got != quality.StatusRCAPending {
		t.Fatalf("stored status = %s", got)
	}

	err := store.UpdateInvestigation(quality.Investigation{ID: "INV-MISSING"})
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("UpdateInvestigation(missing) error = %v, want NotFoundError", err)
	}
}

func TestStoreAuditTrailNewestFirst(t *testing.T) {
	store := NewStore()
	store.AppendAuditEntry(quality.AuditEntry{ID: "AUD-2024-001"})
	store.AppendAuditEntry(quality.AuditEntry{ID: "AUD-2024-002"})

	trail := store.AuditTrail()
	if len(trail) != 2 || trail[0].ID != "AUD-2024-002" {
		t.Fatalf("AuditTrail() = %+v", trail)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	store.ReplaceInvestigations(storeFixture())

	items := store.Investigations()
	items[0].Title = "mutated"
	if store.Investigations()[0].Title == "mutated" {
		t.Fatalf("Investigations() exposed internal state")
	}
}
