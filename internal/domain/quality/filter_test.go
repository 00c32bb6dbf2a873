package quality

import (
	"reflect"
	"testing"
)

func filterFixture() []Investigation {
	return []Investigation{
		{ID: "INV-2024-001", Title: "OOS Result - HPLC Assay", Status: StatusInProgress, Priority: PriorityHigh},
		{ID: "INV-2024-002", Title: "Balance Drift", Status: StatusRCAPending, Priority: PriorityMedium},
		{ID: "INV-2024-003", Title: "Documentation Error", Status: StatusInitiated, Priority: PriorityLow},
	}
}

func TestApplyNoPredicatesIsIdentity(t *testing.T) {
	items := filterFixture()
	if got := Apply(items); !reflect.DeepEqual(got, items) {
		t.Fatalf("Apply() without predicates changed the input")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	pred := func(inv Investigation) bool { return MatchText("hplc", inv.ID, inv.Title) }

	once := Apply(filterFixture(), pred)
	twice := Apply(once, pred)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Apply() not idempotent: %v vs %v", once, twice)
	}
	if len(once) != 1 || once[0].ID != "INV-2024-001" {
		t.Fatalf("Apply() = %v", once)
	}
}

func TestApplyCombinesPredicates(t *testing.T) {
	got := Apply(filterFixture(),
		func(inv Investigation) bool { return MatchExact("all", string(inv.Status)) },
		func(inv Investigation) bool { return MatchExact("medium", string(inv.Priority)) },
	)
	if len(got) != 1 || got[0].ID != "INV-2024-002" {
		t.Fatalf("Apply() = %v", got)
	}
}

func TestMatchText(t *testing.T) {
	if !MatchText("", "anything") {
		t.Fatalf("empty query should match")
	}
	if !MatchText("HPLC", "oos result - hplc assay") {
		t.Fatalf("case-insensitive match failed")
	}
	if MatchText("nmr", "oos result - hplc assay") {
		t.Fatalf("unexpected match")
	}
}

func TestMatchExact(t *testing.T) {
	if !MatchExact("", "in-progress") || !MatchExact("all", "in-progress") || !MatchExact("All", "in-progress") {
		t.Fatalf("open filter should match everything")
	}
	if MatchExact("closed", "in-progress") {
		t.Fatalf("unexpected match")
	}
}

func TestWithinRange(t *testing.T) {
	ts := "2024-01-16T10:00:00Z"

	if !WithinRange(ts, "", "") {
		t.Fatalf("open range should match")
	}
	if !WithinRange(ts, "2024-01-16T10:00:00Z", "2024-01-16T10:00:00Z") {
		t.Fatalf("bounds are inclusive")
	}
	if WithinRange(ts, "2024-01-17T00:00:00Z", "") {
		t.Fatalf("below lower bound should not match")
	}
	if WithinRange(ts, "", "2024-01-15T00:00:00Z") {
		t.Fatalf("above upper bound should not match")
	}
}
