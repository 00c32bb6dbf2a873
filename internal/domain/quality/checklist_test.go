package quality

import "testing"

func TestNewRCAChecklist(t *testing.T) {
	checklist := NewRCAChecklist()

	if len(checklist) != 8 {
		t.Fatalf("checklist len = %d, want 8", len(checklist))
	}
	required := 0
	for _, item := range checklist {
		if item.Response != nil {
			t.Fatalf("item %s starts answered", item.ID)
		}
		if item.Required {
			required++
		}
	}
	if required != 6 {
		t.Fatalf("required items = %d, want 6", required)
	}
}

func TestSuggestRootCauses(t *testing.T) {
	suggestions := SuggestRootCauses("OOS Result", "HPLC assay below specification")
	if len(suggestions) != 2 {
		t.Fatalf("oos suggestions = %+v", suggestions)
	}
	if suggestions[0].Confidence != 85 || suggestions[0].Category != "Equipment" {
		t.Fatalf("first suggestion = %+v", suggestions[0])
	}

	// The preparation-error fallback is always proposed.
	suggestions = SuggestRootCauses("Documentation Error", "missing second signature")
	if len(suggestions) != 1 || suggestions[0].Category != "Human Error" {
		t.Fatalf("fallback suggestions = %+v", suggestions)
	}
	if suggestions[0].ID != "1" {
		t.Fatalf("ids not renumbered: %+v", suggestions)
	}

	suggestions = SuggestRootCauses("Stability Failure", "storage temperature excursion during hold")
	if len(suggestions) != 2 || suggestions[0].Category != "Environmental" {
		t.Fatalf("stability suggestions = %+v", suggestions)
	}
}
