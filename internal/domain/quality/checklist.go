package quality

import (
	"strconv"
	"strings"
)

// NewRCAChecklist returns the standard investigation checklist a fresh root
// cause analysis starts from. Responses are unanswered.
func NewRCAChecklist() []ChecklistItem {
	return []ChecklistItem{
		{ID: "1", Category: "Sample Integrity", Question: "Was the sample stored under appropriate conditions?", Required: true},
		{ID: "2", Category: "Sample Integrity", Question: "Was the sample within its stability period?", Required: true},
		{ID: "3", Category: "Equipment", Question: "Was the instrument calibrated and qualified?", Required: true},
		{ID: "4", Category: "Equipment", Question: "Were system suitability criteria met?", Required: true},
		{ID: "5", Category: "Method", Question: "Was the correct analytical method used?", Required: true},
		{ID: "6", Category: "Method", Question: "Were all method parameters followed correctly?", Required: false},
		{ID: "7", Category: "Personnel", Question: "Was the analyst trained and qualified for this method?", Required: true},
		{ID: "8", Category: "Environment", Question: "Were environmental conditions within acceptable limits?", Required: false},
	}
}

// SuggestRootCauses proposes candidate root causes from the deviation type.
// The catalogue is compiled from recurring laboratory findings; confidence is
// indicative only and selection never feeds back into the catalogue.
func SuggestRootCauses(deviationType, description string) []AISuggestion {
	text := strings.ToLower(deviationType + " " + description)

	var out []AISuggestion
	add := func(s AISuggestion) { out = append(out, s) }

	if strings.Contains(text, "oos") || strings.Contains(text, "out of spec") || strings.Contains(text, "hplc") {
		add(AISuggestion{
			ID:         "1",
			Category:   "Equipment",
			Suggestion: "HPLC column degradation due to extended use beyond recommended lifecycle",
			Confidence: 85,
			Reasoning:  "Similar out-of-specification results recur when column usage exceeds 2000 injections.",
		})
	}
	if strings.Contains(text, "stability") || strings.Contains(text, "storage") || strings.Contains(text, "temperature") {
		add(AISuggestion{
			ID:         "2",
			Category:   "Environmental",
			Suggestion: "Temperature fluctuation in sample storage affecting stability",
			Confidence: 72,
			Reasoning:  "Environmental monitoring has shown temperature excursions during comparable storage periods.",
		})
	}
	add(AISuggestion{
		ID:         "3",
		Category:   "Human Error",
		Suggestion: "Incorrect sample preparation or dilution factor",
		Confidence: 68,
		Reasoning:  "Manual calculation errors remain possible even with current analyst training records.",
	})

	for i := range out {
		out[i].ID = strconv.Itoa(i + 1)
	}
	return out
}
