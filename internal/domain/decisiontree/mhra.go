package decisiontree

import "strconv"

// MHRAGraph is the stock deviation-investigation flow the dashboard ships
// with. It seeds a fresh workspace; user edits stay local to the session.
func MHRAGraph() *Graph {
	checklist := func(texts ...string) []ChecklistEntry {
		out := make([]ChecklistEntry, 0, len(texts))
		for i, text := range texts {
			out = append(out, ChecklistEntry{ID: strconv.Itoa(i + 1), Text: text})
		}
		return out
	}

	g := &Graph{
		Nodes: []Node{
			{
				ID: "1", Label: "Deviation Detected", Type: NodeAction, Status: NodeCompleted,
				Description: "A departure from procedure or specification has been observed",
				Checklist: checklist(
					"Document deviation details",
					"Notify lab supervisor",
					"Secure samples and evidence",
				),
			},
			{
				ID: "2", Label: "Immediate Investigation Required?", Type: NodeDecision, Status: NodeCurrent,
				Question:    "Does the deviation require immediate investigation?",
				Description: "Assess severity and regulatory or customer impact",
				Checklist: checklist(
					"Evaluate deviation severity",
					"Check regulatory impact",
					"Review customer impact",
				),
			},
			{
				ID: "3", Label: "Conduct Immediate Investigation", Type: NodeAction, Status: NodePending,
				Description: "Begin the investigation without delay",
				Checklist: checklist(
					"Secure all evidence",
					"Interview involved personnel",
					"Document initial findings",
				),
			},
			{
				ID: "4", Label: "Schedule Investigation", Type: NodeAction, Status: NodePending,
				Description: "Plan the investigation within the required window",
				Checklist: checklist(
					"Assign qualified investigator",
					"Set investigation timeline",
					"Define investigation scope",
				),
			},
			{
				ID: "5", Label: "Root Cause Analysis", Type: NodeAction, Status: NodePending,
				Description: "Systematic evaluation of potential causes",
				Checklist: checklist(
					"Collect all relevant data",
					"Apply RCA methodology",
					"Validate root cause findings",
				),
			},
			{
				ID: "6", Label: "CAPA Required?", Type: NodeDecision, Status: NodePending,
				Question:    "Are corrective or preventive actions needed?",
				Description: "Assess recurrence risk and regulatory requirements",
				Checklist: checklist(
					"Assess recurrence risk",
					"Review regulatory requirements",
					"Evaluate business impact",
				),
			},
			{
				ID: "7", Label: "Implement CAPA", Type: NodeAction, Status: NodePending,
				Description: "Define and execute corrective and preventive actions",
				Checklist: checklist(
					"Define corrective actions",
					"Define preventive actions",
					"Assign responsibilities",
				),
			},
			{
				ID: "8", Label: "Document & Close", Type: NodeAction, Status: NodePending,
				Description: "Final reporting and archival",
				Checklist: checklist(
					"Prepare final report",
					"Get management review",
					"Archive all documents",
				),
			},
			{
				ID: "9", Label: "Effectiveness Review", Type: NodeEnd, Status: NodePending,
				Description: "Confirm implemented actions resolved the cause",
				Checklist: checklist(
					"Monitor implementation results",
					"Validate action effectiveness",
					"Update procedures if needed",
				),
			},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "1", Target: "2", Label: "Next", Type: EdgeNext},
			{ID: "e2-3", Source: "2", Target: "3", Label: "Yes", Type: EdgeYes},
			{ID: "e2-4", Source: "2", Target: "4", Label: "No", Type: EdgeNo},
			{ID: "e3-5", Source: "3", Target: "5", Label: "Next", Type: EdgeNext},
			{ID: "e4-5", Source: "4", Target: "5", Label: "Next", Type: EdgeNext},
			{ID: "e5-6", Source: "5", Target: "6", Label: "Next", Type: EdgeNext},
			{ID: "e6-7", Source: "6", Target: "7", Label: "Yes", Type: EdgeYes},
			{ID: "e6-8", Source: "6", Target: "8", Label: "No", Type: EdgeNo},
			{ID: "e7-8", Source: "7", Target: "8", Label: "Next", Type: EdgeNext},
			{ID: "e8-9", Source: "8", Target: "9", Label: "Next", Type: EdgeNext},
		},
	}
	return g
}
