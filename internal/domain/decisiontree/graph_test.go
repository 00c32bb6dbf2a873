package decisiontree

import (
	"testing"

	"labqms/internal/domain/quality"
)

func TestAddNodeRejectsDuplicates(t *testing.T) {
	var g Graph
	if err := g.AddNode(Node{ID: "start", Type: NodeAction}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}

	err := g.AddNode(Node{ID: "start", Type: NodeDecision})
	if _, ok := err.(quality.ValidationError); !ok {
		t.Fatalf("duplicate node error = %v, want ValidationError", err)
	}
}

func TestConnectRequiresExistingNodes(t *testing.T) {
	var g Graph
	_ = g.AddNode(Node{ID: "a", Type: NodeAction})

	err := g.Connect(Edge{ID: "e1", Source: "a", Target: "missing"})
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("Connect() error = %v, want NotFoundError", err)
	}

	_ = g.AddNode(Node{ID: "b", Type: NodeAction})
	if err := g.Connect(Edge{ID: "e2", Source: "a", Target: "b", Type: EdgeNext}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	// Cycles are allowed.
	if err := g.Connect(Edge{ID: "e3", Source: "b", Target: "a", Type: EdgeNext}); err != nil {
		t.Fatalf("Connect() cycle error = %v", err)
	}
}

func TestToggleChecklistItem(t *testing.T) {
	var g Graph
	_ = g.AddNode(Node{
		ID:        "rca",
		Type:      NodeAction,
		Checklist: []ChecklistEntry{{ID: "1", Text: "Gather data"}},
	})

	if err := g.ToggleChecklistItem("rca", "1"); err != nil {
		t.Fatalf("ToggleChecklistItem() error = %v", err)
	}
	if !g.Nodes[0].Checklist[0].Checked {
		t.Fatalf("checklist entry not toggled on")
	}
	if err := g.ToggleChecklistItem("rca", "1"); err != nil {
		t.Fatalf("ToggleChecklistItem() error = %v", err)
	}
	if g.Nodes[0].Checklist[0].Checked {
		t.Fatalf("checklist entry not toggled off")
	}

	err := g.ToggleChecklistItem("rca", "missing")
	if _, ok := err.(quality.NotFoundError); !ok {
		t.Fatalf("missing entry error = %v, want NotFoundError", err)
	}
}

func TestValidateCurrentNodeWarnings(t *testing.T) {
	var g Graph
	_ = g.AddNode(Node{ID: "a", Status: NodePending})
	_ = g.AddNode(Node{ID: "b", Status: NodePending})

	if warnings := g.Validate(); len(warnings) != 1 {
		t.Fatalf("Validate() with no current node = %v", warnings)
	}

	_ = g.SetStatus("a", NodeCurrent)
	if warnings := g.Validate(); len(warnings) != 0 {
		t.Fatalf("Validate() with one current node = %v", warnings)
	}

	_ = g.SetStatus("b", NodeCurrent)
	if warnings := g.Validate(); len(warnings) != 1 {
		t.Fatalf("Validate() with two current nodes = %v", warnings)
	}
}

func TestMHRAGraphShape(t *testing.T) {
	g := MHRAGraph()

	if len(g.Nodes) != 9 {
		t.Fatalf("MHRAGraph() nodes = %d, want 9", len(g.Nodes))
	}
	if len(g.Edges) != 10 {
		t.Fatalf("MHRAGraph() edges = %d, want 10", len(g.Edges))
	}
	if warnings := g.Validate(); len(warnings) != 0 {
		t.Fatalf("MHRAGraph() warnings = %v", warnings)
	}

	for _, node := range g.Nodes {
		if len(node.Checklist) == 0 {
			t.Fatalf("node %s has no checklist", node.ID)
		}
	}
}
