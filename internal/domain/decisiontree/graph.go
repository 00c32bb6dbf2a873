// Package decisiontree models the MHRA-style investigation decision graph.
// The graph is a visualization aid for the dashboard, not an execution
// engine: mutations are local and well-formedness (cycles, unreachable
// nodes) is deliberately not enforced.
package decisiontree

import (
	"fmt"

	"labqms/internal/domain/quality"
)

type NodeType string

const (
	NodeDecision NodeType = "decision"
	NodeAction   NodeType = "action"
	NodeEnd      NodeType = "end"
)

type NodeStatus string

const (
	NodePending   NodeStatus = "pending"
	NodeCurrent   NodeStatus = "current"
	NodeCompleted NodeStatus = "completed"
)

type EdgeType string

const (
	EdgeYes  EdgeType = "yes"
	EdgeNo   EdgeType = "no"
	EdgeNext EdgeType = "next"
)

type ChecklistEntry struct {
	ID      string
	Text    string
	Checked bool
}

type Node struct {
	ID           string
	Label        string
	Type         NodeType
	Status       NodeStatus
	Question     string
	Description  string
	Requirements []string
	Checklist    []ChecklistEntry
}

type Edge struct {
	ID     string
	Source string
	Target string
	Label  string
	Type   EdgeType
}

type Graph struct {
	Nodes []Node
	Edges []Edge
}

func (g *Graph) node(id string) (int, bool) {
	for i, n := range g.Nodes {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

// AddNode appends a node. Duplicate ids are rejected; everything else,
// including disconnected nodes, is allowed.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return quality.ValidationError{Field: "id"}
	}
	if _, ok := g.node(n.ID); ok {
		return quality.ValidationError{Field: "id", Reason: fmt.Sprintf("node %q already exists", n.ID)}
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// Connect appends an edge between two existing nodes. Cycles are permitted.
func (g *Graph) Connect(e Edge) error {
	if _, ok := g.node(e.Source); !ok {
		return quality.NotFoundError{Kind: "node", ID: e.Source}
	}
	if _, ok := g.node(e.Target); !ok {
		return quality.NotFoundError{Kind: "node", ID: e.Target}
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// SetStatus moves a node between pending, current and completed.
func (g *Graph) SetStatus(nodeID string, status NodeStatus) error {
	idx, ok := g.node(nodeID)
	if !ok {
		return quality.NotFoundError{Kind: "node", ID: nodeID}
	}
	g.Nodes[idx].Status = status
	return nil
}

// ToggleChecklistItem flips one checklist entry of a node.
func (g *Graph) ToggleChecklistItem(nodeID, entryID string) error {
	idx, ok := g.node(nodeID)
	if !ok {
		return quality.NotFoundError{Kind: "node", ID: nodeID}
	}
	for i, entry := range g.Nodes[idx].Checklist {
		if entry.ID == entryID {
			g.Nodes[idx].Checklist[i].Checked = !entry.Checked
			return nil
		}
	}
	return quality.NotFoundError{Kind: "checklist entry", ID: entryID}
}

// Validate reports advisory warnings. Exactly one node should be current;
// zero or several is a data smell the caller may surface, never a failure.
func (g *Graph) Validate() []string {
	var warnings []string

	current := 0
	for _, n := range g.Nodes {
		if n.Status == NodeCurrent {
			current++
		}
	}
	switch {
	case current == 0 && len(g.Nodes) > 0:
		warnings = append(warnings, "no node is marked current")
	case current > 1:
		warnings = append(warnings, fmt.Sprintf("%d nodes are marked current, expected one", current))
	}

	return warnings
}
