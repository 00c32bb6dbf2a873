package httpapi

import (
	"net/http"

	"labqms/internal/domain/decisiontree"
)

// handleDecisionTree serves the investigation decision graph template the
// dashboard renders. Progress through the graph lives client-side.
func (s *Server) handleDecisionTree(w http.ResponseWriter, r *http.Request) {
	graph := decisiontree.MHRAGraph()
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":    graph.Nodes,
		"edges":    graph.Edges,
		"warnings": graph.Validate(),
	})
}
