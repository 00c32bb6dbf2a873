package httpapi

import (
	"net/http"
	"strconv"

	"labqms/internal/usecase/audit"
)

func auditFilterFromQuery(r *http.Request) audit.Filter {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return audit.Filter{
		Query:  q.Get("query"),
		Action: q.Get("action"),
		Module: q.Get("module"),
		UserID: q.Get("user"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  limit,
	}
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audit.List(r.Context(), auditFilterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries, "count": len(entries)})
}

func (s *Server) handleExportAudit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-trail.csv"`)
	if _, err := s.audit.ExportCSV(r.Context(), w, auditFilterFromQuery(r)); err != nil {
		writeError(w, r, err)
	}
}
