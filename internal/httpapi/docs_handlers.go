package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"labqms/internal/usecase/docs"
)

func (s *Server) handleListSOPs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.docs.ListSOPs(r.Context(), docs.SOPFilter{
		Query:    q.Get("query"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleCreateSOP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Author   string `json:"author"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sop, err := s.docs.CreateSOP(r.Context(), docs.SOPInput{
		Title:    req.Title,
		Category: req.Category,
		Author:   req.Author,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sop)
}

func (s *Server) handleGetSOP(w http.ResponseWriter, r *http.Request) {
	sop, err := s.docs.GetSOP(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleDueForReview(w http.ResponseWriter, r *http.Request) {
	items, err := s.docs.DueForReview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleReviseSOP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChangeReason string `json:"changeReason"`
		Author       string `json:"author"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sop, err := s.docs.ReviseSOP(r.Context(), chi.URLParam(r, "id"), req.ChangeReason, req.Author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleSubmitSOP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewRoles []string `json:"reviewRoles"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.ReviewRoles) == 0 {
		req.ReviewRoles = s.investigations.Policy().ApprovalRoles
	}

	sop, err := s.docs.SubmitForReview(r.Context(), chi.URLParam(r, "id"), req.ReviewRoles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleDecideSOPStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Approver string `json:"approver"`
		Comments string `json:"comments"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sop, err := s.docs.DecideSOPStep(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "stepID"), req.Decision, req.Approver, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleObsoleteSOP(w http.ResponseWriter, r *http.Request) {
	sop, err := s.docs.ObsoleteSOP(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleLinkInvestigation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvestigationID string `json:"investigationId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sop, err := s.docs.LinkInvestigation(r.Context(), chi.URLParam(r, "id"), req.InvestigationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sop)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.docs.ListReports(r.Context(), docs.ReportFilter{
		Query:  q.Get("query"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvestigationID string   `json:"investigationId"`
		Author          string   `json:"author"`
		ReviewRoles     []string `json:"reviewRoles"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.ReviewRoles) == 0 {
		req.ReviewRoles = s.investigations.Policy().ApprovalRoles
	}

	report, err := s.docs.GenerateInvestigationReport(r.Context(), req.InvestigationID, req.Author, req.ReviewRoles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.docs.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.docs.SubmitReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDecideReportStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Approver string `json:"approver"`
		Comments string `json:"comments"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := s.docs.DecideReportStep(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "stepID"), req.Decision, req.Approver, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePublishReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.docs.PublishReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.docs.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report.Content))
}
