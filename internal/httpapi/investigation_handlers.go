package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"labqms/internal/usecase/investigation"
)

func (s *Server) handleListInvestigations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.investigations.List(r.Context(), investigation.Filter{
		Query:    q.Get("query"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

type createInvestigationRequest struct {
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo"`
	CreatedBy  string `json:"createdBy"`
	DueDate    string `json:"dueDate"`
	Deviation  struct {
		SampleID         string   `json:"sampleId"`
		TestID           string   `json:"testId"`
		InstrumentID     string   `json:"instrumentId"`
		AnalystID        string   `json:"analystId"`
		OccurredAt       string   `json:"occurredAt"`
		DeviationType    string   `json:"deviationType"`
		Description      string   `json:"description"`
		Severity         string   `json:"severity"`
		CustomerImpact   bool     `json:"customerImpact"`
		RegulatoryImpact bool     `json:"regulatoryImpact"`
		RelatedSOPs      []string `json:"relatedSops"`
	} `json:"deviation"`
}

func (s *Server) handleCreateInvestigation(w http.ResponseWriter, r *http.Request) {
	var req createInvestigationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := s.investigations.Create(r.Context(), investigation.CreateInput{
		Title:      req.Title,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		CreatedBy:  req.CreatedBy,
		DueDate:    req.DueDate,
		Deviation: investigation.DeviationInput{
			SampleID:         req.Deviation.SampleID,
			TestID:           req.Deviation.TestID,
			InstrumentID:     req.Deviation.InstrumentID,
			AnalystID:        req.Deviation.AnalystID,
			OccurredAt:       req.Deviation.OccurredAt,
			DeviationType:    req.Deviation.DeviationType,
			Description:      req.Deviation.Description,
			Severity:         req.Deviation.Severity,
			CustomerImpact:   req.Deviation.CustomerImpact,
			RegulatoryImpact: req.Deviation.RegulatoryImpact,
			RelatedSOPs:      req.Deviation.RelatedSOPs,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleGetInvestigation(w http.ResponseWriter, r *http.Request) {
	detail, err := s.investigations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.investigations.DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := s.investigations.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignedTo string `json:"assignedTo"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := s.investigations.Assign(r.Context(), chi.URLParam(r, "id"), req.AssignedTo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleAnswerChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Response bool   `json:"response"`
		Comments string `json:"comments"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rca, err := s.investigations.AnswerChecklistItem(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Response, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rca)
}

func (s *Server) handleSetRootCause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RootCause      string `json:"rootCause"`
		ManualAnalysis string `json:"manualAnalysis"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rca, err := s.investigations.SetRootCause(r.Context(), chi.URLParam(r, "id"), req.RootCause, req.ManualAnalysis)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rca)
}

func (s *Server) handleAddFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Factor string `json:"factor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rca, err := s.investigations.AddContributingFactor(r.Context(), chi.URLParam(r, "id"), req.Factor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rca)
}

func (s *Server) handleRemoveFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Factor string `json:"factor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rca, err := s.investigations.RemoveContributingFactor(r.Context(), chi.URLParam(r, "id"), req.Factor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rca)
}

func (s *Server) handleToggleSuggestion(w http.ResponseWriter, r *http.Request) {
	rca, err := s.investigations.ToggleSuggestion(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "suggestionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rca)
}

func (s *Server) handleCompleteRCA(w http.ResponseWriter, r *http.Request) {
	inv, err := s.investigations.CompleteRCA(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleAddAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind        string   `json:"kind"`
		Description string   `json:"description"`
		AssignedTo  string   `json:"assignedTo"`
		DueDate     string   `json:"dueDate"`
		Priority    string   `json:"priority"`
		Resources   []string `json:"resources"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	capa, err := s.investigations.AddAction(r.Context(), chi.URLParam(r, "id"), investigation.ActionInput{
		Kind:        req.Kind,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Resources:   req.Resources,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, capa)
}

func (s *Server) handleUpdateActionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	capa, err := s.investigations.UpdateActionStatus(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "actionID"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, capa)
}

func (s *Server) handleAttachEvidence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Evidence []string `json:"evidence"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	capa, err := s.investigations.AttachActionEvidence(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "actionID"), req.Evidence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, capa)
}

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.investigations.UploadAttachment(r.Context(), chi.URLParam(r, "id"), req.Filename); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleTrendAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.investigations.TrendAnalysis(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleApprovalFlow(w http.ResponseWriter, r *http.Request) {
	state, err := s.investigations.ApprovalFlow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDecideApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Approver string `json:"approver"`
		Comments string `json:"comments"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	capa, err := s.investigations.DecideApproval(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "stepID"), req.Decision, req.Approver, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, capa)
}
