package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"labqms/internal/usecase/audit"
	"labqms/internal/usecase/docs"
	"labqms/internal/usecase/investigation"
)

// Server exposes the quality services over a JSON API. It holds no state of
// its own; every request goes straight to the usecases.
type Server struct {
	investigations *investigation.Service
	docs           *docs.Service
	audit          *audit.Service
}

func NewServer(investigations *investigation.Service, docsService *docs.Service, auditService *audit.Service) *Server {
	return &Server{
		investigations: investigations,
		docs:           docsService,
		audit:          auditService,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/investigations", func(r chi.Router) {
			r.Get("/", s.handleListInvestigations)
			r.Post("/", s.handleCreateInvestigation)
			r.Get("/stats", s.handleStats)
			r.Get("/trends", s.handleTrendAnalysis)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetInvestigation)
				r.Post("/status", s.handleUpdateStatus)
				r.Post("/assignee", s.handleAssign)
				r.Post("/attachments", s.handleUploadAttachment)

				r.Route("/rca", func(r chi.Router) {
					r.Post("/checklist/{itemID}", s.handleAnswerChecklistItem)
					r.Post("/root-cause", s.handleSetRootCause)
					r.Post("/factors", s.handleAddFactor)
					r.Delete("/factors", s.handleRemoveFactor)
					r.Post("/suggestions/{suggestionID}/toggle", s.handleToggleSuggestion)
					r.Post("/complete", s.handleCompleteRCA)
				})

				r.Route("/capa", func(r chi.Router) {
					r.Post("/actions", s.handleAddAction)
					r.Post("/actions/{actionID}/status", s.handleUpdateActionStatus)
					r.Post("/actions/{actionID}/evidence", s.handleAttachEvidence)
				})

				r.Get("/approvals", s.handleApprovalFlow)
				r.Post("/approvals/{stepID}", s.handleDecideApproval)
			})
		})

		r.Route("/sops", func(r chi.Router) {
			r.Get("/", s.handleListSOPs)
			r.Post("/", s.handleCreateSOP)
			r.Get("/due-review", s.handleDueForReview)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSOP)
				r.Post("/revise", s.handleReviseSOP)
				r.Post("/submit", s.handleSubmitSOP)
				r.Post("/steps/{stepID}", s.handleDecideSOPStep)
				r.Post("/obsolete", s.handleObsoleteSOP)
				r.Post("/link", s.handleLinkInvestigation)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Post("/investigation", s.handleGenerateReport)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetReport)
				r.Post("/submit", s.handleSubmitReport)
				r.Post("/steps/{stepID}", s.handleDecideReportStep)
				r.Post("/publish", s.handlePublishReport)
				r.Get("/export", s.handleExportReport)
			})
		})

		r.Get("/decision-tree", s.handleDecisionTree)

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", s.handleListAudit)
			r.Get("/export", s.handleExportAudit)
		})
	})

	return r
}
