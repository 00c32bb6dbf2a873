package ports

import (
	"context"

	"labqms/internal/domain/quality"
)

// QualityRepository persists the investigation aggregate and its documents.
// Collections come back unfiltered in stable id order; filtering is a pure
// domain concern applied by the usecases.
//
// Update operations fail with quality.NotFoundError when the id is absent —
// the silent no-op of the reference dashboard is deliberately not kept.
type QualityRepository interface {
	ListInvestigations(ctx context.Context) ([]quality.Investigation, error)
	GetInvestigation(ctx context.Context, id string) (quality.Investigation, error)
	CreateInvestigation(ctx context.Context, inv quality.Investigation) error
	UpdateInvestigation(ctx context.Context, inv quality.Investigation) error
	ReplaceInvestigations(ctx context.Context, items []quality.Investigation) error

	GetDeviation(ctx context.Context, id string) (quality.Deviation, error)
	CreateDeviation(ctx context.Context, dev quality.Deviation) error

	GetRCA(ctx context.Context, investigationID string) (quality.RootCauseAnalysis, error)
	SaveRCA(ctx context.Context, rca quality.RootCauseAnalysis) error

	GetCAPA(ctx context.Context, investigationID string) (quality.CAPA, error)
	SaveCAPA(ctx context.Context, capa quality.CAPA) error

	ListSOPs(ctx context.Context) ([]quality.SOPDocument, error)
	GetSOP(ctx context.Context, id string) (quality.SOPDocument, error)
	SaveSOP(ctx context.Context, sop quality.SOPDocument) error

	ListReports(ctx context.Context) ([]quality.Report, error)
	GetReport(ctx context.Context, id string) (quality.Report, error)
	SaveReport(ctx context.Context, report quality.Report) error
}

// AuditLog is the append-only audit boundary every mutating operation writes
// through. Entries are never updated or deleted.
type AuditLog interface {
	Append(ctx context.Context, entry quality.AuditEntry) error
	// List returns entries newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]quality.AuditEntry, error)
}
