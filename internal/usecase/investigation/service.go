package investigation

import (
	"fmt"
	"sync"
	"time"

	"labqms/internal/domain/quality"
	"labqms/internal/ports"
	"labqms/internal/usecase/audit"
)

// Service drives the investigation aggregate: deviation intake, lifecycle,
// root cause analysis, CAPA and approvals. Every mutation runs inside a unit
// of work together with its audit entry.
type Service struct {
	repo     ports.QualityRepository
	uow      ports.UnitOfWork
	cache    ports.Cache
	recorder *audit.Recorder

	mu     sync.RWMutex
	policy WorkflowPolicy
}

func NewService(repo ports.QualityRepository, uow ports.UnitOfWork, cache ports.Cache, recorder *audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		uow:      uow,
		cache:    cache,
		recorder: recorder,
		policy:   DefaultWorkflowPolicy(),
	}
}

// ApplyPolicy swaps the active workflow policy. Safe to call while requests
// are in flight; each operation snapshots the policy once.
func (s *Service) ApplyPolicy(policy WorkflowPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
}

func (s *Service) Policy() WorkflowPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// serialID builds ids like INV-2026-003 from a per-collection count.
func serialID(prefix string, count int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, time.Now().UTC().Format("2006"), count+1)
}

// stepLabel names the working step shown for a lifecycle status.
func stepLabel(status quality.InvestigationStatus) string {
	switch status {
	case quality.StatusInitiated:
		return "Initial Assessment"
	case quality.StatusInProgress:
		return "Data Collection"
	case quality.StatusRCAPending:
		return "Root Cause Analysis"
	case quality.StatusCAPAPending:
		return "CAPA Development"
	case quality.StatusApprovalPending:
		return "Final Approval"
	case quality.StatusCompleted:
		return "Completed"
	case quality.StatusClosed:
		return "Closed"
	}
	return status.Label()
}
