package docs

import (
	"context"
	"errors"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/ports"
	"labqms/internal/usecase/audit"
)

// Service manages the controlled documents: SOPs with their version history
// and investigation reports generated from live data.
type Service struct {
	repo     ports.QualityRepository
	uow      ports.UnitOfWork
	recorder *audit.Recorder
}

func NewService(repo ports.QualityRepository, uow ports.UnitOfWork, recorder *audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		uow:      uow,
		recorder: recorder,
	}
}

func (s *Service) GetSOP(ctx context.Context, id string) (quality.SOPDocument, error) {
	if ctx == nil {
		return quality.SOPDocument{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.SOPDocument{}, errs.Wrap(err, "check context")
	}
	return s.repo.GetSOP(ctx, id)
}

func (s *Service) GetReport(ctx context.Context, id string) (quality.Report, error) {
	if ctx == nil {
		return quality.Report{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return quality.Report{}, errs.Wrap(err, "check context")
	}
	return s.repo.GetReport(ctx, id)
}
