package investigation

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"labqms/internal/bootstrap/logging"
	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
)

// DeviationInput is the intake form for the triggering deviation.
type DeviationInput struct {
	SampleID         string
	TestID           string
	InstrumentID     string
	AnalystID        string
	OccurredAt       string
	DeviationType    string
	Description      string
	Severity         string
	CustomerImpact   bool
	RegulatoryImpact bool
	RelatedSOPs      []string
}

type CreateInput struct {
	Title      string
	Priority   string
	AssignedTo string
	CreatedBy  string
	DueDate    string
	Deviation  DeviationInput
}

// Create opens a new investigation from a deviation. The deviation record,
// the investigation shell, a fresh RCA checklist and an empty CAPA with the
// policy's approval chain are written in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	if err := validateDeviationInput(input.Deviation); err != nil {
		return Detail{}, err
	}
	severity, err := quality.ParsePriority(input.Deviation.Severity)
	if err != nil {
		return Detail{}, err
	}
	priority := severity
	if strings.TrimSpace(input.Priority) != "" {
		priority, err = quality.ParsePriority(input.Priority)
		if err != nil {
			return Detail{}, err
		}
	}

	existing, err := s.repo.ListInvestigations(ctx)
	if err != nil {
		return Detail{}, errs.Wrap(err, "count investigations")
	}

	now := nowUTC()
	invID := serialID("INV", len(existing))
	devID := serialID("DEV", len(existing))

	dev := quality.Deviation{
		ID:               devID,
		SampleID:         strings.TrimSpace(input.Deviation.SampleID),
		TestID:           strings.TrimSpace(input.Deviation.TestID),
		InstrumentID:     strings.TrimSpace(input.Deviation.InstrumentID),
		AnalystID:        strings.TrimSpace(input.Deviation.AnalystID),
		OccurredAt:       input.Deviation.OccurredAt,
		DeviationType:    strings.TrimSpace(input.Deviation.DeviationType),
		Description:      strings.TrimSpace(input.Deviation.Description),
		Severity:         severity,
		CustomerImpact:   input.Deviation.CustomerImpact,
		RegulatoryImpact: input.Deviation.RegulatoryImpact,
		RelatedSOPs:      input.Deviation.RelatedSOPs,
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = dev.DeviationType + " - " + dev.SampleID
	}

	inv := quality.Investigation{
		ID:                   invID,
		DeviationID:          devID,
		Title:                title,
		Status:               quality.StatusInitiated,
		Priority:             priority,
		AssignedTo:           strings.TrimSpace(input.AssignedTo),
		CreatedBy:            strings.TrimSpace(input.CreatedBy),
		CreatedAt:            now,
		UpdatedAt:            now,
		DueDate:              input.DueDate,
		CurrentStep:          stepLabel(quality.StatusInitiated),
		CompletionPercentage: 0,
	}

	rca := quality.RootCauseAnalysis{
		ID:              "RCA-" + invID,
		InvestigationID: invID,
		Checklist:       quality.NewRCAChecklist(),
		Suggestions:     quality.SuggestRootCauses(dev.DeviationType, dev.Description),
	}

	capa := quality.CAPA{
		ID:              "CAPA-" + invID,
		InvestigationID: invID,
		ApprovalFlow:    newApprovalFlow(s.Policy().ApprovalRoles),
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateDeviation(txCtx, dev); err != nil {
			return errs.Wrap(err, "create deviation")
		}
		if err := s.repo.CreateInvestigation(txCtx, inv); err != nil {
			return errs.Wrap(err, "create investigation")
		}
		if err := s.repo.SaveRCA(txCtx, rca); err != nil {
			return errs.Wrap(err, "create rca")
		}
		if err := s.repo.SaveCAPA(txCtx, capa); err != nil {
			return errs.Wrap(err, "create capa")
		}
		return s.recorder.Record(txCtx, audit.Event{
			Action:      quality.AuditCreate,
			Module:      "Investigation",
			RecordID:    invID,
			RecordType:  "Investigation",
			Description: "Created investigation for deviation " + devID + " (" + dev.DeviationType + ")",
		})
	})
	if err != nil {
		return Detail{}, err
	}

	s.invalidateStats(ctx)
	logging.Info(logging.WithAttrs(ctx, slog.String("component", "usecase.investigation")),
		"investigation created",
		slog.String("investigation_id", invID),
		slog.String("deviation_id", devID),
	)

	return Detail{Investigation: inv, Deviation: dev, RCA: rca, CAPA: capa}, nil
}

func validateDeviationInput(input DeviationInput) error {
	if strings.TrimSpace(input.DeviationType) == "" {
		return quality.ValidationError{Field: "deviationType", Reason: "required"}
	}
	if strings.TrimSpace(input.SampleID) == "" {
		return quality.ValidationError{Field: "sampleId", Reason: "required"}
	}
	if strings.TrimSpace(input.AnalystID) == "" {
		return quality.ValidationError{Field: "analystId", Reason: "required"}
	}
	if strings.TrimSpace(input.Severity) == "" {
		return quality.ValidationError{Field: "severity", Reason: "required"}
	}
	if strings.TrimSpace(input.OccurredAt) == "" {
		return quality.ValidationError{Field: "occurredAt", Reason: "required"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return quality.ValidationError{Field: "description", Reason: "required"}
	}
	return nil
}

// newApprovalFlow builds pending steps from the policy's role chain.
func newApprovalFlow(roles []string) []quality.ApprovalStep {
	flow := make([]quality.ApprovalStep, 0, len(roles))
	for i, role := range roles {
		flow = append(flow, quality.ApprovalStep{
			ID:     strconv.Itoa(i + 1),
			Role:   role,
			Status: quality.ApprovalPending,
		})
	}
	return flow
}
