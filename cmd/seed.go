/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"labqms/internal/bootstrap"
	"labqms/internal/bootstrap/logging"
	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	sqliterepo "labqms/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "labqms/internal/infrastructure/persistence/sqlite/uow"
)

var seedFile string

type seedDeviation struct {
	ID               string   `yaml:"id"`
	SampleID         string   `yaml:"sampleId"`
	TestID           string   `yaml:"testId"`
	InstrumentID     string   `yaml:"instrumentId"`
	AnalystID        string   `yaml:"analystId"`
	OccurredAt       string   `yaml:"occurredAt"`
	DeviationType    string   `yaml:"deviationType"`
	Description      string   `yaml:"description"`
	Severity         string   `yaml:"severity"`
	CustomerImpact   bool     `yaml:"customerImpact"`
	RegulatoryImpact bool     `yaml:"regulatoryImpact"`
	RelatedSOPs      []string `yaml:"relatedSops"`
}

type seedAction struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	AssignedTo  string   `yaml:"assignedTo"`
	DueDate     string   `yaml:"dueDate"`
	Status      string   `yaml:"status"`
	Priority    string   `yaml:"priority"`
	Resources   []string `yaml:"resources"`
}

type seedApprovalStep struct {
	ID       string `yaml:"id"`
	Role     string `yaml:"role"`
	Approver string `yaml:"approver"`
	Status   string `yaml:"status"`
}

type seedRCA struct {
	RootCause           string          `yaml:"rootCause"`
	ManualAnalysis      string          `yaml:"manualAnalysis"`
	ContributingFactors []string        `yaml:"contributingFactors"`
	Answers             map[string]bool `yaml:"answers"`
}

type seedInvestigation struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Status      string        `yaml:"status"`
	Priority    string        `yaml:"priority"`
	AssignedTo  string        `yaml:"assignedTo"`
	CreatedBy   string        `yaml:"createdBy"`
	CreatedAt   string        `yaml:"createdAt"`
	UpdatedAt   string        `yaml:"updatedAt"`
	DueDate     string        `yaml:"dueDate"`
	CurrentStep string        `yaml:"currentStep"`
	Deviation   seedDeviation `yaml:"deviation"`
	RCA         seedRCA       `yaml:"rca"`
	CAPA        struct {
		Corrective   []seedAction       `yaml:"corrective"`
		Preventive   []seedAction       `yaml:"preventive"`
		ApprovalFlow []seedApprovalStep `yaml:"approvalFlow"`
	} `yaml:"capa"`
}

type seedSOP struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Version      string `yaml:"version"`
	Status       string `yaml:"status"`
	Category     string `yaml:"category"`
	LastModified string `yaml:"lastModified"`
	ModifiedBy   string `yaml:"modifiedBy"`
	ApprovedBy   string `yaml:"approvedBy"`
	ApprovalDate string `yaml:"approvalDate"`
	NextReview   string `yaml:"nextReview"`
}

type seedFixture struct {
	Investigations []seedInvestigation `yaml:"investigations"`
	SOPs           []seedSOP           `yaml:"sops"`
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture data into the database",
	Long:  "Replaces the investigation collection with the fixture file contents. Intended for demo and development databases.",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return errs.Wrap(err, "read seed file")
		}
		var fixture seedFixture
		if err := yaml.Unmarshal(raw, &fixture); err != nil {
			return errs.Wrap(err, "parse seed file")
		}

		repo := sqliterepo.NewQualityRepository(app.DB)
		uow := sqliteuow.NewUnitOfWork(app.DB)

		err = uow.WithTx(ctx, func(txCtx context.Context) error {
			investigations := make([]quality.Investigation, 0, len(fixture.Investigations))
			for _, entry := range fixture.Investigations {
				inv, dev, rca, capa, err := buildSeedInvestigation(entry)
				if err != nil {
					return errs.Wrapf(err, "seed investigation %s", entry.ID)
				}
				investigations = append(investigations, inv)
				if err := repo.CreateDeviation(txCtx, dev); err != nil {
					return errs.Wrap(err, "seed deviation")
				}
				if err := repo.SaveRCA(txCtx, rca); err != nil {
					return errs.Wrap(err, "seed rca")
				}
				if err := repo.SaveCAPA(txCtx, capa); err != nil {
					return errs.Wrap(err, "seed capa")
				}
			}
			if err := repo.ReplaceInvestigations(txCtx, investigations); err != nil {
				return errs.Wrap(err, "seed investigations")
			}

			for _, entry := range fixture.SOPs {
				sop, err := buildSeedSOP(entry)
				if err != nil {
					return errs.Wrapf(err, "seed sop %s", entry.ID)
				}
				if err := repo.SaveSOP(txCtx, sop); err != nil {
					return errs.Wrap(err, "seed sop")
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		logging.Info(ctx, "seed finished",
			slog.Int("investigations", len(fixture.Investigations)),
			slog.Int("sops", len(fixture.SOPs)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seeded %d investigations, %d sops from %s\n",
			len(fixture.Investigations), len(fixture.SOPs), seedFile); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func buildSeedInvestigation(entry seedInvestigation) (quality.Investigation, quality.Deviation, quality.RootCauseAnalysis, quality.CAPA, error) {
	status, err := quality.ParseInvestigationStatus(entry.Status)
	if err != nil {
		return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
	}
	priority, err := quality.ParsePriority(entry.Priority)
	if err != nil {
		return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
	}
	severity, err := quality.ParsePriority(entry.Deviation.Severity)
	if err != nil {
		return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
	}

	currentStep := entry.CurrentStep
	if currentStep == "" {
		currentStep = status.Label()
	}
	inv := quality.Investigation{
		ID:                   entry.ID,
		DeviationID:          entry.Deviation.ID,
		Title:                entry.Title,
		Status:               status,
		Priority:             priority,
		AssignedTo:           entry.AssignedTo,
		CreatedBy:            entry.CreatedBy,
		CreatedAt:            entry.CreatedAt,
		UpdatedAt:            entry.UpdatedAt,
		DueDate:              entry.DueDate,
		CurrentStep:          currentStep,
		CompletionPercentage: status.CompletionFloor(),
	}

	dev := quality.Deviation{
		ID:               entry.Deviation.ID,
		SampleID:         entry.Deviation.SampleID,
		TestID:           entry.Deviation.TestID,
		InstrumentID:     entry.Deviation.InstrumentID,
		AnalystID:        entry.Deviation.AnalystID,
		OccurredAt:       entry.Deviation.OccurredAt,
		DeviationType:    entry.Deviation.DeviationType,
		Description:      entry.Deviation.Description,
		Severity:         severity,
		CustomerImpact:   entry.Deviation.CustomerImpact,
		RegulatoryImpact: entry.Deviation.RegulatoryImpact,
		RelatedSOPs:      entry.Deviation.RelatedSOPs,
	}

	rca := quality.RootCauseAnalysis{
		ID:                  "RCA-" + entry.ID,
		InvestigationID:     entry.ID,
		Checklist:           quality.NewRCAChecklist(),
		Suggestions:         quality.SuggestRootCauses(dev.DeviationType, dev.Description),
		ManualAnalysis:      entry.RCA.ManualAnalysis,
		RootCause:           entry.RCA.RootCause,
		ContributingFactors: entry.RCA.ContributingFactors,
	}
	for i := range rca.Checklist {
		if answer, ok := entry.RCA.Answers[rca.Checklist[i].ID]; ok {
			value := answer
			rca.Checklist[i].Response = &value
		}
	}

	capa := quality.CAPA{
		ID:              "CAPA-" + entry.ID,
		InvestigationID: entry.ID,
	}
	capa.CorrectiveActions, err = buildSeedActions(entry.CAPA.Corrective, quality.ActionCorrective)
	if err != nil {
		return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
	}
	capa.PreventiveActions, err = buildSeedActions(entry.CAPA.Preventive, quality.ActionPreventive)
	if err != nil {
		return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
	}
	for _, step := range entry.CAPA.ApprovalFlow {
		stepStatus, err := quality.ParseApprovalStatus(step.Status)
		if err != nil {
			return quality.Investigation{}, quality.Deviation{}, quality.RootCauseAnalysis{}, quality.CAPA{}, err
		}
		capa.ApprovalFlow = append(capa.ApprovalFlow, quality.ApprovalStep{
			ID:       step.ID,
			Role:     step.Role,
			Approver: step.Approver,
			Status:   stepStatus,
		})
	}

	return inv, dev, rca, capa, nil
}

func buildSeedActions(entries []seedAction, kind quality.ActionKind) ([]quality.Action, error) {
	actions := make([]quality.Action, 0, len(entries))
	for _, entry := range entries {
		status, err := quality.ParseActionStatus(entry.Status)
		if err != nil {
			return nil, err
		}
		priority, err := quality.ParsePriority(entry.Priority)
		if err != nil {
			return nil, err
		}
		actions = append(actions, quality.Action{
			ID:          entry.ID,
			Kind:        kind,
			Description: entry.Description,
			AssignedTo:  entry.AssignedTo,
			DueDate:     entry.DueDate,
			Status:      status,
			Priority:    priority,
			Resources:   entry.Resources,
		})
	}
	return actions, nil
}

func buildSeedSOP(entry seedSOP) (quality.SOPDocument, error) {
	status, err := quality.ParseSOPStatus(entry.Status)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	return quality.SOPDocument{
		ID:           entry.ID,
		Title:        entry.Title,
		Version:      entry.Version,
		Status:       status,
		Category:     entry.Category,
		LastModified: entry.LastModified,
		ModifiedBy:   entry.ModifiedBy,
		ApprovedBy:   entry.ApprovedBy,
		ApprovalDate: entry.ApprovalDate,
		NextReview:   entry.NextReview,
	}, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "configs/seed.yaml", "Seed fixture file")
}
