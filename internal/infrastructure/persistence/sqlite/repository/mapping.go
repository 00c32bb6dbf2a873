package repository

import (
	"encoding/json"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/infrastructure/persistence/sqlite/model"
)

// Nested collections (checklists, action lists, approval flows, change maps)
// are stored as JSON text columns; the aggregate is always read and written
// whole, so per-row tables would buy nothing here.

func marshalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errs.Wrap(err, "marshal json column")
	}
	return string(raw), nil
}

func unmarshalJSON[T any](raw string) (T, error) {
	var out T
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, errs.Wrap(err, "unmarshal json column")
	}
	return out, nil
}

func mapInvestigation(row model.Investigation) quality.Investigation {
	return quality.Investigation{
		ID:                   row.ID,
		DeviationID:          row.DeviationID,
		Title:                row.Title,
		Status:               quality.InvestigationStatus(row.Status),
		Priority:             quality.Priority(row.Priority),
		AssignedTo:           row.AssignedTo,
		CreatedBy:            row.CreatedBy,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
		DueDate:              row.DueDate,
		CurrentStep:          row.CurrentStep,
		CompletionPercentage: row.Completion,
	}
}

func toInvestigationRow(inv quality.Investigation) *model.Investigation {
	return &model.Investigation{
		ID:          inv.ID,
		DeviationID: inv.DeviationID,
		Title:       inv.Title,
		Status:      string(inv.Status),
		Priority:    string(inv.Priority),
		AssignedTo:  inv.AssignedTo,
		CreatedBy:   inv.CreatedBy,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
		DueDate:     inv.DueDate,
		CurrentStep: inv.CurrentStep,
		Completion:  inv.CompletionPercentage,
	}
}

func mapDeviation(row model.Deviation) (quality.Deviation, error) {
	relatedSOPs, err := unmarshalJSON[[]string](row.RelatedSOPsJSON)
	if err != nil {
		return quality.Deviation{}, err
	}
	attachments, err := unmarshalJSON[[]quality.Attachment](row.AttachmentsJSON)
	if err != nil {
		return quality.Deviation{}, err
	}

	return quality.Deviation{
		ID:               row.ID,
		SampleID:         row.SampleID,
		TestID:           row.TestID,
		InstrumentID:     row.InstrumentID,
		AnalystID:        row.AnalystID,
		OccurredAt:       row.OccurredAt,
		DeviationType:    row.DeviationType,
		Description:      row.Description,
		Severity:         quality.Priority(row.Severity),
		CustomerImpact:   row.CustomerImpact,
		RegulatoryImpact: row.RegulatoryImpact,
		RelatedSOPs:      relatedSOPs,
		Attachments:      attachments,
	}, nil
}

func toDeviationRow(dev quality.Deviation) (*model.Deviation, error) {
	relatedSOPs, err := marshalJSON(dev.RelatedSOPs)
	if err != nil {
		return nil, err
	}
	attachments, err := marshalJSON(dev.Attachments)
	if err != nil {
		return nil, err
	}

	return &model.Deviation{
		ID:               dev.ID,
		SampleID:         dev.SampleID,
		TestID:           dev.TestID,
		InstrumentID:     dev.InstrumentID,
		AnalystID:        dev.AnalystID,
		OccurredAt:       dev.OccurredAt,
		DeviationType:    dev.DeviationType,
		Description:      dev.Description,
		Severity:         string(dev.Severity),
		CustomerImpact:   dev.CustomerImpact,
		RegulatoryImpact: dev.RegulatoryImpact,
		RelatedSOPsJSON:  relatedSOPs,
		AttachmentsJSON:  attachments,
	}, nil
}

func mapRCA(row model.RCA) (quality.RootCauseAnalysis, error) {
	checklist, err := unmarshalJSON[[]quality.ChecklistItem](row.ChecklistJSON)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	suggestions, err := unmarshalJSON[[]quality.AISuggestion](row.SuggestionsJSON)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	factors, err := unmarshalJSON[[]string](row.ContributingFactorsJSON)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}
	evidence, err := unmarshalJSON[[]quality.Attachment](row.EvidenceJSON)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	return quality.RootCauseAnalysis{
		ID:                  row.ID,
		InvestigationID:     row.InvestigationID,
		Checklist:           checklist,
		Suggestions:         suggestions,
		ManualAnalysis:      row.ManualAnalysis,
		RootCause:           row.RootCause,
		ContributingFactors: factors,
		Evidence:            evidence,
	}, nil
}

func toRCARow(rca quality.RootCauseAnalysis) (*model.RCA, error) {
	checklist, err := marshalJSON(rca.Checklist)
	if err != nil {
		return nil, err
	}
	suggestions, err := marshalJSON(rca.Suggestions)
	if err != nil {
		return nil, err
	}
	factors, err := marshalJSON(rca.ContributingFactors)
	if err != nil {
		return nil, err
	}
	evidence, err := marshalJSON(rca.Evidence)
	if err != nil {
		return nil, err
	}

	return &model.RCA{
		ID:                      rca.ID,
		InvestigationID:         rca.InvestigationID,
		ChecklistJSON:           checklist,
		SuggestionsJSON:         suggestions,
		ManualAnalysis:          rca.ManualAnalysis,
		RootCause:               rca.RootCause,
		ContributingFactorsJSON: factors,
		EvidenceJSON:            evidence,
	}, nil
}

func mapCAPA(row model.CAPA) (quality.CAPA, error) {
	corrective, err := unmarshalJSON[[]quality.Action](row.CorrectiveActionsJSON)
	if err != nil {
		return quality.CAPA{}, err
	}
	preventive, err := unmarshalJSON[[]quality.Action](row.PreventiveActionsJSON)
	if err != nil {
		return quality.CAPA{}, err
	}
	flow, err := unmarshalJSON[[]quality.ApprovalStep](row.ApprovalFlowJSON)
	if err != nil {
		return quality.CAPA{}, err
	}

	return quality.CAPA{
		ID:                row.ID,
		InvestigationID:   row.InvestigationID,
		CorrectiveActions: corrective,
		PreventiveActions: preventive,
		ApprovalFlow:      flow,
	}, nil
}

func toCAPARow(capa quality.CAPA) (*model.CAPA, error) {
	corrective, err := marshalJSON(capa.CorrectiveActions)
	if err != nil {
		return nil, err
	}
	preventive, err := marshalJSON(capa.PreventiveActions)
	if err != nil {
		return nil, err
	}
	flow, err := marshalJSON(capa.ApprovalFlow)
	if err != nil {
		return nil, err
	}

	return &model.CAPA{
		ID:                    capa.ID,
		InvestigationID:       capa.InvestigationID,
		CorrectiveActionsJSON: corrective,
		PreventiveActionsJSON: preventive,
		ApprovalFlowJSON:      flow,
	}, nil
}

func mapSOP(row model.SOPDocument) (quality.SOPDocument, error) {
	linked, err := unmarshalJSON[[]string](row.LinkedInvestigationsJSON)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	flow, err := unmarshalJSON[[]quality.ApprovalStep](row.ApprovalFlowJSON)
	if err != nil {
		return quality.SOPDocument{}, err
	}
	history, err := unmarshalJSON[[]quality.SOPVersion](row.HistoryJSON)
	if err != nil {
		return quality.SOPDocument{}, err
	}

	return quality.SOPDocument{
		ID:                   row.ID,
		Title:                row.Title,
		Version:              row.Version,
		Status:               quality.SOPStatus(row.Status),
		Category:             row.Category,
		LastModified:         row.LastModified,
		ModifiedBy:           row.ModifiedBy,
		ApprovedBy:           row.ApprovedBy,
		ApprovalDate:         row.ApprovalDate,
		NextReview:           row.NextReview,
		ChangeReason:         row.ChangeReason,
		LinkedInvestigations: linked,
		ApprovalFlow:         flow,
		History:              history,
	}, nil
}

func toSOPRow(sop quality.SOPDocument) (*model.SOPDocument, error) {
	linked, err := marshalJSON(sop.LinkedInvestigations)
	if err != nil {
		return nil, err
	}
	flow, err := marshalJSON(sop.ApprovalFlow)
	if err != nil {
		return nil, err
	}
	history, err := marshalJSON(sop.History)
	if err != nil {
		return nil, err
	}

	return &model.SOPDocument{
		ID:                       sop.ID,
		Title:                    sop.Title,
		Version:                  sop.Version,
		Status:                   string(sop.Status),
		Category:                 sop.Category,
		LastModified:             sop.LastModified,
		ModifiedBy:               sop.ModifiedBy,
		ApprovedBy:               sop.ApprovedBy,
		ApprovalDate:             sop.ApprovalDate,
		NextReview:               sop.NextReview,
		ChangeReason:             sop.ChangeReason,
		LinkedInvestigationsJSON: linked,
		ApprovalFlowJSON:         flow,
		HistoryJSON:              history,
	}, nil
}

func mapReport(row model.Report) (quality.Report, error) {
	linked, err := unmarshalJSON[[]string](row.LinkedInvestigationsJSON)
	if err != nil {
		return quality.Report{}, err
	}
	flow, err := unmarshalJSON[[]quality.ApprovalStep](row.ApprovalFlowJSON)
	if err != nil {
		return quality.Report{}, err
	}

	return quality.Report{
		ID:                   row.ID,
		Title:                row.Title,
		Type:                 quality.ReportType(row.Type),
		Status:               quality.ReportStatus(row.Status),
		CreatedBy:            row.CreatedBy,
		CreatedAt:            row.CreatedAt,
		ModifiedAt:           row.ModifiedAt,
		LinkedInvestigations: linked,
		ApprovalFlow:         flow,
		Content:              row.Content,
	}, nil
}

func toReportRow(report quality.Report) (*model.Report, error) {
	linked, err := marshalJSON(report.LinkedInvestigations)
	if err != nil {
		return nil, err
	}
	flow, err := marshalJSON(report.ApprovalFlow)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		ID:                       report.ID,
		Title:                    report.Title,
		Type:                     string(report.Type),
		Status:                   string(report.Status),
		CreatedBy:                report.CreatedBy,
		CreatedAt:                report.CreatedAt,
		ModifiedAt:               report.ModifiedAt,
		LinkedInvestigationsJSON: linked,
		ApprovalFlowJSON:         flow,
		Content:                  report.Content,
	}, nil
}
