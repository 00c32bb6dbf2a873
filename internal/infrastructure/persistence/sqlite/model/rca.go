package model

type RCA struct {
	ID                      string `gorm:"column:id;primaryKey"`
	InvestigationID         string `gorm:"column:investigation_id;type:text;not null;uniqueIndex"`
	ChecklistJSON           string `gorm:"column:checklist_json;type:text;not null"`
	SuggestionsJSON         string `gorm:"column:suggestions_json;type:text;not null"`
	ManualAnalysis          string `gorm:"column:manual_analysis;type:text;not null"`
	RootCause               string `gorm:"column:root_cause;type:text;not null"`
	ContributingFactorsJSON string `gorm:"column:contributing_factors_json;type:text;not null"`
	EvidenceJSON            string `gorm:"column:evidence_json;type:text;not null"`
}

func (RCA) TableName() string {
	return "rcas"
}
