package model

type CAPA struct {
	ID                    string `gorm:"column:id;primaryKey"`
	InvestigationID       string `gorm:"column:investigation_id;type:text;not null;uniqueIndex"`
	CorrectiveActionsJSON string `gorm:"column:corrective_actions_json;type:text;not null"`
	PreventiveActionsJSON string `gorm:"column:preventive_actions_json;type:text;not null"`
	ApprovalFlowJSON      string `gorm:"column:approval_flow_json;type:text;not null"`
}

func (CAPA) TableName() string {
	return "capas"
}
