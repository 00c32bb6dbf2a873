package model

type Report struct {
	ID                       string `gorm:"column:id;primaryKey"`
	Title                    string `gorm:"column:title;type:text;not null"`
	Type                     string `gorm:"column:type;type:text;not null"`
	Status                   string `gorm:"column:status;type:text;not null;index"`
	CreatedBy                string `gorm:"column:created_by;type:text;not null"`
	CreatedAt                string `gorm:"column:created_at;type:text;not null"`
	ModifiedAt               string `gorm:"column:modified_at;type:text;not null"`
	LinkedInvestigationsJSON string `gorm:"column:linked_investigations_json;type:text;not null"`
	ApprovalFlowJSON         string `gorm:"column:approval_flow_json;type:text;not null"`
	Content                  string `gorm:"column:content;type:text;not null"`
}

func (Report) TableName() string {
	return "reports"
}
