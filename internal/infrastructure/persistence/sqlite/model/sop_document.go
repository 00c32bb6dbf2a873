package model

type SOPDocument struct {
	ID                       string `gorm:"column:id;primaryKey"`
	Title                    string `gorm:"column:title;type:text;not null"`
	Version                  string `gorm:"column:version;type:text;not null"`
	Status                   string `gorm:"column:status;type:text;not null;index"`
	Category                 string `gorm:"column:category;type:text;not null"`
	LastModified             string `gorm:"column:last_modified;type:text;not null"`
	ModifiedBy               string `gorm:"column:modified_by;type:text;not null"`
	ApprovedBy               string `gorm:"column:approved_by;type:text;not null"`
	ApprovalDate             string `gorm:"column:approval_date;type:text;not null"`
	NextReview               string `gorm:"column:next_review;type:text;not null"`
	ChangeReason             string `gorm:"column:change_reason;type:text;not null"`
	LinkedInvestigationsJSON string `gorm:"column:linked_investigations_json;type:text;not null"`
	ApprovalFlowJSON         string `gorm:"column:approval_flow_json;type:text;not null"`
	HistoryJSON              string `gorm:"column:history_json;type:text;not null"`
}

func (SOPDocument) TableName() string {
	return "sop_documents"
}
