package model

type Deviation struct {
	ID               string `gorm:"column:id;primaryKey"`
	SampleID         string `gorm:"column:sample_id;type:text;not null"`
	TestID           string `gorm:"column:test_id;type:text;not null"`
	InstrumentID     string `gorm:"column:instrument_id;type:text;not null"`
	AnalystID        string `gorm:"column:analyst_id;type:text;not null"`
	OccurredAt       string `gorm:"column:occurred_at;type:text;not null"`
	DeviationType    string `gorm:"column:deviation_type;type:text;not null"`
	Description      string `gorm:"column:description;type:text;not null"`
	Severity         string `gorm:"column:severity;type:text;not null"`
	CustomerImpact   bool   `gorm:"column:customer_impact;not null;default:0"`
	RegulatoryImpact bool   `gorm:"column:regulatory_impact;not null;default:0"`
	RelatedSOPsJSON  string `gorm:"column:related_sops_json;type:text;not null"`
	AttachmentsJSON  string `gorm:"column:attachments_json;type:text;not null"`
}

func (Deviation) TableName() string {
	return "deviations"
}
