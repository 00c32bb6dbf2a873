package model

type Investigation struct {
	ID          string `gorm:"column:id;primaryKey"`
	DeviationID string `gorm:"column:deviation_id;type:text;not null;index"`
	Title       string `gorm:"column:title;type:text;not null"`
	Status      string `gorm:"column:status;type:text;not null;index"`
	Priority    string `gorm:"column:priority;type:text;not null"`
	AssignedTo  string `gorm:"column:assigned_to;type:text;not null"`
	CreatedBy   string `gorm:"column:created_by;type:text;not null"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string `gorm:"column:updated_at;type:text;not null"`
	DueDate     string `gorm:"column:due_date;type:text;not null"`
	CurrentStep string `gorm:"column:current_step;type:text;not null"`
	Completion  int    `gorm:"column:completion;not null;default:0"`
}

func (Investigation) TableName() string {
	return "investigations"
}
