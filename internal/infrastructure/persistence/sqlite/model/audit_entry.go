package model

// AuditEntry rows are written once and never updated or deleted.
type AuditEntry struct {
	ID          string `gorm:"column:id;primaryKey"`
	Timestamp   string `gorm:"column:timestamp;type:text;not null;index"`
	UserID      string `gorm:"column:user_id;type:text;not null;index"`
	UserRole    string `gorm:"column:user_role;type:text;not null"`
	UserName    string `gorm:"column:user_name;type:text;not null"`
	Action      string `gorm:"column:action;type:text;not null;index"`
	Module      string `gorm:"column:module;type:text;not null;index"`
	RecordID    string `gorm:"column:record_id;type:text;not null"`
	RecordType  string `gorm:"column:record_type;type:text;not null"`
	ChangesJSON string `gorm:"column:changes_json;type:text;not null"`
	IPAddress   string `gorm:"column:ip_address;type:text;not null"`
	SessionID   string `gorm:"column:session_id;type:text;not null"`
	Description string `gorm:"column:description;type:text;not null"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
