package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/infrastructure/persistence/sqlite/model"
	"labqms/internal/ports"
)

// AuditRepository writes audit entries once and reads them newest first.
// There is deliberately no update or delete path.
type AuditRepository struct {
	db *gorm.DB
}

var _ ports.AuditLog = (*AuditRepository)(nil)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *AuditRepository) Append(ctx context.Context, entry quality.AuditEntry) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if entry.ID == "" {
		return quality.ValidationError{Field: "id", Reason: "audit entry id is required"}
	}
	if entry.Timestamp == "" {
		return quality.ValidationError{Field: "timestamp", Reason: "audit entry timestamp is required"}
	}

	changes, err := marshalJSON(entry.Changes)
	if err != nil {
		return err
	}

	row := model.AuditEntry{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		UserID:      entry.UserID,
		UserRole:    entry.UserRole,
		UserName:    entry.UserName,
		Action:      string(entry.Action),
		Module:      entry.Module,
		RecordID:    entry.RecordID,
		RecordType:  entry.RecordType,
		ChangesJSON: changes,
		IPAddress:   entry.IPAddress,
		SessionID:   entry.SessionID,
		Description: entry.Description,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert audit entry")
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]quality.AuditEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.AuditEntry{}).Order("timestamp desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.AuditEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query audit entries")
	}

	items := make([]quality.AuditEntry, 0, len(rows))
	for _, row := range rows {
		changes, err := unmarshalJSON[map[string]quality.FieldChange](row.ChangesJSON)
		if err != nil {
			return nil, err
		}
		items = append(items, quality.AuditEntry{
			ID:          row.ID,
			Timestamp:   row.Timestamp,
			UserID:      row.UserID,
			UserRole:    row.UserRole,
			UserName:    row.UserName,
			Action:      quality.AuditAction(row.Action),
			Module:      row.Module,
			RecordID:    row.RecordID,
			RecordType:  row.RecordType,
			Changes:     changes,
			IPAddress:   row.IPAddress,
			SessionID:   row.SessionID,
			Description: row.Description,
		})
	}
	return items, nil
}
