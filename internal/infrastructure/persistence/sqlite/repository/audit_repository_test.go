package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"labqms/internal/domain/quality"
	"labqms/internal/infrastructure/persistence/sqlite/model"
)

func setupAuditRepository(t *testing.T) *AuditRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "audit.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.AuditEntry{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewAuditRepository(db)
}

func auditEntry(n int) quality.AuditEntry {
	return quality.AuditEntry{
		ID:          fmt.Sprintf("AUD-2024-%03d", n),
		Timestamp:   fmt.Sprintf("2024-01-16T10:%02d:00Z", n),
		UserID:      "USR-001",
		UserRole:    "Senior Analyst",
		UserName:    "John Doe",
		Action:      quality.AuditCreate,
		Module:      "Investigation",
		RecordID:    "INV-2024-001",
		RecordType:  "investigation",
		IPAddress:   "192.168.1.45",
		SessionID:   "SES-20240116-abc123de",
		Description: "Created investigation",
	}
}

func TestAppendRequiresIDAndTimestamp(t *testing.T) {
	repo := setupAuditRepository(t)
	ctx := context.Background()

	entry := auditEntry(1)
	entry.ID = ""
	if err := repo.Append(ctx, entry); err == nil {
		t.Fatalf("Append() without id should fail")
	}

	entry = auditEntry(1)
	entry.Timestamp = ""
	err := repo.Append(ctx, entry)
	if _, ok := err.(quality.ValidationError); !ok {
		t.Fatalf("Append() without timestamp error = %v, want ValidationError", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := setupAuditRepository(t)
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		if err := repo.Append(ctx, auditEntry(n)); err != nil {
			t.Fatalf("Append(%d) error = %v", n, err)
		}
	}

	items, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("List() len = %d", len(items))
	}
	if items[0].ID != "AUD-2024-003" || items[2].ID != "AUD-2024-001" {
		t.Fatalf("List() order = %s .. %s", items[0].ID, items[2].ID)
	}
}

func TestListHonorsLimit(t *testing.T) {
	repo := setupAuditRepository(t)
	ctx := context.Background()

	for n := 1; n <= 5; n++ {
		if err := repo.Append(ctx, auditEntry(n)); err != nil {
			t.Fatalf("Append(%d) error = %v", n, err)
		}
	}

	items, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "AUD-2024-005" {
		t.Fatalf("List(limit=2) = %+v", items)
	}
}

func TestAppendRoundtripsFieldChanges(t *testing.T) {
	repo := setupAuditRepository(t)
	ctx := context.Background()

	entry := auditEntry(1)
	entry.Action = quality.AuditUpdate
	entry.Changes = map[string]quality.FieldChange{
		"status": {From: "initiated", To: "in-progress"},
	}
	if err := repo.Append(ctx, entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	items, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	change, ok := items[0].Changes["status"]
	if !ok || change.From != "initiated" || change.To != "in-progress" {
		t.Fatalf("List() changes = %+v", items[0].Changes)
	}
}
