package audit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"labqms/internal/domain/quality"
	"labqms/internal/infrastructure/persistence/sqlite/model"
	"labqms/internal/infrastructure/persistence/sqlite/repository"
)

func setupAudit(t *testing.T) (*Service, *Recorder) {
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

	log := repository.NewAuditRepository(db)
	recorder := NewRecorder(log, Identity{
		UserID:    "USR-001",
		UserRole:  "Senior Analyst",
		UserName:  "John Doe",
		IPAddress: "192.168.1.45",
	})
	return NewService(log), recorder
}

func record(t *testing.T, recorder *Recorder, module, recordID, description string) {
	t.Helper()
	err := recorder.Record(context.Background(), Event{
		Action:      quality.AuditUpdate,
		Module:      module,
		RecordID:    recordID,
		RecordType:  module,
		Description: description,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestRecordValidatesEvent(t *testing.T) {
	_, recorder := setupAudit(t)
	ctx := context.Background()

	err := recorder.Record(ctx, Event{Action: quality.AuditCreate})
	if _, ok := err.(quality.ValidationError); !ok {
		t.Fatalf("Record() without module error = %v, want ValidationError", err)
	}

	err = recorder.Record(ctx, Event{Action: "destroy", Module: "Investigation"})
	if _, ok := err.(quality.ValidationError); !ok {
		t.Fatalf("Record() with unknown action error = %v, want ValidationError", err)
	}
}

func TestRecordStampsIdentityAndSession(t *testing.T) {
	svc, recorder := setupAudit(t)
	record(t, recorder, "Investigation", "INV-2024-001", "Status changed")

	entries, err := svc.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() len = %d", len(entries))
	}
	entry := entries[0]
	if entry.UserName != "John Doe" || entry.UserRole != "Senior Analyst" || entry.IPAddress != "192.168.1.45" {
		t.Fatalf("identity = %+v", entry)
	}
	if entry.SessionID != recorder.SessionID() || !strings.HasPrefix(entry.SessionID, "SES-") {
		t.Fatalf("session id = %q", entry.SessionID)
	}
	if !strings.HasPrefix(entry.ID, "AUD-") {
		t.Fatalf("entry id = %q", entry.ID)
	}
}

func TestListFilters(t *testing.T) {
	svc, recorder := setupAudit(t)
	ctx := context.Background()

	record(t, recorder, "Investigation", "INV-2024-001", "Status changed to In Progress")
	record(t, recorder, "CAPA", "INV-2024-001", "Added corrective action CA-001")
	record(t, recorder, "SOP", "SOP-QC-001", "Revision submitted for review")

	entries, err := svc.List(ctx, Filter{Module: "CAPA"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Module != "CAPA" {
		t.Fatalf("List(module=CAPA) = %+v", entries)
	}

	entries, err = svc.List(ctx, Filter{Query: "sop-qc"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].RecordID != "SOP-QC-001" {
		t.Fatalf("List(query) = %+v", entries)
	}

	entries, err = svc.List(ctx, Filter{Module: "all", Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List(limit=2) len = %d", len(entries))
	}
}

func TestExportCSV(t *testing.T) {
	svc, recorder := setupAudit(t)
	ctx := context.Background()

	record(t, recorder, "Investigation", "INV-2024-001", "Updated fields: status, completion")

	var buf strings.Builder
	count, err := svc.ExportCSV(ctx, &buf, Filter{})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("ExportCSV() count = %d", count)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d: %q", len(lines), buf.String())
	}
	wantHeader := "Timestamp,User,Role,Action,Module,Record ID,Record Type,Description,IP Address,Session ID"
	if lines[0] != wantHeader {
		t.Fatalf("csv header = %q", lines[0])
	}
	// The description contains a comma, so the encoder must quote it.
	if !strings.Contains(lines[1], `"Updated fields: status, completion"`) {
		t.Fatalf("csv row = %q", lines[1])
	}
	if !strings.Contains(lines[1], "John Doe") {
		t.Fatalf("csv row missing user: %q", lines[1])
	}
}

func TestExportCSVEmptyTrailStillWritesHeader(t *testing.T) {
	svc, _ := setupAudit(t)

	var buf strings.Builder
	count, err := svc.ExportCSV(context.Background(), &buf, Filter{})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("ExportCSV() count = %d", count)
	}
	if !strings.HasPrefix(buf.String(), "Timestamp,User,Role,") {
		t.Fatalf("csv = %q", buf.String())
	}
}

func TestListNewestFirstAcrossSessions(t *testing.T) {
	svc, recorder := setupAudit(t)
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		record(t, recorder, "Investigation", fmt.Sprintf("INV-2024-%03d", n), "created")
	}

	entries, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() len = %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Timestamp < entries[i].Timestamp {
			t.Fatalf("entries not newest first: %s before %s", entries[i-1].Timestamp, entries[i].Timestamp)
		}
	}
}
