package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/ports"
)

// Identity is the acting user stamped on recorded entries. CLI commands get
// it from config; the HTTP layer derives it per request.
type Identity struct {
	UserID    string
	UserRole  string
	UserName  string
	IPAddress string
}

// Recorder writes one audit entry per mutating operation. It shares the
// caller's context, so entries written inside a unit of work commit or roll
// back together with the mutation they describe.
type Recorder struct {
	log       ports.AuditLog
	identity  Identity
	sessionID string
}

func NewRecorder(log ports.AuditLog, identity Identity) *Recorder {
	return &Recorder{
		log:       log,
		identity:  identity,
		sessionID: newSessionID(time.Now()),
	}
}

func (r *Recorder) SessionID() string {
	return r.sessionID
}

type Event struct {
	Action      quality.AuditAction
	Module      string
	RecordID    string
	RecordType  string
	Description string
	Changes     map[string]quality.FieldChange
}

func (r *Recorder) Record(ctx context.Context, event Event) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if r.log == nil {
		return errors.New("audit log is required")
	}
	if event.Module == "" {
		return quality.ValidationError{Field: "module"}
	}
	if _, err := quality.ParseAuditAction(string(event.Action)); err != nil {
		return err
	}

	now := time.Now().UTC()
	entry := quality.AuditEntry{
		ID:          "AUD-" + now.Format("2006") + "-" + shortUUID(),
		Timestamp:   now.Format(time.RFC3339),
		UserID:      r.identity.UserID,
		UserRole:    r.identity.UserRole,
		UserName:    r.identity.UserName,
		Action:      event.Action,
		Module:      event.Module,
		RecordID:    event.RecordID,
		RecordType:  event.RecordType,
		Changes:     event.Changes,
		IPAddress:   r.identity.IPAddress,
		SessionID:   r.sessionID,
		Description: event.Description,
	}

	if err := r.log.Append(ctx, entry); err != nil {
		return errs.Wrap(err, "append audit entry")
	}
	return nil
}

func newSessionID(now time.Time) string {
	return "SES-" + now.UTC().Format("20060102") + "-" + shortUUID()
}

func shortUUID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
