package quality

// Timestamps are UTC RFC3339 strings throughout the domain so records can be
// compared lexically and stored as text columns without driver-specific
// time handling.

type Investigation struct {
	ID                   string
	DeviationID          string
	Title                string
	Status               InvestigationStatus
	Priority             Priority
	AssignedTo           string
	CreatedBy            string
	CreatedAt            string
	UpdatedAt            string
	DueDate              string
	CurrentStep          string
	CompletionPercentage int
}

type Deviation struct {
	ID               string
	SampleID         string
	TestID           string
	InstrumentID     string
	AnalystID        string
	OccurredAt       string
	DeviationType    string
	Description      string
	Severity         Priority
	CustomerImpact   bool
	RegulatoryImpact bool
	RelatedSOPs      []string
	Attachments      []Attachment
}

type Attachment struct {
	ID         string
	Filename   string
	FileType   string
	Size       int64
	UploadedBy string
	UploadedAt string
	URL        string
}

// ChecklistItem is one yes/no question of the RCA checklist. Response stays
// nil until the analyst answers.
type ChecklistItem struct {
	ID       string
	Category string
	Question string
	Response *bool
	Comments string
	Required bool
}

// AISuggestion is a candidate root cause proposed from historical data.
// Selection is informational only; it never feeds back into any scoring.
type AISuggestion struct {
	ID         string
	Category   string
	Suggestion string
	Confidence int
	Reasoning  string
	Selected   bool
}

type RootCauseAnalysis struct {
	ID                  string
	InvestigationID     string
	Checklist           []ChecklistItem
	Suggestions         []AISuggestion
	ManualAnalysis      string
	RootCause           string
	ContributingFactors []string
	Evidence            []Attachment
}

type ActionKind string

const (
	ActionCorrective ActionKind = "corrective"
	ActionPreventive ActionKind = "preventive"
)

type Action struct {
	ID          string
	Kind        ActionKind
	Description string
	AssignedTo  string
	DueDate     string
	Status      ActionStatus
	Priority    Priority
	Resources   []string
	Evidence    []string
}

type ApprovalStep struct {
	ID               string
	Role             string
	Approver         string
	Status           ApprovalStatus
	Comments         string
	Timestamp        string
	DigitalSignature string
}

type CAPA struct {
	ID                string
	InvestigationID   string
	CorrectiveActions []Action
	PreventiveActions []Action
	ApprovalFlow      []ApprovalStep
}

// Actions returns corrective then preventive actions in their stored order.
func (c CAPA) Actions() []Action {
	out := make([]Action, 0, len(c.CorrectiveActions)+len(c.PreventiveActions))
	out = append(out, c.CorrectiveActions...)
	out = append(out, c.PreventiveActions...)
	return out
}

// SOPVersion is an immutable snapshot taken whenever a document is revised.
type SOPVersion struct {
	Version string
	Date    string
	Author  string
	Changes string
	Status  SOPStatus
}

type SOPDocument struct {
	ID                   string
	Title                string
	Version              string
	Status               SOPStatus
	Category             string
	LastModified         string
	ModifiedBy           string
	ApprovedBy           string
	ApprovalDate         string
	NextReview           string
	ChangeReason         string
	LinkedInvestigations []string
	ApprovalFlow         []ApprovalStep
	History              []SOPVersion
}

type Report struct {
	ID                   string
	Title                string
	Type                 ReportType
	Status               ReportStatus
	CreatedBy            string
	CreatedAt            string
	ModifiedAt           string
	LinkedInvestigations []string
	ApprovalFlow         []ApprovalStep
	Content              string
}

// FieldChange records one before/after pair in an audit entry.
type FieldChange struct {
	From string
	To   string
}

// AuditEntry is append-only: once written it is never updated or deleted.
type AuditEntry struct {
	ID          string
	Timestamp   string
	UserID      string
	UserRole    string
	UserName    string
	Action      AuditAction
	Module      string
	RecordID    string
	RecordType  string
	Changes     map[string]FieldChange
	IPAddress   string
	SessionID   string
	Description string
}
