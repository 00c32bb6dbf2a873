package quality

import "fmt"

type InvestigationStatus string

const (
	StatusInitiated       InvestigationStatus = "initiated"
	StatusInProgress      InvestigationStatus = "in-progress"
	StatusRCAPending      InvestigationStatus = "rca-pending"
	StatusCAPAPending     InvestigationStatus = "capa-pending"
	StatusApprovalPending InvestigationStatus = "approval-pending"
	StatusCompleted       InvestigationStatus = "completed"
	StatusClosed          InvestigationStatus = "closed"
)

// investigationOrder is the lifecycle in display and enforcement order.
var investigationOrder = []InvestigationStatus{
	StatusInitiated,
	StatusInProgress,
	StatusRCAPending,
	StatusCAPAPending,
	StatusApprovalPending,
	StatusCompleted,
	StatusClosed,
}

func ParseInvestigationStatus(raw string) (InvestigationStatus, error) {
	for _, status := range investigationOrder {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown investigation status %q", raw)}
}

// Next returns the following lifecycle status, or false at the end.
func (s InvestigationStatus) Next() (InvestigationStatus, bool) {
	rank := s.Rank()
	if rank < 0 || rank+1 >= len(investigationOrder) {
		return "", false
	}
	return investigationOrder[rank+1], true
}

// Rank returns the position of the status in the lifecycle, or -1.
func (s InvestigationStatus) Rank() int {
	for i, status := range investigationOrder {
		if status == s {
			return i
		}
	}
	return -1
}

func (s InvestigationStatus) Label() string {
	switch s {
	case StatusInitiated:
		return "Initiated"
	case StatusInProgress:
		return "In Progress"
	case StatusRCAPending:
		return "RCA Pending"
	case StatusCAPAPending:
		return "CAPA Pending"
	case StatusApprovalPending:
		return "Approval Pending"
	case StatusCompleted:
		return "Completed"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

// CompletionFloor is the minimum completion percentage implied by a status.
// Completion never decreases as the lifecycle advances.
func (s InvestigationStatus) CompletionFloor() int {
	switch s {
	case StatusInitiated:
		return 0
	case StatusInProgress:
		return 20
	case StatusRCAPending:
		return 40
	case StatusCAPAPending:
		return 60
	case StatusApprovalPending:
		return 80
	case StatusCompleted, StatusClosed:
		return 100
	}
	return 0
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func ParsePriority(raw string) (Priority, error) {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(raw), nil
	}
	return "", ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", raw)}
}

// Severity ranks priorities for sorting: critical first.
func (p Priority) Severity() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 0
	}
	return -1
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return string(p)
}

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in-progress"
	ActionCompleted  ActionStatus = "completed"
	ActionVerified   ActionStatus = "verified"
)

var actionOrder = []ActionStatus{ActionPending, ActionInProgress, ActionCompleted, ActionVerified}

func ParseActionStatus(raw string) (ActionStatus, error) {
	for _, status := range actionOrder {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown action status %q", raw)}
}

func (s ActionStatus) Rank() int {
	for i, status := range actionOrder {
		if status == s {
			return i
		}
	}
	return -1
}

// Done reports whether the action counts toward CAPA progress.
func (s ActionStatus) Done() bool {
	return s == ActionCompleted || s == ActionVerified
}

func (s ActionStatus) Label() string {
	switch s {
	case ActionPending:
		return "Pending"
	case ActionInProgress:
		return "In Progress"
	case ActionCompleted:
		return "Completed"
	case ActionVerified:
		return "Verified"
	}
	return string(s)
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	switch ApprovalStatus(raw) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(raw), nil
	}
	return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown approval status %q", raw)}
}

type SOPStatus string

const (
	SOPDraft       SOPStatus = "draft"
	SOPUnderReview SOPStatus = "under-review"
	SOPApproved    SOPStatus = "approved"
	SOPObsolete    SOPStatus = "obsolete"
)

var sopOrder = []SOPStatus{SOPDraft, SOPUnderReview, SOPApproved, SOPObsolete}

func ParseSOPStatus(raw string) (SOPStatus, error) {
	for _, status := range sopOrder {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown sop status %q", raw)}
}

func (s SOPStatus) Rank() int {
	for i, status := range sopOrder {
		if status == s {
			return i
		}
	}
	return -1
}

type ReportStatus string

const (
	ReportDraft         ReportStatus = "draft"
	ReportPendingReview ReportStatus = "pending-review"
	ReportApproved      ReportStatus = "approved"
	ReportPublished     ReportStatus = "published"
)

var reportOrder = []ReportStatus{ReportDraft, ReportPendingReview, ReportApproved, ReportPublished}

func ParseReportStatus(raw string) (ReportStatus, error) {
	for _, status := range reportOrder {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown report status %q", raw)}
}

func (s ReportStatus) Rank() int {
	for i, status := range reportOrder {
		if status == s {
			return i
		}
	}
	return -1
}

type ReportType string

const (
	ReportDeviation     ReportType = "deviation"
	ReportInvestigation ReportType = "investigation"
	ReportCAPA          ReportType = "capa"
	ReportTrend         ReportType = "trend"
	ReportSummary       ReportType = "summary"
)

func ParseReportType(raw string) (ReportType, error) {
	switch ReportType(raw) {
	case ReportDeviation, ReportInvestigation, ReportCAPA, ReportTrend, ReportSummary:
		return ReportType(raw), nil
	}
	return "", ValidationError{Field: "type", Reason: fmt.Sprintf("unknown report type %q", raw)}
}

type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditDelete  AuditAction = "DELETE"
	AuditView    AuditAction = "VIEW"
	AuditApprove AuditAction = "APPROVE"
	AuditReject  AuditAction = "REJECT"
)

func ParseAuditAction(raw string) (AuditAction, error) {
	switch AuditAction(raw) {
	case AuditCreate, AuditUpdate, AuditDelete, AuditView, AuditApprove, AuditReject:
		return AuditAction(raw), nil
	}
	return "", ValidationError{Field: "action", Reason: fmt.Sprintf("unknown audit action %q", raw)}
}
