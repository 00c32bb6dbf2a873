package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labqms/internal/bootstrap/logging"
	"labqms/internal/domain/quality"
	"labqms/internal/usecase/investigation"
)

const maxShownActions = 6

var statusFilters = []string{
	"all", "initiated", "in-progress", "rca-pending",
	"capa-pending", "approval-pending", "completed", "closed",
}

type Options struct {
	StatusFilter    string
	PriorityFilter  string
	Query           string
	Approver        string
	RefreshInterval time.Duration
}

type qmModel struct {
	ctx             context.Context
	service         *investigation.Service
	store           *investigation.Store
	statusFilter    string
	priorityFilter  string
	query           string
	approver        string
	refreshInterval time.Duration

	selectedIndex int
	detail        investigation.Detail
	hasDetail     bool
	stats         investigation.Stats
	hasStats      bool
	status        string
}

type investigationsLoadedMsg struct {
	items []quality.Investigation
	err   error
}

type detailLoadedMsg struct {
	id        string
	detail    investigation.Detail
	hasDetail bool
	err       error
}

type statsLoadedMsg struct {
	stats investigation.Stats
	err   error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action string
	id     string
	result string
	err    error
}

func NewModel(ctx context.Context, service *investigation.Service, options Options) tea.Model {
	statusFilter := strings.TrimSpace(strings.ToLower(options.StatusFilter))
	if statusFilter == "" {
		statusFilter = "all"
	}
	priorityFilter := strings.TrimSpace(strings.ToLower(options.PriorityFilter))
	if priorityFilter == "" {
		priorityFilter = "all"
	}
	approver := strings.TrimSpace(options.Approver)
	if approver == "" {
		approver = "Console User"
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &qmModel{
		ctx:             ctx,
		service:         service,
		store:           investigation.NewStore(),
		statusFilter:    statusFilter,
		priorityFilter:  priorityFilter,
		query:           strings.TrimSpace(options.Query),
		approver:        approver,
		refreshInterval: interval,
		status:          "initializing",
	}
}

func (m *qmModel) Init() tea.Cmd {
	return tea.Batch(m.loadInvestigationsCmd(), m.loadStatsCmd(), m.tickCmd())
}

func (m *qmModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadInvestigationsCmd(), m.tickCmd())
	case investigationsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.store.ReplaceInvestigations(investigation.SortByPriority(msg.items))
		items := m.store.Investigations()
		if len(items) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "no investigations match the filter"
			return m, nil
		}
		if m.selectedIndex >= len(items) {
			m.selectedIndex = len(items) - 1
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		m.status = fmt.Sprintf("refreshed, %d investigations", len(items))
		return m, m.loadSelectedDetailCmd()
	case detailLoadedMsg:
		selected, ok := m.selectedInvestigation()
		if !ok || selected.ID != msg.id {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.detail
		m.hasDetail = msg.hasDetail
		return m, nil
	case statsLoadedMsg:
		if msg.err != nil {
			m.hasStats = false
			return m, nil
		}
		m.stats = msg.stats
		m.hasStats = true
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
		}
		return m, tea.Batch(m.loadInvestigationsCmd(), m.loadStatsCmd())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, tea.Batch(m.loadInvestigationsCmd(), m.loadStatsCmd())
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.syncSelection()
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.store.Investigations())-1 {
				m.selectedIndex++
				m.syncSelection()
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "f":
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.selectedIndex = 0
			m.status = "filter: " + m.statusFilter
			return m, m.loadInvestigationsCmd()
		case "s":
			return m, m.advanceStatusCmd()
		case "a":
			return m, m.decideCmd(quality.ApprovalApproved)
		case "x":
			return m, m.decideCmd(quality.ApprovalRejected)
		}
	}
	return m, nil
}

func (m *qmModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Quality Investigation Console"))
	builder.WriteString("\n")
	header := fmt.Sprintf("status=%s priority=%s query=%s refresh=%s",
		m.statusFilter, m.priorityFilter, firstNonEmpty(m.query, "-"), m.refreshInterval)
	if m.hasStats {
		header += fmt.Sprintf(" total=%d overdue=%d", m.stats.Total, m.stats.Overdue)
	}
	builder.WriteString(dimStyle.Render(header))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Investigations"))
	builder.WriteString("\n")
	items := m.store.Investigations()
	if len(items) == 0 {
		builder.WriteString(dimStyle.Render("- none"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range items {
			line := fmt.Sprintf("%s [%s] %s %3d%% due=%s %s",
				item.ID,
				item.Priority.Label(),
				item.Status.Label(),
				item.CompletionPercentage,
				firstNonEmpty(shortDate(item.DueDate), "-"),
				item.Title,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		d := m.detail
		builder.WriteString(fmt.Sprintf("ID: %s  Deviation: %s\n", d.Investigation.ID, d.Deviation.ID))
		builder.WriteString(fmt.Sprintf("Step: %s  Assigned: %s\n", d.Investigation.CurrentStep, firstNonEmpty(d.Investigation.AssignedTo, "-")))
		builder.WriteString(fmt.Sprintf("Sample: %s  Analyst: %s  Type: %s\n", d.Deviation.SampleID, d.Deviation.AnalystID, d.Deviation.DeviationType))
		builder.WriteString(fmt.Sprintf("RCA: %d%%  CAPA: %d%%  Approvals: %d%%\n", d.RCACompletion, d.CAPAProgress, d.ApprovalProgress))
		if d.RCA.RootCause != "" {
			builder.WriteString("Root Cause: " + d.RCA.RootCause + "\n")
		}

		actions := d.CAPA.Actions()
		if len(actions) > 0 {
			builder.WriteString("Actions:\n")
			shown := actions
			if len(shown) > maxShownActions {
				shown = shown[:maxShownActions]
			}
			for _, action := range shown {
				builder.WriteString(fmt.Sprintf("- %s [%s] %s (%s)\n", action.ID, action.Status.Label(), action.Description, action.AssignedTo))
			}
		}
		if len(d.CAPA.ApprovalFlow) > 0 {
			builder.WriteString("Approvals:\n")
			actionable, hasNext := quality.NextActionableStep(d.CAPA.ApprovalFlow)
			for i, step := range d.CAPA.ApprovalFlow {
				marker := "  "
				if hasNext && i == actionable {
					marker = "* "
				}
				builder.WriteString(fmt.Sprintf("- %s%s %s [%s]\n", marker, step.ID, step.Role, step.Status))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  f cycle filter  s advance status  a approve  x reject  q quit"))
	return builder.String()
}

func (m *qmModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *qmModel) loadInvestigationsCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.service.List(m.ctx, investigation.Filter{
			Query:    m.query,
			Status:   m.statusFilter,
			Priority: m.priorityFilter,
		})
		if err != nil {
			return investigationsLoadedMsg{err: err}
		}
		return investigationsLoadedMsg{items: items}
	}
}

func (m *qmModel) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.service.DashboardStats(m.ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m *qmModel) loadSelectedDetailCmd() tea.Cmd {
	selected, ok := m.selectedInvestigation()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		detail, err := m.service.Get(m.ctx, selected.ID)
		if err != nil {
			return detailLoadedMsg{id: selected.ID, err: err}
		}
		return detailLoadedMsg{id: selected.ID, detail: detail, hasDetail: true}
	}
}

func (m *qmModel) advanceStatusCmd() tea.Cmd {
	selected, ok := m.selectedInvestigation()
	if !ok {
		m.status = "no investigation selected"
		return nil
	}
	next, ok := selected.Status.Next()
	if !ok {
		m.status = selected.ID + " is already closed"
		return nil
	}
	m.status = "advancing " + selected.ID
	return func() tea.Msg {
		updated, err := m.service.UpdateStatus(m.ctx, selected.ID, string(next))
		if err != nil {
			return actionDoneMsg{action: "advance", id: selected.ID, err: err}
		}
		m.logAction("advance", selected.ID, string(updated.Status))
		return actionDoneMsg{action: "advance", id: selected.ID, result: updated.Status.Label()}
	}
}

func (m *qmModel) decideCmd(decision quality.ApprovalStatus) tea.Cmd {
	selected, ok := m.selectedInvestigation()
	if !ok {
		m.status = "no investigation selected"
		return nil
	}
	action := "approve"
	if decision == quality.ApprovalRejected {
		action = "reject"
	}
	m.status = "recording " + action + " for " + selected.ID
	return func() tea.Msg {
		state, err := m.service.ApprovalFlow(m.ctx, selected.ID)
		if err != nil {
			return actionDoneMsg{action: action, id: selected.ID, err: err}
		}
		if !state.HasNext {
			return actionDoneMsg{action: action, id: selected.ID, err: fmt.Errorf("no actionable approval step")}
		}
		step := state.Flow[state.Actionable]

		capa, err := m.service.DecideApproval(m.ctx, selected.ID, step.ID, string(decision), m.approver, "console "+action)
		if err != nil {
			return actionDoneMsg{action: action, id: selected.ID, err: err}
		}
		m.logAction(action, selected.ID, step.ID)
		return actionDoneMsg{
			action: action,
			id:     selected.ID,
			result: fmt.Sprintf("step %s, flow %d%%", step.ID, quality.ApprovalProgress(capa.ApprovalFlow)),
		}
	}
}

func (m *qmModel) selectedInvestigation() (quality.Investigation, bool) {
	items := m.store.Investigations()
	if len(items) == 0 || m.selectedIndex < 0 || m.selectedIndex >= len(items) {
		return quality.Investigation{}, false
	}
	return items[m.selectedIndex], true
}

func (m *qmModel) syncSelection() {
	if selected, ok := m.selectedInvestigation(); ok {
		_ = m.store.SetCurrent(selected.ID)
	}
}

func (m *qmModel) logAction(action string, id string, result string) {
	logging.Info(m.ctx, "console action",
		slog.String("action", action),
		slog.String("investigation_id", id),
		slog.String("result", result),
	)
}

func nextStatusFilter(current string) string {
	for i, filter := range statusFilters {
		if filter == current {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return statusFilters[0]
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
