package investigation

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"labqms/internal/domain/quality"
)

type workflowTransitionsConfig struct {
	EnforceInvestigationOrder bool `toml:"enforce_investigation_order"`
	AllowReopen               bool `toml:"allow_reopen"`
}

type workflowApprovalsConfig struct {
	Roles []string `toml:"roles"`
}

type workflowProfile struct {
	Version     int                       `toml:"version"`
	Transitions workflowTransitionsConfig `toml:"transitions"`
	Approvals   workflowApprovalsConfig   `toml:"approvals"`
}

// WorkflowPolicy is the loaded, validated workflow profile: how strictly the
// lifecycle is enforced and which roles sign a CAPA approval flow, in order.
type WorkflowPolicy struct {
	Transitions   quality.TransitionPolicy
	ApprovalRoles []string
}

// DefaultWorkflowPolicy enforces forward order with the standard two-step
// sign-off chain.
func DefaultWorkflowPolicy() WorkflowPolicy {
	return WorkflowPolicy{
		Transitions:   quality.DefaultPolicy(),
		ApprovalRoles: []string{"Lab Supervisor", "QA Manager"},
	}
}

func LoadWorkflowPolicy(workflowFile string) (WorkflowPolicy, error) {
	path := strings.TrimSpace(workflowFile)
	if path == "" {
		return WorkflowPolicy{}, errors.New("workflow file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return WorkflowPolicy{}, err
	}

	var profile workflowProfile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return WorkflowPolicy{}, err
	}
	if err := validateWorkflowProfile(profile); err != nil {
		return WorkflowPolicy{}, err
	}

	policy := WorkflowPolicy{
		Transitions: quality.TransitionPolicy{
			EnforceInvestigationOrder: profile.Transitions.EnforceInvestigationOrder,
			AllowReopen:               profile.Transitions.AllowReopen,
		},
		ApprovalRoles: normalizeRoles(profile.Approvals.Roles),
	}
	if len(policy.ApprovalRoles) == 0 {
		policy.ApprovalRoles = DefaultWorkflowPolicy().ApprovalRoles
	}
	return policy, nil
}

func validateWorkflowProfile(profile workflowProfile) error {
	if profile.Version != 1 {
		return errors.New("unsupported workflow version: expected version = 1")
	}
	for _, role := range profile.Approvals.Roles {
		if strings.TrimSpace(role) == "" {
			return errors.New("approvals.roles must not contain empty entries")
		}
	}
	return nil
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		trimmed := strings.TrimSpace(role)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
