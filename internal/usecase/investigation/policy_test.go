package investigation

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWorkflowFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write workflow file: %v", err)
	}
	return path
}

func TestLoadWorkflowPolicy(t *testing.T) {
	path := writeWorkflowFile(t, `
version = 1

[transitions]
enforce_investigation_order = true
allow_reopen = true

[approvals]
roles = ["Lab Supervisor", "QA Manager", "Quality Director"]
`)

	policy, err := LoadWorkflowPolicy(path)
	if err != nil {
		t.Fatalf("LoadWorkflowPolicy() error = %v", err)
	}
	if !policy.Transitions.EnforceInvestigationOrder || !policy.Transitions.AllowReopen {
		t.Fatalf("transitions = %+v", policy.Transitions)
	}
	if len(policy.ApprovalRoles) != 3 || policy.ApprovalRoles[2] != "Quality Director" {
		t.Fatalf("roles = %v", policy.ApprovalRoles)
	}
}

func TestLoadWorkflowPolicyDefaultsEmptyRoles(t *testing.T) {
	path := writeWorkflowFile(t, "version = 1\n")

	policy, err := LoadWorkflowPolicy(path)
	if err != nil {
		t.Fatalf("LoadWorkflowPolicy() error = %v", err)
	}
	if len(policy.ApprovalRoles) != 2 || policy.ApprovalRoles[0] != "Lab Supervisor" {
		t.Fatalf("roles = %v", policy.ApprovalRoles)
	}
}

func TestLoadWorkflowPolicyRejectsUnknownVersion(t *testing.T) {
	path := writeWorkflowFile(t, "version = 2\n")

	if _, err := LoadWorkflowPolicy(path); err == nil {
		t.Fatalf("version 2 should be rejected")
	}
}

func TestLoadWorkflowPolicyRejectsBlankRole(t *testing.T) {
	path := writeWorkflowFile(t, `
version = 1

[approvals]
roles = ["Lab Supervisor", "  "]
`)

	if _, err := LoadWorkflowPolicy(path); err == nil {
		t.Fatalf("blank role should be rejected")
	}
}

func TestLoadWorkflowPolicyMissingFile(t *testing.T) {
	if _, err := LoadWorkflowPolicy(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("missing file should be an error")
	}
	if _, err := LoadWorkflowPolicy(""); err == nil {
		t.Fatalf("empty path should be an error")
	}
}
