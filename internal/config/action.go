package config

import (
	"fmt"
	"strings"

	"github.com/bjornrobertsson/coderttl/internal/util/validate"
)

// Action selects the single operation a run performs.
type Action int

const (
	ActionBumpTTL Action = iota
	ActionExtendDormancy
	ActionSetTemplateDormancy
	ActionGetTemplateDormancy
	ActionListTemplates
	ActionSetWorkspaceTTL
	ActionAuditStarts
	ActionAuditWorkspaces
	ActionAuditDeleted
	actionCount
)

var actionNames = [...]string{
	ActionBumpTTL:             "bump_ttl",
	ActionExtendDormancy:      "extend_dormancy",
	ActionSetTemplateDormancy: "set_template_dormancy",
	ActionGetTemplateDormancy: "get_template_dormancy",
	ActionListTemplates:       "list_templates",
	ActionSetWorkspaceTTL:     "set_workspace_ttl",
	ActionAuditStarts:         "audit_starts",
	ActionAuditWorkspaces:     "audit_workspaces",
	ActionAuditDeleted:        "audit_deleted",
}

func (a Action) Valid() bool {
	return a >= 0 && a < actionCount
}

// Mutates reports whether the action can issue PUT or PATCH requests.
func (a Action) Mutates() bool {
	switch a {
	case ActionBumpTTL, ActionExtendDormancy, ActionSetTemplateDormancy, ActionSetWorkspaceTTL:
		return true
	}
	return false
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Output selects how reports are rendered.
type Output string

const (
	OutputTable Output = "table"
	OutputJSON  Output = "json"
	OutputYAML  Output = "yaml"
	OutputTOML  Output = "toml"
)

var outputs = []string{string(OutputTable), string(OutputJSON), string(OutputYAML), string(OutputTOML)}

func ParseOutput(s string) (Output, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OutputTable, nil
	}
	if !validate.OneOf(s, outputs) {
		return "", fmt.Errorf("unknown output format %q, expected one of %s", s, strings.Join(outputs, ", "))
	}
	return Output(s), nil
}
