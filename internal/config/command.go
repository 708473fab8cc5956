package config

import (
	"github.com/paularlott/cli"
)

// FromCommand gathers the global flags of cmd and builds the run configuration for action.
// The filter argument and the extension hours are only read by the actions that take them.
func FromCommand(cmd *cli.Command, action Action) (*RunConfig, error) {
	opts := Options{
		URL:                    cmd.GetString("url"),
		Token:                  cmd.GetString("token"),
		TokenFile:              cmd.GetString("token-file"),
		DefaultTTLHours:        cmd.GetInt("default-ttl-hours"),
		DryRun:                 cmd.GetBool("dry-run"),
		PlusOneWorkspaceTTL:    cmd.GetBool("plus-one-workspace-ttl"),
		PlusOneDormancyTTL:     cmd.GetBool("plus-one-dormancy-ttl"),
		DormancyExtensionHours: DefaultDormancyExtensionHours,
		Output:                 cmd.GetString("output"),
		NoColor:                cmd.GetBool("no-color"),
		RateLimit:              cmd.GetInt("rate-limit"),
		SettleTimeout:          cmd.GetString("settle-timeout"),
		SettleInterval:         cmd.GetString("settle-interval"),
		Timeout:                cmd.GetString("timeout"),
		TLSSkipVerify:          cmd.GetBool("tls-skip-verify"),
	}

	switch action {
	case ActionBumpTTL, ActionAuditWorkspaces:
		opts.Filter = cmd.GetStringArg("filter")
	case ActionExtendDormancy:
		opts.Filter = cmd.GetStringArg("filter")
		opts.DormancyExtensionHours = cmd.GetInt("hours")
	}

	return New(action, opts)
}
