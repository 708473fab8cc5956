package command_audit

import (
	"context"

	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
)

var AuditCmd = &cli.Command{
	Name:        "audit",
	Usage:       "Workspace and audit log reports",
	Description: "Read only reports built from the workspace list and the server audit log. The audit log needs an auditor or owner token.",
	Commands: []*cli.Command{
		StartsCmd,
		WorkspacesCmd,
		DeletedCmd,
	},
}

var StartsCmd = &cli.Command{
	Name:        "starts",
	Usage:       "List workspace start events",
	Description: "Lists workspace start events from the audit log with the user, the workspace and its current TTL.",
	MaxArgs:     cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionAuditStarts, cmdutil.Request{})
	},
}

var WorkspacesCmd = &cli.Command{
	Name:  "workspaces",
	Usage: "List running workspaces with their schedule",
	Description: `Lists running workspaces sorted by owner with the template, last use, TTL, deadline and max deadline.

Rows whose max deadline has already passed are highlighted.`,
	Arguments: []cli.Argument{
		cmdutil.FilterArg(),
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionAuditWorkspaces, cmdutil.Request{})
	},
}

var DeletedCmd = &cli.Command{
	Name:        "deleted",
	Usage:       "List deleted workspaces by user",
	Description: "Lists workspace delete events from the audit log grouped by user, including users with no deletions.",
	MaxArgs:     cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionAuditDeleted, cmdutil.Request{})
	},
}
