package command_ttl

import (
	"context"

	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
)

var TTLCmd = &cli.Command{
	Name:        "ttl",
	Usage:       "Manage the TTL of a single workspace",
	Description: "Manage the TTL of a single workspace by ID.",
	Commands: []*cli.Command{
		SetCmd,
	},
}

var SetCmd = &cli.Command{
	Name:        "set",
	Usage:       "Set the TTL of a workspace",
	Description: "Sets the TTL of a workspace, given in milliseconds. A TTL of 0 clears it.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "workspace-id",
			Usage:    "The ID of the workspace",
			Required: true,
		},
		&cli.IntArg{
			Name:     "ttl-ms",
			Usage:    "The TTL in milliseconds",
			Required: true,
		},
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionSetWorkspaceTTL, cmdutil.Request{
			ID:        cmd.GetStringArg("workspace-id"),
			TTLMillis: int64(cmd.GetIntArg("ttl-ms")),
		})
	},
}
