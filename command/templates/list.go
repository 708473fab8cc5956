package command_templates

import (
	"context"

	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
)

var ListCmd = &cli.Command{
	Name:        "list",
	Usage:       "List templates and their dormancy settings",
	Description: "Lists all templates with their names, display names, IDs, dormancy thresholds and auto deletion windows.",
	MaxArgs:     cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionListTemplates, cmdutil.Request{})
	},
}
