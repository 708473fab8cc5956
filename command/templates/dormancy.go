package command_templates

import (
	"context"

	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
)

var SetDormancyCmd = &cli.Command{
	Name:  "set-dormancy",
	Usage: "Set the dormancy threshold and auto deletion of a template",
	Description: `Sets how many hours of inactivity mark a workspace dormant and how many hours a dormant workspace is kept before deletion.

A value of 0 disables the setting. With --plus-one-dormancy-ttl one hour is added to a non zero deletion window.`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "template-id",
			Usage:    "The ID of the template",
			Required: true,
		},
		&cli.IntArg{
			Name:     "threshold-hours",
			Usage:    "Hours of inactivity before a workspace becomes dormant",
			Required: true,
		},
		&cli.IntArg{
			Name:     "deletion-hours",
			Usage:    "Hours a dormant workspace is kept before deletion",
			Required: true,
		},
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionSetTemplateDormancy, cmdutil.Request{
			ID:             cmd.GetStringArg("template-id"),
			ThresholdHours: int64(cmd.GetIntArg("threshold-hours")),
			DeletionHours:  int64(cmd.GetIntArg("deletion-hours")),
		})
	},
}

var GetDormancyCmd = &cli.Command{
	Name:        "get-dormancy",
	Usage:       "Show the dormancy settings of a template",
	Description: "Shows the dormancy threshold and auto deletion window of a template.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "template-id",
			Usage:    "The ID of the template",
			Required: true,
		},
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionGetTemplateDormancy, cmdutil.Request{
			ID: cmd.GetStringArg("template-id"),
		})
	},
}
