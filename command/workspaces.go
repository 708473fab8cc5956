package command

import (
	"context"

	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
)

var bumpCmd = &cli.Command{
	Name:  "bump",
	Usage: "Raise workspace TTLs to the default",
	Description: `Checks the TTL of every matching workspace. Workspaces with no TTL, a zero TTL or a TTL below the default are updated.

Running workspaces have their deadline extended, stopped workspaces have their TTL set.`,
	Arguments: []cli.Argument{
		cmdutil.FilterArg(),
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionBumpTTL, cmdutil.Request{})
	},
}

var extendDormancyCmd = &cli.Command{
	Name:  "extend-dormancy",
	Usage: "Push back the deletion of dormant workspaces",
	Description: `Resets the deletion schedule of dormant workspaces by clearing and setting their dormancy.

The server restarts the deletion clock from the template auto-deletion window, the requested hours are reported alongside the resulting deletion time.`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:         "hours",
			Usage:        "Hours to extend the deletion by.",
			ConfigPath:   []string{"dormancy.extension_hours"},
			EnvVars:      []string{"DORMANCY_EXTENSION_HOURS"},
			DefaultValue: config.DefaultDormancyExtensionHours,
		},
	},
	Arguments: []cli.Argument{
		cmdutil.FilterArg(),
	},
	MaxArgs: cli.NoArgs,
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionExtendDormancy, cmdutil.Request{})
	},
}
