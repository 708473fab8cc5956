package command

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bjornrobertsson/coderttl/build"
	command_audit "github.com/bjornrobertsson/coderttl/command/audit"
	"github.com/bjornrobertsson/coderttl/command/cmdutil"
	command_templates "github.com/bjornrobertsson/coderttl/command/templates"
	command_ttl "github.com/bjornrobertsson/coderttl/command/ttl"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/paularlott/cli"
	cli_toml "github.com/paularlott/cli/toml"
)

var configFile = config.CONFIG_FILE

var RootCmd = &cli.Command{
	Name:  "coderttl",
	Usage: "Workspace TTL and dormancy management for Coder",
	Description: `coderttl raises workspace TTLs that are unset or below a default, extends the scheduled deletion of dormant workspaces and manages template dormancy settings.

Without a sub-command the TTL bump is run, optionally limited by a workspace filter query such as "owner:me".`,
	Version: build.Version,
	ConfigFile: cli_toml.NewConfigFile(&configFile, func() []string {
		paths := []string{"."}

		home, err := os.UserHomeDir()
		if err == nil {
			paths = append(paths, home)
		}

		paths = append(paths, filepath.Join(home, ".config", config.CONFIG_DIR))

		return paths
	}),
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Name and path to the configuration file to use.",
			DefaultText: config.CONFIG_FILE + " in the current directory, $HOME/ or $HOME/.config/" + config.CONFIG_DIR + "/" + config.CONFIG_FILE,
			EnvVars:     []string{config.CONFIG_ENV_PREFIX + "_CONFIG"},
			AssignTo:    &configFile,
			Global:      true,
		},
		&cli.StringFlag{
			Name:         "log-level",
			Usage:        "Log level one of trace, debug, info, warn, error, fatal, panic",
			ConfigPath:   []string{"log.level"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_LOGLEVEL"},
			DefaultValue: "info",
			Global:       true,
		},
		&cli.StringFlag{
			Name:       "url",
			Aliases:    []string{"u"},
			Usage:      "The address of the Coder server.",
			ConfigPath: []string{"server.url"},
			EnvVars:    []string{config.CONFIG_ENV_PREFIX + "_URL"},
			Global:     true,
		},
		&cli.StringFlag{
			Name:       "token",
			Aliases:    []string{"t"},
			Usage:      "The session token to use for authentication.",
			ConfigPath: []string{"server.token"},
			EnvVars:    []string{config.CONFIG_ENV_PREFIX + "_SESSION_TOKEN", config.CONFIG_ENV_PREFIX + "_TOKEN"},
			Global:     true,
		},
		&cli.StringFlag{
			Name:         "token-file",
			Usage:        "File to read the session token from when no token is given.",
			ConfigPath:   []string{"server.token_file"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_TOKEN_FILE"},
			DefaultValue: config.DEFAULT_TOKEN_FILE,
			Global:       true,
		},
		&cli.BoolFlag{
			Name:         "tls-skip-verify",
			Usage:        "Skip TLS verification.",
			ConfigPath:   []string{"tls.skip_verify"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_TLS_SKIP_VERIFY"},
			DefaultValue: false,
			Global:       true,
		},
		&cli.BoolFlag{
			Name:         "dry-run",
			Aliases:      []string{"n"},
			Usage:        "Show what would change without sending any updates.",
			ConfigPath:   []string{"dry_run"},
			EnvVars:      []string{"DRY_RUN", config.CONFIG_ENV_PREFIX + "_DRY_RUN"},
			DefaultValue: false,
			Global:       true,
		},
		&cli.IntFlag{
			Name:         "default-ttl-hours",
			Usage:        "Workspaces with a TTL below this many hours are raised to it.",
			ConfigPath:   []string{"ttl.default_hours"},
			EnvVars:      []string{"DEFAULT_TTL_HOURS"},
			DefaultValue: config.DefaultTTLHours,
			Global:       true,
		},
		&cli.BoolFlag{
			Name:         "plus-one-workspace-ttl",
			Usage:        "Add one hour to the TTL applied to workspaces.",
			ConfigPath:   []string{"ttl.plus_one"},
			EnvVars:      []string{"PLUS_ONE_WORKSPACE_TTL"},
			DefaultValue: false,
			Global:       true,
		},
		&cli.BoolFlag{
			Name:         "plus-one-dormancy-ttl",
			Usage:        "Add one hour to the auto deletion window set on templates.",
			ConfigPath:   []string{"dormancy.plus_one"},
			EnvVars:      []string{"PLUS_ONE_DORMANCY_TTL"},
			DefaultValue: false,
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "output",
			Aliases:      []string{"o"},
			Usage:        "Output format one of table, json, yaml, toml.",
			ConfigPath:   []string{"output.format"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_OUTPUT"},
			DefaultValue: string(config.OutputTable),
			Global:       true,
		},
		&cli.BoolFlag{
			Name:         "no-color",
			Usage:        "Disable colored output.",
			ConfigPath:   []string{"output.no_color"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_NO_COLOR"},
			DefaultValue: false,
			Global:       true,
		},
		&cli.IntFlag{
			Name:         "rate-limit",
			Usage:        "Maximum API requests per second, 0 for no limit.",
			ConfigPath:   []string{"server.rate_limit"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_RATE_LIMIT"},
			DefaultValue: 0,
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "timeout",
			Usage:        "Timeout for each API request, 0 for none.",
			ConfigPath:   []string{"server.timeout"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_TIMEOUT"},
			DefaultValue: config.DefaultTimeout.String(),
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "settle-timeout",
			Usage:        "How long to wait for a workspace to leave dormancy before setting it dormant again.",
			ConfigPath:   []string{"dormancy.settle_timeout"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_SETTLE_TIMEOUT"},
			DefaultValue: config.DefaultSettleTimeout.String(),
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "settle-interval",
			Usage:        "Initial interval between dormancy checks, doubled after each check.",
			ConfigPath:   []string{"dormancy.settle_interval"},
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_SETTLE_INTERVAL"},
			DefaultValue: config.DefaultSettleInterval.String(),
			Global:       true,
		},
	},
	Arguments: []cli.Argument{
		cmdutil.FilterArg(),
	},
	MaxArgs: cli.NoArgs,
	Commands: []*cli.Command{
		bumpCmd,
		extendDormancyCmd,
		command_templates.TemplateCmd,
		command_ttl.TTLCmd,
		command_audit.AuditCmd,
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return cmdutil.Run(ctx, cmd, config.ActionBumpTTL, cmdutil.Request{})
	},
}
