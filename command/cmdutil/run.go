package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/lifecycle"
	"github.com/bjornrobertsson/coderttl/internal/log"
	"github.com/bjornrobertsson/coderttl/internal/report"

	"github.com/paularlott/cli"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Request carries the positional arguments of the single item actions.
type Request struct {
	ID             string
	ThresholdHours int64
	DeletionHours  int64
	TTLMillis      int64
}

// FilterArg is the optional workspace query shared by the workspace commands.
func FilterArg() cli.Argument {
	return &cli.StringArg{
		Name:  "filter",
		Usage: `Workspace filter query, e.g. "owner:me"`,
	}
}

// Run builds the configuration and API client from the command flags and performs action.
func Run(ctx context.Context, cmd *cli.Command, action config.Action, req Request) error {
	log.Configure(cmd.GetString("log-level"), Stderr)

	cfg, err := config.FromCommand(cmd, action)
	if err != nil {
		return err
	}

	client, err := apiclient.NewClient(cfg.BaseURL, cfg.Token, cfg.TLSSkipVerify)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	defer client.Close()

	client.AppendUserAgent("(" + cfg.Action.String() + ")").
		SetRateLimit(cfg.RateLimit).
		SetTimeout(cfg.Timeout)

	log.Debug("running action", "action", cfg.Action.String(), "url", cfg.BaseURL, "dry_run", cfg.DryRun, "timeout", cfg.Timeout)

	return Execute(ctx, client, cfg, req)
}

// Execute wires the service to the consoles. Documents go to stdout, so in
// json, yaml or toml mode the progress messages move to stderr.
func Execute(ctx context.Context, api lifecycle.API, cfg *config.RunConfig, req Request) error {
	out := report.NewConsole(Stdout, cfg.NoColor)
	status := out
	if cfg.Output != config.OutputTable {
		status = report.NewConsole(Stderr, cfg.NoColor)
	}

	if cfg.Action.Mutates() {
		if cfg.DryRun {
			status.Warn("Dry run mode, no changes will be made")
		} else {
			log.Info("applying changes", "action", cfg.Action.String(), "url", cfg.BaseURL)
		}
	}

	svc := lifecycle.NewService(api, cfg, status)
	return dispatch(ctx, svc, cfg, out, status, req)
}
