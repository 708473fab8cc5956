package cmdutil

import (
	"context"
	"fmt"

	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/lifecycle"
	"github.com/bjornrobertsson/coderttl/internal/report"
)

func dispatch(ctx context.Context, svc *lifecycle.Service, cfg *config.RunConfig, out *report.Console, status *report.Console, req Request) error {
	switch cfg.Action {
	case config.ActionBumpTTL:
		table, summary, err := svc.BumpTTL(ctx)
		if err != nil {
			return err
		}
		return renderRun(out, status, cfg, table, summary)

	case config.ActionExtendDormancy:
		table, summary, err := svc.ExtendDormancy(ctx)
		if err != nil {
			return err
		}
		return renderRun(out, status, cfg, table, summary)

	case config.ActionSetTemplateDormancy:
		return svc.SetTemplateDormancy(ctx, req.ID, req.ThresholdHours, req.DeletionHours)

	case config.ActionGetTemplateDormancy:
		table, err := svc.GetTemplateDormancy(ctx, req.ID)
		if err != nil {
			return err
		}
		return report.Render(out, table, cfg.Output)

	case config.ActionListTemplates:
		table, err := svc.ListTemplates(ctx)
		if err != nil {
			return err
		}
		return renderRows(out, cfg, table)

	case config.ActionSetWorkspaceTTL:
		return svc.SetWorkspaceTTL(ctx, req.ID, req.TTLMillis)

	case config.ActionAuditStarts:
		table, err := svc.AuditStarts(ctx)
		if err != nil {
			return err
		}
		return renderRows(out, cfg, table)

	case config.ActionAuditWorkspaces:
		table, err := svc.AuditWorkspaces(ctx)
		if err != nil {
			return err
		}
		return renderRows(out, cfg, table)

	case config.ActionAuditDeleted:
		table, err := svc.AuditDeleted(ctx)
		if err != nil {
			return err
		}
		return renderRows(out, cfg, table)
	}

	return fmt.Errorf("no handler for action %s", cfg.Action)
}

// renderRows skips an empty table in table mode, the service has already said so.
// Documents are always written so the output stays parseable.
func renderRows(out *report.Console, cfg *config.RunConfig, table *report.Table) error {
	if cfg.Output == config.OutputTable && len(table.Rows) == 0 {
		return nil
	}
	return report.Render(out, table, cfg.Output)
}

func renderRun(out *report.Console, status *report.Console, cfg *config.RunConfig, table *report.Table, summary lifecycle.Summary) error {
	if err := renderRows(out, cfg, table); err != nil {
		return err
	}

	if summary.Checked == 0 {
		return nil
	}

	status.Print(report.LevelNone, "")
	if cfg.DryRun {
		status.Warn("Checked %d workspaces, %d would be updated, %d unchanged", summary.Checked, summary.Planned, summary.Skipped)
		return nil
	}

	level := report.LevelSuccess
	if summary.Failed > 0 {
		level = report.LevelError
	}
	status.Print(level, "Checked %d workspaces, %d updated, %d unchanged, %d failed", summary.Checked, summary.Updated, summary.Skipped, summary.Failed)
	return nil
}
