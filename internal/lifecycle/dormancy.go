package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/log"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util"
)

// Upper bound for the poll interval as a multiple of the configured interval.
const maxIntervalFactor = 4

// ExtendDormancy resets the deletion clock of dormant workspaces scheduled for deletion.
//
// The platform has no call to reschedule deletion. Clearing and setting
// dormancy restarts the clock at now plus the template auto-deletion window,
// so the requested extension is reported but the template decides the result.
func (s *Service) ExtendDormancy(ctx context.Context) (*report.Table, Summary, error) {
	var summary Summary

	workspaces, err := s.listWorkspaces(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to list workspaces: %w", err)
	}

	table := report.NewTable(
		fmt.Sprintf("Dormant workspaces (extend by %dh)", s.cfg.DormancyExtensionHours),
		"Name", "Owner", "Status", "Dormant", "Time Remaining", "Action",
	)

	if len(workspaces) == 0 {
		s.console.Info("No workspaces found")
		return table, summary, nil
	}

	warned := false
	extension := time.Duration(s.cfg.DormancyExtensionHours) * time.Hour

	for i := range workspaces {
		ws := &workspaces[i]
		summary.Checked++

		remaining := report.FormatRemaining(ws.DeletingAt, s.now())
		var action string
		level := report.LevelNone

		switch {
		case !ws.IsDormant():
			summary.Skipped++
			action = "No action needed"

		case ws.DeletingAt == nil:
			summary.Skipped++
			action = "No deletion scheduled"
			level = report.LevelInfo

		default:
			if !warned {
				warned = true
				s.console.Warn("Deletion is rescheduled by toggling dormancy: the new deletion time follows the template auto-deletion window, the requested %dh is not applied directly", s.cfg.DormancyExtensionHours)
			}

			intended := ws.DeletingAt.Add(extension)

			if s.cfg.DryRun {
				summary.Planned++
				action = dryRunPrefix(true, "Extend deletion to "+util.FormatTime(&intended, nil))
				level = report.LevelWarning
				break
			}

			actual, err := s.resetDormancy(ctx, ws)
			if err != nil {
				log.Debug("dormancy reset failed", "workspace", ws.Name, "error", err)
				summary.Failed++
				action = "Failed: " + err.Error()
				level = report.LevelError
				s.console.Error("Failed to extend %s/%s: %v", ws.OwnerName, ws.Name, err)
				break
			}

			summary.Updated++
			level = report.LevelSuccess
			if actual != nil {
				action = fmt.Sprintf("Deletion reset to %s (requested %s)", util.FormatTime(actual, nil), util.FormatTime(&intended, nil))
			} else {
				action = fmt.Sprintf("Dormancy reset (requested %s)", util.FormatTime(&intended, nil))
			}
		}

		table.Add(level,
			ws.Name,
			ws.OwnerName,
			ws.LatestBuild.Status,
			yesNo(ws.IsDormant()),
			remaining,
			action,
		)
	}

	return table, summary, nil
}

// resetDormancy clears dormancy, waits for it to settle and sets it again.
// It returns the deletion time reported after the reset, nil if it could not be read.
func (s *Service) resetDormancy(ctx context.Context, ws *apiclient.Workspace) (*time.Time, error) {
	if _, err := s.api.SetWorkspaceDormant(ctx, ws.Id, false); err != nil {
		return nil, fmt.Errorf("un-dormant: %w", err)
	}

	settled, err := s.waitUntilActive(ctx, ws.Id)
	if err != nil {
		return nil, fmt.Errorf("waiting for un-dormant: %w", err)
	}
	if !settled {
		log.Warn("workspace still reported dormant after settle timeout", "workspace", ws.Name, "timeout", s.cfg.SettleTimeout)
	}

	if _, err := s.api.SetWorkspaceDormant(ctx, ws.Id, true); err != nil {
		return nil, fmt.Errorf("re-dormant: %w", err)
	}

	updated, _, err := s.api.GetWorkspace(ctx, ws.Id)
	if err != nil {
		log.Debug("failed to read workspace after dormancy reset", "workspace", ws.Name, "error", err)
		return nil, nil
	}

	return updated.DeletingAt, nil
}

// waitUntilActive polls the workspace until it is no longer dormant or the
// settle timeout passes. The interval doubles up to maxIntervalFactor times
// the configured one. A timeout is not an error.
func (s *Service) waitUntilActive(ctx context.Context, workspaceId string) (bool, error) {
	if s.cfg.SettleTimeout <= 0 {
		return false, nil
	}

	deadline := s.now().Add(s.cfg.SettleTimeout)
	interval := s.cfg.SettleInterval
	maxInterval := s.cfg.SettleInterval * maxIntervalFactor

	for {
		wait := interval
		if left := deadline.Sub(s.now()); left < wait {
			wait = left
		}

		if err := s.sleep(ctx, wait); err != nil {
			return false, err
		}

		ws, _, err := s.api.GetWorkspace(ctx, workspaceId)
		if err == nil && !ws.IsDormant() {
			return true, nil
		}
		if err != nil {
			log.Debug("settle poll failed", "workspace", workspaceId, "error", err)
		}

		if !s.now().Before(deadline) {
			return false, nil
		}

		interval *= 2
		if interval > maxInterval {
			interval = maxInterval
		}
	}
}
