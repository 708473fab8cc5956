package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/log"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util"
)

// NeedsTTLUpdate is true when the TTL is unset, zero or below the default.
func NeedsTTLUpdate(ttlMillis *int64, defaultHours int64) bool {
	if ttlMillis == nil || *ttlMillis == 0 {
		return true
	}
	return *ttlMillis < util.HoursToMillis(defaultHours)
}

// CandidateTTL is the TTL applied to every workspace needing an update in a run.
func CandidateTTL(defaultHours int64, plusOne bool) int64 {
	if plusOne {
		return util.HoursToMillis(defaultHours + 1)
	}
	return util.HoursToMillis(defaultHours)
}

// ExtendDeadline returns now plus the candidate in whole hours.
// The division truncates, so a candidate under one hour adds nothing.
func ExtendDeadline(now time.Time, candidateMillis int64) time.Time {
	return now.Add(time.Duration(util.MillisToHours(candidateMillis)) * time.Hour)
}

type TTLPlan struct {
	NeedsUpdate  bool
	PlusOne      bool
	Extend       bool
	TargetMillis int64
	Deadline     time.Time
}

func PlanTTL(ws *apiclient.Workspace, defaultHours int64, plusOne bool, now time.Time) TTLPlan {
	if !NeedsTTLUpdate(ws.TTLMillis, defaultHours) {
		return TTLPlan{}
	}

	plan := TTLPlan{
		NeedsUpdate:  true,
		PlusOne:      plusOne,
		TargetMillis: CandidateTTL(defaultHours, plusOne),
		Extend:       ws.IsRunning(),
	}
	if plan.Extend {
		plan.Deadline = ExtendDeadline(now, plan.TargetMillis)
	}

	return plan
}

func (p TTLPlan) Describe() string {
	if !p.NeedsUpdate {
		return "No action needed"
	}

	hours := util.FormatHours(p.TargetMillis)
	switch {
	case p.Extend && p.PlusOne:
		return "PlusOne extend to " + hours
	case p.Extend:
		return "Extend to " + hours
	case p.PlusOne:
		return "PlusOne TTL to " + hours
	default:
		return "Set TTL to " + hours
	}
}

// FormatTTL keeps null and zero apart, the platform gives them different meanings.
func FormatTTL(ttlMillis *int64) string {
	if ttlMillis == nil {
		return "unlimited"
	}
	if *ttlMillis == 0 {
		return "unset"
	}
	return util.FormatHours(*ttlMillis)
}

func (s *Service) applyTTL(ctx context.Context, ws *apiclient.Workspace, plan TTLPlan) error {
	if plan.Extend {
		_, err := s.api.ExtendWorkspace(ctx, ws.Id, plan.Deadline)
		return err
	}

	_, err := s.api.SetWorkspaceTTL(ctx, ws.Id, plan.TargetMillis)
	return err
}

// BumpTTL raises the TTL of every listed workspace below the default.
func (s *Service) BumpTTL(ctx context.Context) (*report.Table, Summary, error) {
	var summary Summary

	workspaces, err := s.listWorkspaces(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to list workspaces: %w", err)
	}

	table := report.NewTable(
		fmt.Sprintf("Workspace TTL (default %dh)", s.cfg.DefaultTTLHours),
		"Name", "Owner", "Status", "TTL", "Last Used", "Dormant", "Action",
	)

	if len(workspaces) == 0 {
		s.console.Info("No workspaces found")
		return table, summary, nil
	}

	for i := range workspaces {
		ws := &workspaces[i]
		summary.Checked++

		plan := PlanTTL(ws, s.cfg.DefaultTTLHours, s.cfg.PlusOneWorkspaceTTL, s.now())
		action := plan.Describe()
		level := report.LevelNone

		switch {
		case !plan.NeedsUpdate:
			summary.Skipped++

		case s.cfg.DryRun:
			summary.Planned++
			action = dryRunPrefix(true, action)
			level = report.LevelWarning

		default:
			if err := s.applyTTL(ctx, ws, plan); err != nil {
				log.Debug("ttl update failed", "workspace", ws.Name, "error", err)
				summary.Failed++
				action = "Failed: " + err.Error()
				level = report.LevelError
				s.console.Error("Failed to update %s/%s: %v", ws.OwnerName, ws.Name, err)
			} else {
				summary.Updated++
				level = report.LevelSuccess
			}
		}

		table.Add(level,
			ws.Name,
			ws.OwnerName,
			ws.LatestBuild.Status,
			FormatTTL(ws.TTLMillis),
			util.FormatTime(ws.LastUsedAt, nil),
			yesNo(ws.IsDormant()),
			action,
		)
	}

	return table, summary, nil
}

// ErrWorkspaceUpdateFailed is returned once the failure has been written to the console.
var ErrWorkspaceUpdateFailed = errors.New("workspace update failed")

// SetWorkspaceTTL sets the TTL of a single workspace by id.
func (s *Service) SetWorkspaceTTL(ctx context.Context, workspaceId string, ttlMillis int64) error {
	if err := ValidateID(workspaceId); err != nil {
		return fmt.Errorf("workspace %q: %w", workspaceId, err)
	}
	if ttlMillis < 0 {
		return fmt.Errorf("ttl must not be negative, got %d", ttlMillis)
	}

	if s.cfg.DryRun {
		s.console.Warn("[DRY RUN] Would set TTL for workspace %s to %d ms (%s)", workspaceId, ttlMillis, util.FormatHours(ttlMillis))
		return nil
	}

	if _, err := s.api.SetWorkspaceTTL(ctx, workspaceId, ttlMillis); err != nil {
		s.console.Error("Failed to update TTL for workspace %s: %v", workspaceId, err)
		return ErrWorkspaceUpdateFailed
	}

	s.console.Success("Successfully updated TTL for workspace %s to %d ms.", workspaceId, ttlMillis)
	return nil
}
