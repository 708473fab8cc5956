package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util"

	"golang.org/x/exp/slices"
)

const (
	auditResourceWorkspace      = "workspace"
	auditResourceWorkspaceBuild = "workspace_build"
	auditActionStart            = "start"
	auditActionDelete           = "delete"
)

// AuditStarts lists workspace start events from the audit log together with
// the current TTL of each workspace.
func (s *Service) AuditStarts(ctx context.Context) (*report.Table, error) {
	logs, _, err := s.api.GetAuditLogs(ctx, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	table := report.NewTable("Workspace Activity Report", "Username", "Workspace Name", "Workspace ID", "Start Time", "TTL (ms)")

	for i := range logs.AuditLogs {
		entry := &logs.AuditLogs[i]
		if entry.ResourceType != auditResourceWorkspaceBuild || entry.Action != auditActionStart {
			continue
		}

		username := entry.Username()
		if username == "" {
			username = "N/A"
		}

		workspaceName := entry.Field("workspace_name")
		if workspaceName == "" {
			workspaceName = "N/A"
		}

		workspaceId := entry.Field("workspace_id")
		ttl := "N/A"
		if workspaceId != "" {
			ws, _, err := s.api.GetWorkspace(ctx, workspaceId)
			if err == nil && ws.TTLMillis != nil {
				ttl = fmt.Sprint(*ws.TTLMillis)
			}
		} else {
			workspaceId = "N/A"
		}

		table.Add(report.LevelNone, username, workspaceName, workspaceId, util.FormatTime(&entry.Time, time.UTC), ttl)
	}

	s.console.Info("Total workspace start events found: %d", len(table.Rows))
	return table, nil
}

// AuditWorkspaces reports the schedule of every running workspace matching
// the filter, ordered by owner then name.
func (s *Service) AuditWorkspaces(ctx context.Context) (*report.Table, error) {
	workspaces, err := s.listWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	table := report.NewTable("Running Workspaces",
		"Username", "Workspace", "Template", "Status", "Last Seen", "TTL", "Deadline", "Max Deadline")

	now := s.now()
	for i := range workspaces {
		ws := &workspaces[i]
		if !ws.IsRunning() {
			continue
		}

		status := ws.LatestBuild.Status
		if ws.LatestBuild.Transition != "" {
			status += " (" + ws.LatestBuild.Transition + ")"
		}

		// the last column carries the row color, a max deadline already passed is flagged
		level := report.LevelNone
		if maxDeadline := ws.LatestBuild.MaxDeadline; maxDeadline != nil && !maxDeadline.IsZero() && !maxDeadline.After(now) {
			level = report.LevelWarning
		}

		table.Add(level,
			ws.OwnerName,
			ws.Name,
			ws.TemplateName,
			status,
			util.FormatTime(ws.LastUsedAt, time.UTC),
			FormatTTL(ws.TTLMillis),
			util.FormatTime(ws.LatestBuild.Deadline, time.UTC),
			util.FormatTime(ws.LatestBuild.MaxDeadline, time.UTC),
		)
	}

	if len(table.Rows) == 0 {
		s.console.Info("No running workspaces found")
	} else {
		s.console.Info("Total running workspaces: %d", len(table.Rows))
	}
	return table, nil
}

type deletion struct {
	workspace string
	at        time.Time
}

// AuditDeleted groups workspace delete events from the audit log by user.
// Every known user gets a row, users with deletions get one row per workspace.
func (s *Service) AuditDeleted(ctx context.Context) (*report.Table, error) {
	logs, _, err := s.api.GetAuditLogs(ctx, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	users, _, err := s.api.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	known := make(map[string]apiclient.User, len(users.Users))
	names := make([]string, 0, len(users.Users))
	for _, u := range users.Users {
		if _, ok := known[u.Username]; !ok {
			names = append(names, u.Username)
		}
		known[u.Username] = u
	}

	byUser := map[string][]deletion{}
	total := 0
	for i := range logs.AuditLogs {
		entry := &logs.AuditLogs[i]
		if entry.Action != auditActionDelete {
			continue
		}
		if entry.ResourceType != auditResourceWorkspace && entry.ResourceType != auditResourceWorkspaceBuild {
			continue
		}

		workspace := entry.Field("workspace_name")
		if workspace == "" {
			workspace = entry.ResourceTarget
		}

		username := entry.Username()
		if workspace == "" || username == "" || entry.Time.IsZero() {
			continue
		}

		// users removed since the deletion are no longer listed but still reported
		if _, ok := known[username]; !ok {
			known[username] = *entry.User
			names = append(names, username)
		}

		byUser[username] = append(byUser[username], deletion{workspace: workspace, at: entry.Time})
		total++
	}

	slices.SortStableFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	table := report.NewTable("Deleted Workspaces", "Username", "Last Seen", "Workspace", "Deleted At")
	for _, name := range names {
		lastSeen := util.FormatTime(known[name].LastSeenAt, time.UTC)

		deleted := byUser[name]
		if len(deleted) == 0 {
			table.Add(report.LevelNone, name, lastSeen, "N/A", "No deleted workspaces found")
			continue
		}

		for _, d := range deleted {
			table.Add(report.LevelWarning, name, lastSeen, d.workspace, util.FormatTime(&d.at, time.UTC))
		}
	}

	s.console.Info("Total workspace delete events found: %d", total)
	return table, nil
}
