package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditStarts(t *testing.T) {
	api := newFakeAPI()
	api.addWorkspace(apiclient.Workspace{Id: "w1", Name: "dev", TTLMillis: ttl(28800000)})
	api.addWorkspace(apiclient.Workspace{Id: "w2", Name: "scratch"})

	started := testNow.Add(-time.Hour)
	api.audit = []apiclient.AuditLogEntry{
		{
			Time: started, Action: "start", ResourceType: "workspace_build",
			User:             &apiclient.User{Username: "alice"},
			AdditionalFields: map[string]interface{}{"workspace_name": "dev", "workspace_id": "w1"},
		},
		{
			Time: started, Action: "stop", ResourceType: "workspace_build",
			User:             &apiclient.User{Username: "alice"},
			AdditionalFields: map[string]interface{}{"workspace_name": "dev", "workspace_id": "w1"},
		},
		{
			Time: started, Action: "start", ResourceType: "template",
		},
		{
			Time: started, Action: "start", ResourceType: "workspace_build",
			AdditionalFields: map[string]interface{}{"workspace_name": "scratch", "workspace_id": "w2"},
		},
		{
			Time: started, Action: "start", ResourceType: "workspace_build",
			User: &apiclient.User{Username: "bob"},
		},
	}

	svc, _, out := newTestService(t, api, testConfig(nil))

	table, err := svc.AuditStarts(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"alice", "dev", "w1", util.FormatTime(&started, time.UTC), "28800000"}, table.Rows[0].Cells)
	assert.Equal(t, []string{"N/A", "scratch", "w2", util.FormatTime(&started, time.UTC), "N/A"}, table.Rows[1].Cells)
	assert.Equal(t, []string{"bob", "N/A", "N/A", util.FormatTime(&started, time.UTC), "N/A"}, table.Rows[2].Cells)

	assert.Contains(t, out.String(), "Total workspace start events found: 3")
	assert.Empty(t, api.mutations())
}

func TestAuditStartsUnknownWorkspace(t *testing.T) {
	api := newFakeAPI()
	api.audit = []apiclient.AuditLogEntry{
		{
			Time: testNow, Action: "start", ResourceType: "workspace_build",
			AdditionalFields: map[string]interface{}{"workspace_name": "gone", "workspace_id": "deleted"},
		},
	}

	svc, _, _ := newTestService(t, api, testConfig(nil))

	table, err := svc.AuditStarts(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "N/A", table.Rows[0].Cells[4])
}

func TestAuditStartsRendersUTC(t *testing.T) {
	api := newFakeAPI()
	local := time.FixedZone("CEST", 2*60*60)
	api.audit = []apiclient.AuditLogEntry{
		{
			Time: time.Date(2026, 10, 15, 14, 0, 0, 0, local), Action: "start", ResourceType: "workspace_build",
			User: &apiclient.User{Username: "alice"},
		},
	}

	svc, _, _ := newTestService(t, api, testConfig(nil))

	table, err := svc.AuditStarts(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2026-10-15 12:00:00", table.Rows[0].Cells[3])
}

func TestAuditWorkspaces(t *testing.T) {
	api := newFakeAPI()
	deadline := testNow.Add(6 * time.Hour)
	maxDeadline := testNow.Add(18 * time.Hour)
	lastUsed := testNow.Add(-30 * time.Minute)

	api.addWorkspace(apiclient.Workspace{
		Id: "w1", Name: "web", OwnerName: "bob", TemplateName: "docker", TTLMillis: ttl(28800000),
		LatestBuild: apiclient.WorkspaceBuild{Status: "running", Transition: "start", Deadline: &deadline, MaxDeadline: &maxDeadline},
		LastUsedAt:  &lastUsed,
	})
	api.addWorkspace(apiclient.Workspace{
		Id: "w2", Name: "Api", OwnerName: "alice", TemplateName: "k8s",
		LatestBuild: apiclient.WorkspaceBuild{Status: "running", MaxDeadline: ts(testNow.Add(-time.Minute))},
	})
	api.addWorkspace(apiclient.Workspace{
		Id: "w3", Name: "old", OwnerName: "Aaron",
		LatestBuild: apiclient.WorkspaceBuild{Status: "stopped", Transition: "stop"},
	})

	svc, _, out := newTestService(t, api, testConfig(func(c *config.RunConfig) { c.Filter = "owner:me" }))

	table, err := svc.AuditWorkspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, []string{"alice", "Api", "k8s", "running", "N/A", "unlimited", "N/A", "2026-10-15 11:59:00"}, table.Rows[0].Cells)
	assert.Equal(t, report.LevelWarning, table.Rows[0].Level)

	assert.Equal(t, []string{"bob", "web", "docker", "running (start)", "2026-10-15 11:30:00", "8h", "2026-10-15 18:00:00", "2026-10-16 06:00:00"}, table.Rows[1].Cells)
	assert.Equal(t, report.LevelNone, table.Rows[1].Level)

	assert.Equal(t, "/workspaces?q=owner:me", api.calls[0].Path)
	assert.Empty(t, api.mutations())
	assert.Contains(t, out.String(), "Total running workspaces: 2")
}

func TestAuditWorkspacesNoneRunning(t *testing.T) {
	api := newFakeAPI()
	api.addWorkspace(apiclient.Workspace{Id: "w1", Name: "dev", OwnerName: "alice", LatestBuild: apiclient.WorkspaceBuild{Status: "stopped"}})

	svc, _, out := newTestService(t, api, testConfig(nil))

	table, err := svc.AuditWorkspaces(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Contains(t, out.String(), "No running workspaces found")
}

func TestAuditDeleted(t *testing.T) {
	api := newFakeAPI()
	seen := testNow.Add(-2 * time.Hour)
	api.users = []apiclient.User{
		{Username: "carol"},
		{Username: "Bob", LastSeenAt: &seen},
		{Username: "alice"},
	}

	deletedAt := time.Date(2026, 10, 10, 8, 15, 0, 0, time.UTC)
	api.audit = []apiclient.AuditLogEntry{
		{
			Time: deletedAt, Action: "delete", ResourceType: "workspace_build",
			User:             &apiclient.User{Username: "Bob"},
			AdditionalFields: map[string]interface{}{"workspace_name": "scratch"},
		},
		{
			Time: deletedAt.Add(time.Hour), Action: "delete", ResourceType: "workspace",
			ResourceTarget: "legacy",
			User:           &apiclient.User{Username: "Bob"},
		},
		{
			Time: deletedAt, Action: "delete", ResourceType: "template",
			ResourceTarget: "docker",
			User:           &apiclient.User{Username: "alice"},
		},
		{
			Time: deletedAt, Action: "create", ResourceType: "workspace",
			ResourceTarget: "fresh",
			User:           &apiclient.User{Username: "alice"},
		},
		{
			Time: deletedAt, Action: "delete", ResourceType: "workspace",
			ResourceTarget: "orphan",
		},
		{
			Time: deletedAt, Action: "delete", ResourceType: "workspace",
			ResourceTarget: "leftover",
			User:           &apiclient.User{Username: "dave"},
		},
	}

	svc, _, out := newTestService(t, api, testConfig(nil))

	table, err := svc.AuditDeleted(context.Background())
	require.NoError(t, err)

	require.Len(t, table.Rows, 5)
	assert.Equal(t, []string{"alice", "N/A", "N/A", "No deleted workspaces found"}, table.Rows[0].Cells)
	assert.Equal(t, []string{"Bob", "2026-10-15 10:00:00", "scratch", "2026-10-10 08:15:00"}, table.Rows[1].Cells)
	assert.Equal(t, []string{"Bob", "2026-10-15 10:00:00", "legacy", "2026-10-10 09:15:00"}, table.Rows[2].Cells)
	assert.Equal(t, report.LevelWarning, table.Rows[2].Level)
	assert.Equal(t, []string{"carol", "N/A", "N/A", "No deleted workspaces found"}, table.Rows[3].Cells)
	assert.Equal(t, []string{"dave", "N/A", "leftover", "2026-10-10 08:15:00"}, table.Rows[4].Cells)

	assert.Contains(t, out.String(), "Total workspace delete events found: 3")
	assert.Empty(t, api.mutations())
}
