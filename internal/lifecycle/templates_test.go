package lifecycle

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateID = "0d9b6a3c-2f1e-4c7a-8b5d-6e4f3a2b1c0d"

func TestDormancyMillis(t *testing.T) {
	tests := []struct {
		name      string
		threshold int64
		deletion  int64
		plusOne   bool
		wantT     int64
		wantD     int64
	}{
		{name: "plain", threshold: 720, deletion: 168, wantT: 720 * 3600000, wantD: 168 * 3600000},
		{name: "plus one", threshold: 720, deletion: 168, plusOne: true, wantT: 720 * 3600000, wantD: 169 * 3600000},
		{name: "plus one skips disabled deletion", threshold: 720, deletion: 0, plusOne: true, wantT: 720 * 3600000, wantD: 0},
		{name: "threshold never bumped", threshold: 0, deletion: 1, plusOne: true, wantT: 0, wantD: 2 * 3600000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, gotD := DormancyMillis(tt.threshold, tt.deletion, tt.plusOne)
			assert.Equal(t, tt.wantT, gotT)
			assert.Equal(t, tt.wantD, gotD)
		})
	}
}

func TestSetTemplateDormancyPlusOne(t *testing.T) {
	api := newFakeAPI()
	svc, _, out := newTestService(t, api, testConfig(func(c *config.RunConfig) { c.PlusOneDormancyTTL = true }))

	require.NoError(t, svc.SetTemplateDormancy(context.Background(), templateID, 720, 168))

	require.Len(t, api.calls, 1)
	assert.Equal(t, call{
		Method: http.MethodPatch,
		Path:   "/templates/" + templateID,
		Body:   apiclient.TemplateDormancyRequest{DormancyThresholdMs: 2592000000, DormancyAutoDeletionMs: 608400000},
	}, api.calls[0])
	assert.Contains(t, out.String(), "dormancy threshold 720h, auto deletion 169h")
}

func TestSetTemplateDormancySendsBothFields(t *testing.T) {
	api := newFakeAPI()
	svc, _, out := newTestService(t, api, testConfig(nil))

	require.NoError(t, svc.SetTemplateDormancy(context.Background(), templateID, 0, 0))

	require.Len(t, api.calls, 1)
	assert.Equal(t, apiclient.TemplateDormancyRequest{}, api.calls[0].Body)
	assert.Contains(t, out.String(), "dormancy threshold disabled, auto deletion disabled")
}

func TestSetTemplateDormancyDryRun(t *testing.T) {
	api := newFakeAPI()
	svc, _, out := newTestService(t, api, testConfig(func(c *config.RunConfig) {
		c.DryRun = true
		c.PlusOneDormancyTTL = true
	}))

	require.NoError(t, svc.SetTemplateDormancy(context.Background(), templateID, 720, 168))
	assert.Empty(t, api.calls)
	assert.Contains(t, out.String(), "[DRY RUN] Would update template")
	assert.Contains(t, out.String(), "dormancy_auto_deletion_ms=608400000")
}

func TestSetTemplateDormancyRejects(t *testing.T) {
	api := newFakeAPI()
	svc, _, _ := newTestService(t, api, testConfig(nil))

	err := svc.SetTemplateDormancy(context.Background(), "my-template", 1, 1)
	assert.ErrorIs(t, err, ErrInvalidID)

	err = svc.SetTemplateDormancy(context.Background(), "  ", 1, 1)
	assert.ErrorIs(t, err, ErrMissingID)

	assert.Error(t, svc.SetTemplateDormancy(context.Background(), templateID, -1, 1))
	assert.Empty(t, api.calls)
}

func TestSetTemplateDormancyNon200(t *testing.T) {
	api := newFakeAPI()
	api.templateCode = http.StatusBadRequest
	api.templateBody = `{"message":"Invalid request"}`

	svc, _, out := newTestService(t, api, testConfig(nil))

	err := svc.SetTemplateDormancy(context.Background(), templateID, 720, 168)
	require.ErrorIs(t, err, ErrTemplateUpdateFailed)

	// the details are written once, to the console, not repeated in the returned error
	assert.Contains(t, out.String(), "HTTP 400")
	assert.Contains(t, out.String(), "Invalid request")
	assert.NotContains(t, err.Error(), "Invalid request")
	assert.NotContains(t, err.Error(), templateID)
	assert.Equal(t, 1, strings.Count(out.String(), "Failed to update template"))
}

func TestGetTemplateDormancy(t *testing.T) {
	api := newFakeAPI()
	api.addTemplate(apiclient.Template{Id: templateID, Name: "docker", DisplayName: "Docker Dev", DormancyThresholdMs: 2592000000, DormancyAutoDeletionMs: 0})

	svc, _, _ := newTestService(t, api, testConfig(nil))

	table, err := svc.GetTemplateDormancy(context.Background(), templateID)
	require.NoError(t, err)
	assert.Equal(t, "720h", cell(t, table, "docker", "Dormancy Threshold"))
	assert.Equal(t, "disabled", cell(t, table, "docker", "Auto Deletion"))
	assert.Equal(t, templateID, cell(t, table, "docker", "ID"))
	assert.Equal(t, "Docker Dev", cell(t, table, "docker", "Display Name"))

	_, err = svc.GetTemplateDormancy(context.Background(), "2d9b6a3c-2f1e-4c7a-8b5d-6e4f3a2b1c0d")
	assert.Error(t, err)
}

func TestListTemplates(t *testing.T) {
	api := newFakeAPI()
	api.addTemplate(apiclient.Template{Id: "t1", Name: "docker", DisplayName: "Docker", DormancyThresholdMs: 3600000})
	api.addTemplate(apiclient.Template{Id: "t2", Name: "k8s", DormancyAutoDeletionMs: 5400000})

	svc, _, _ := newTestService(t, api, testConfig(nil))

	table, err := svc.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1h", cell(t, table, "docker", "Dormancy Threshold"))
	assert.Equal(t, "1h 30m", cell(t, table, "k8s", "Auto Deletion"))
	assert.Equal(t, "Docker", cell(t, table, "docker", "Display Name"))
	assert.Equal(t, "k8s", cell(t, table, "k8s", "Display Name"))
}

func TestListTemplatesEmpty(t *testing.T) {
	api := newFakeAPI()
	svc, _, out := newTestService(t, api, testConfig(nil))

	table, err := svc.ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Contains(t, out.String(), "No templates found")
}
