package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util/rest"
)

type call struct {
	Method string
	Path   string
	Body   interface{}
}

// fakeAPI is an in-memory platform recording every request it receives.
type fakeAPI struct {
	workspaces    map[string]*apiclient.Workspace
	order         []string
	templates     map[string]*apiclient.Template
	templateOrder []string
	audit         []apiclient.AuditLogEntry
	users         []apiclient.User

	calls []call

	listErr       error
	failTTL       map[string]error
	failExtend    map[string]error
	failDormant   map[string]map[bool]error
	templateCode  int
	templateBody  string
	clearDormancy bool
	autoDeletion  time.Duration
	now           func() time.Time
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		workspaces:    map[string]*apiclient.Workspace{},
		templates:     map[string]*apiclient.Template{},
		failTTL:       map[string]error{},
		failExtend:    map[string]error{},
		failDormant:   map[string]map[bool]error{},
		templateCode:  http.StatusOK,
		clearDormancy: true,
		autoDeletion:  7 * 24 * time.Hour,
		now:           time.Now,
	}
}

func (f *fakeAPI) addWorkspace(ws apiclient.Workspace) {
	w := ws
	f.workspaces[w.Id] = &w
	f.order = append(f.order, w.Id)
}

func (f *fakeAPI) addTemplate(t apiclient.Template) {
	tpl := t
	f.templates[tpl.Id] = &tpl
	f.templateOrder = append(f.templateOrder, tpl.Id)
}

func (f *fakeAPI) record(method, path string, body interface{}) {
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
}

func (f *fakeAPI) mutations() []call {
	var out []call
	for _, c := range f.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) ListWorkspaces(ctx context.Context, query string) (*apiclient.WorkspaceList, int, error) {
	f.record(http.MethodGet, "/workspaces?q="+query, nil)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}

	list := &apiclient.WorkspaceList{}
	for _, id := range f.order {
		list.Workspaces = append(list.Workspaces, *f.workspaces[id])
	}
	list.Count = len(list.Workspaces)
	return list, http.StatusOK, nil
}

func (f *fakeAPI) GetWorkspace(ctx context.Context, workspaceId string) (*apiclient.Workspace, int, error) {
	f.record(http.MethodGet, "/workspaces/"+workspaceId, nil)
	ws, ok := f.workspaces[workspaceId]
	if !ok {
		return nil, http.StatusNotFound, errors.New("not found")
	}
	cp := *ws
	return &cp, http.StatusOK, nil
}

func (f *fakeAPI) SetWorkspaceTTL(ctx context.Context, workspaceId string, ttlMillis int64) (int, error) {
	f.record(http.MethodPut, "/workspaces/"+workspaceId+"/ttl", ttlMillis)
	if err := f.failTTL[workspaceId]; err != nil {
		return http.StatusInternalServerError, err
	}
	if ws, ok := f.workspaces[workspaceId]; ok {
		v := ttlMillis
		ws.TTLMillis = &v
	}
	return http.StatusNoContent, nil
}

func (f *fakeAPI) ExtendWorkspace(ctx context.Context, workspaceId string, deadline time.Time) (int, error) {
	f.record(http.MethodPut, "/workspaces/"+workspaceId+"/extend", deadline)
	if err := f.failExtend[workspaceId]; err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (f *fakeAPI) SetWorkspaceDormant(ctx context.Context, workspaceId string, dormant bool) (int, error) {
	f.record(http.MethodPut, "/workspaces/"+workspaceId+"/dormant", dormant)
	if errs, ok := f.failDormant[workspaceId]; ok {
		if err := errs[dormant]; err != nil {
			return http.StatusInternalServerError, err
		}
	}

	ws, ok := f.workspaces[workspaceId]
	if !ok {
		return http.StatusNotFound, errors.New("not found")
	}

	if dormant {
		now := f.now()
		deleting := now.Add(f.autoDeletion)
		ws.DormantAt = &now
		ws.DeletingAt = &deleting
	} else if f.clearDormancy {
		ws.DormantAt = nil
		ws.DeletingAt = nil
	}
	return http.StatusOK, nil
}

func (f *fakeAPI) GetTemplates(ctx context.Context) ([]apiclient.Template, int, error) {
	f.record(http.MethodGet, "/templates", nil)
	var out []apiclient.Template
	for _, id := range f.templateOrder {
		out = append(out, *f.templates[id])
	}
	return out, http.StatusOK, nil
}

func (f *fakeAPI) GetTemplate(ctx context.Context, templateId string) (*apiclient.Template, int, error) {
	f.record(http.MethodGet, "/templates/"+templateId, nil)
	t, ok := f.templates[templateId]
	if !ok {
		return nil, http.StatusNotFound, errors.New("not found")
	}
	cp := *t
	return &cp, http.StatusOK, nil
}

func (f *fakeAPI) UpdateTemplateDormancy(ctx context.Context, templateId string, thresholdMs int64, autoDeletionMs int64) (int, error) {
	f.record(http.MethodPatch, "/templates/"+templateId, apiclient.TemplateDormancyRequest{
		DormancyThresholdMs:    thresholdMs,
		DormancyAutoDeletionMs: autoDeletionMs,
	})
	if f.templateCode != http.StatusOK {
		return f.templateCode, &rest.StatusError{StatusCode: f.templateCode, Body: f.templateBody}
	}
	return http.StatusOK, nil
}

func (f *fakeAPI) GetAuditLogs(ctx context.Context, limit int, query string) (*apiclient.AuditLogs, int, error) {
	f.record(http.MethodGet, "/audit", nil)
	return &apiclient.AuditLogs{AuditLogs: f.audit, Count: len(f.audit)}, http.StatusOK, nil
}

func (f *fakeAPI) GetUsers(ctx context.Context) (*apiclient.UserList, int, error) {
	f.record(http.MethodGet, "/users", nil)
	return &apiclient.UserList{Users: f.users, Count: len(f.users)}, http.StatusOK, nil
}

// fakeClock advances only when the service sleeps.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func testConfig(mod func(c *config.RunConfig)) *config.RunConfig {
	cfg := &config.RunConfig{
		BaseURL:                "https://coder.example.com",
		Token:                  "t",
		DefaultTTLHours:        8,
		DormancyExtensionHours: 24,
		Output:                 config.OutputTable,
		SettleTimeout:          2 * time.Second,
		SettleInterval:         500 * time.Millisecond,
	}
	if mod != nil {
		mod(cfg)
	}
	return cfg
}

func newTestService(t *testing.T, api *fakeAPI, cfg *config.RunConfig) (*Service, *fakeClock, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	clock := &fakeClock{t: testNow}
	api.now = clock.Now

	svc := NewService(api, cfg, report.NewConsole(&buf, true))
	svc.now = clock.Now
	svc.sleep = clock.Sleep
	return svc, clock, &buf
}

func ttl(ms int64) *int64 {
	return &ms
}

func ts(t time.Time) *time.Time {
	return &t
}

func cell(t *testing.T, tbl *report.Table, name string, column string) string {
	t.Helper()

	col := -1
	for i, c := range tbl.Columns {
		if c == column {
			col = i
		}
	}
	if col < 0 {
		t.Fatalf("no column %q", column)
	}

	for _, row := range tbl.Rows {
		if row.Cells[0] == name {
			return row.Cells[col]
		}
	}
	t.Fatalf("no row %q", name)
	return ""
}
