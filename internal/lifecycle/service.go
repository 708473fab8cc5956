package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util/validate"

	"golang.org/x/exp/slices"
)

var (
	ErrMissingID = errors.New("missing id")
	ErrInvalidID = errors.New("invalid id, expected a UUID")
)

// API is the subset of the platform client the lifecycle operations need.
type API interface {
	ListWorkspaces(ctx context.Context, query string) (*apiclient.WorkspaceList, int, error)
	GetWorkspace(ctx context.Context, workspaceId string) (*apiclient.Workspace, int, error)
	SetWorkspaceTTL(ctx context.Context, workspaceId string, ttlMillis int64) (int, error)
	ExtendWorkspace(ctx context.Context, workspaceId string, deadline time.Time) (int, error)
	SetWorkspaceDormant(ctx context.Context, workspaceId string, dormant bool) (int, error)
	GetTemplates(ctx context.Context) ([]apiclient.Template, int, error)
	GetTemplate(ctx context.Context, templateId string) (*apiclient.Template, int, error)
	UpdateTemplateDormancy(ctx context.Context, templateId string, thresholdMs int64, autoDeletionMs int64) (int, error)
	GetAuditLogs(ctx context.Context, limit int, query string) (*apiclient.AuditLogs, int, error)
	GetUsers(ctx context.Context) (*apiclient.UserList, int, error)
}

// Summary counts the outcome of a per-workspace run.
type Summary struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Planned int `json:"planned"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Service struct {
	api     API
	cfg     *config.RunConfig
	console *report.Console
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewService(api API, cfg *config.RunConfig, console *report.Console) *Service {
	return &Service{
		api:     api,
		cfg:     cfg,
		console: console,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ValidateID checks id is a UUID as used by the platform for workspaces and templates.
func ValidateID(id string) error {
	if !validate.Required(id) {
		return ErrMissingID
	}
	if !validate.UUID(id) {
		return ErrInvalidID
	}
	return nil
}

func (s *Service) listWorkspaces(ctx context.Context) ([]apiclient.Workspace, error) {
	list, _, err := s.api.ListWorkspaces(ctx, s.cfg.Filter)
	if err != nil {
		return nil, err
	}

	workspaces := list.Workspaces
	slices.SortStableFunc(workspaces, func(a, b apiclient.Workspace) int {
		if c := strings.Compare(strings.ToLower(a.OwnerName), strings.ToLower(b.OwnerName)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return workspaces, nil
}

func dryRunPrefix(dryRun bool, action string) string {
	if dryRun {
		return "[DRY RUN] " + action
	}
	return action
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
