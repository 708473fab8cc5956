package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/bjornrobertsson/coderttl/apiclient"
	"github.com/bjornrobertsson/coderttl/internal/report"
	"github.com/bjornrobertsson/coderttl/internal/util"
	"github.com/bjornrobertsson/coderttl/internal/util/rest"
)

// ErrTemplateUpdateFailed is returned once the failure has been written to the console.
var ErrTemplateUpdateFailed = errors.New("template update failed")

// DormancyMillis converts the hour values for a template PATCH. With plusOne
// the deletion window gains an hour, but only when deletion is enabled.
func DormancyMillis(thresholdHours int64, deletionHours int64, plusOne bool) (int64, int64) {
	if plusOne && deletionHours > 0 {
		deletionHours++
	}
	return util.HoursToMillis(thresholdHours), util.HoursToMillis(deletionHours)
}

func (s *Service) SetTemplateDormancy(ctx context.Context, templateId string, thresholdHours int64, deletionHours int64) error {
	if err := ValidateID(templateId); err != nil {
		return fmt.Errorf("template %q: %w", templateId, err)
	}
	if thresholdHours < 0 || deletionHours < 0 {
		return fmt.Errorf("dormancy hours must not be negative")
	}

	thresholdMs, deletionMs := DormancyMillis(thresholdHours, deletionHours, s.cfg.PlusOneDormancyTTL)

	if s.cfg.DryRun {
		s.console.Warn("[DRY RUN] Would update template %s: dormancy_threshold_ms=%d (%s), dormancy_auto_deletion_ms=%d (%s)",
			templateId, thresholdMs, util.FormatHours(thresholdMs), deletionMs, util.FormatHours(deletionMs))
		return nil
	}

	_, err := s.api.UpdateTemplateDormancy(ctx, templateId, thresholdMs, deletionMs)
	if err != nil {
		var statusErr *rest.StatusError
		if errors.As(err, &statusErr) {
			s.console.Error("Failed to update template %s (HTTP %d): %s", templateId, statusErr.StatusCode, statusErr.Body)
		} else {
			s.console.Error("Failed to update template %s: %v", templateId, err)
		}
		return ErrTemplateUpdateFailed
	}

	s.console.Success("Template %s updated: dormancy threshold %s, auto deletion %s",
		templateId, describeDormancy(thresholdMs), describeDormancy(deletionMs))
	return nil
}

func (s *Service) GetTemplateDormancy(ctx context.Context, templateId string) (*report.Table, error) {
	if err := ValidateID(templateId); err != nil {
		return nil, fmt.Errorf("template %q: %w", templateId, err)
	}

	template, _, err := s.api.GetTemplate(ctx, templateId)
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", templateId, err)
	}

	table := report.NewTable("Template dormancy", "Name", "Display Name", "ID", "Dormancy Threshold", "Auto Deletion")
	table.Add(report.LevelInfo,
		template.Name,
		displayName(template),
		template.Id,
		describeDormancy(template.DormancyThresholdMs),
		describeDormancy(template.DormancyAutoDeletionMs),
	)

	return table, nil
}

func (s *Service) ListTemplates(ctx context.Context) (*report.Table, error) {
	templates, _, err := s.api.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	table := report.NewTable("Templates", "Name", "Display Name", "ID", "Dormancy Threshold", "Auto Deletion")
	if len(templates) == 0 {
		s.console.Info("No templates found")
	}

	for _, template := range templates {
		table.Add(report.LevelNone,
			template.Name,
			displayName(&template),
			template.Id,
			describeDormancy(template.DormancyThresholdMs),
			describeDormancy(template.DormancyAutoDeletionMs),
		)
	}

	return table, nil
}

// displayName falls back to the name, templates created without a display name report "".
func displayName(t *apiclient.Template) string {
	if t.DisplayName == "" {
		return t.Name
	}
	return t.DisplayName
}

func describeDormancy(ms int64) string {
	if ms == 0 {
		return "disabled"
	}
	return util.FormatHours(ms)
}
