package templates

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/click-backend/internal/data/repos"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

type VersionInput struct {
	VersionNumber     int        `json:"versionNumber"`
	ChangeDescription string     `json:"changeDescription,omitempty"`
	UserSatisfaction  *float64   `json:"userSatisfaction,omitempty"`
	CreatedBy         *uuid.UUID `json:"createdBy,omitempty"`
}

// CreateVersion snapshots the template together with its current all-time
// performance. The template's CurrentVersion only moves forward.
func (s *Service) CreateVersion(ctx context.Context, templateID uuid.UUID, in VersionInput) (*types.AITemplateVersion, error) {
	if in.VersionNumber < 1 {
		return nil, apierr.BadRequest("invalid_version_number", errors.New("versionNumber must be >= 1"))
	}
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	snapshot, err := json.Marshal(tmpl)
	if err != nil {
		return nil, apierr.Internal("snapshot_template_failed", err)
	}
	perf, err := s.computePerformance(ctx, tmpl, Period{})
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.deps.Versions.Create(dbc, &types.AITemplateVersion{
		TemplateID:        tmpl.ID,
		VersionNumber:     in.VersionNumber,
		Snapshot:          datatypes.JSON(snapshot),
		ChangeDescription: in.ChangeDescription,
		Performance: datatypes.NewJSONType(types.VersionPerformance{
			UsageCount:        tmpl.UsageCount,
			AverageConfidence: perf.AverageConfidence,
			AverageEditEffort: perf.AverageEditEffort,
			ReviewRate:        perf.ReviewRate,
			UserSatisfaction:  in.UserSatisfaction,
		}),
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, repos.ErrDuplicateVersion) {
			return nil, apierr.Conflict("duplicate_version", err)
		}
		return nil, apierr.Internal("create_version_failed", err)
	}

	if in.VersionNumber > tmpl.CurrentVersion {
		if err := s.deps.Templates.UpdateFields(dbc, tmpl.ID, map[string]interface{}{
			"current_version": in.VersionNumber,
		}); err != nil {
			return nil, apierr.Internal("update_template_failed", err)
		}
		s.invalidate(ctx, tmpl.ID)
	}

	s.log.Info("AI template version created",
		"template_id", tmpl.ID,
		"version", in.VersionNumber,
	)
	return row, nil
}

// ListVersions returns versions newest first.
func (s *Service) ListVersions(ctx context.Context, templateID uuid.UUID) ([]*types.AITemplateVersion, error) {
	if _, err := s.Get(ctx, templateID); err != nil {
		return nil, err
	}
	rows, err := s.deps.Versions.ListByTemplate(dbctx.Context{Ctx: ctx}, templateID)
	if err != nil {
		return nil, apierr.Internal("list_versions_failed", err)
	}
	if rows == nil {
		rows = []*types.AITemplateVersion{}
	}
	return rows, nil
}
