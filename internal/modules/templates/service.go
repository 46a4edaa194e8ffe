package templates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/repos"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/modules/confidence"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/cache"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

var (
	ErrTemplateNotFound       = errors.New("template not found")
	ErrVersionNotFound        = errors.New("template version not found")
	ErrGeneratorNotConfigured = errors.New("content generator not configured")
)

const DefaultCacheTTL = 5 * time.Minute

// ConfidenceAnalyzer scores generated content; *confidence.Service satisfies it.
type ConfidenceAnalyzer interface {
	Configured() bool
	AnalyzeContentConfidence(ctx context.Context, contentID uuid.UUID, content confidence.ContentInput, actx confidence.Context) (*types.ConfidenceScore, error)
}

type ServiceDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Templates repos.AITemplateRepo
	Versions  repos.AITemplateVersionRepo
	Contents  repos.ContentRepo
	Scores    repos.ConfidenceScoreRepo

	// Generator may be nil; Generate then fails with 503.
	Generator  textgen.Generator
	Confidence ConfidenceAnalyzer

	Cache    cache.Cache
	CacheTTL time.Duration
	Metrics  *observability.Metrics
}

type Service struct {
	deps ServiceDeps
	log  *logger.Logger
}

func NewService(deps ServiceDeps) *Service {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoop()
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = DefaultCacheTTL
	}
	return &Service{deps: deps, log: deps.Log.With("service", "TemplateService")}
}

func notFound() error { return apierr.NotFound("template_not_found", ErrTemplateNotFound) }

// Get returns a template by id, active or not, through the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.AITemplate, error) {
	if id == uuid.Nil {
		return nil, apierr.BadRequest("missing_template_id", errors.New("templateId required"))
	}
	key := cache.TemplateKey(id.String())
	var cached types.AITemplate
	hit, err := s.deps.Cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Template cache read failed", "template_id", id, "error", err)
	}
	if s.deps.Cache.Enabled() {
		s.deps.Metrics.IncCacheLookup("template", hit)
	}
	if hit && cached.ID == id {
		return &cached, nil
	}

	row, err := s.deps.Templates.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, apierr.Internal("load_template_failed", err)
	}
	if row == nil {
		return nil, notFound()
	}
	if err := s.deps.Cache.SetJSON(ctx, key, row, s.deps.CacheTTL); err != nil {
		s.log.Warn("Template cache write failed", "template_id", id, "error", err)
	}
	return row, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.deps.Cache.Delete(ctx, cache.TemplateKey(id.String())); err != nil {
		s.log.Warn("Template cache invalidate failed", "template_id", id, "error", err)
	}
}

// List returns active templates, defaults first, then by usage and recency.
func (s *Service) List(ctx context.Context, agencyWorkspaceID uuid.UUID, clientWorkspaceID *uuid.UUID) ([]*types.AITemplate, error) {
	if agencyWorkspaceID == uuid.Nil {
		return nil, apierr.BadRequest("missing_agency_workspace_id", errors.New("agencyWorkspaceId required"))
	}
	rows, err := s.deps.Templates.ListActive(dbctx.Context{Ctx: ctx}, agencyWorkspaceID, clientWorkspaceID)
	if err != nil {
		return nil, apierr.Internal("list_templates_failed", err)
	}
	if rows == nil {
		rows = []*types.AITemplate{}
	}
	return rows, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*types.AITemplate, error) {
	if id == uuid.Nil {
		return nil, apierr.BadRequest("missing_template_id", errors.New("templateId required"))
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.deps.Templates.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal("load_template_failed", err)
	}
	if row == nil {
		return nil, notFound()
	}
	if err := s.deps.Templates.Deactivate(dbc, id); err != nil {
		return nil, apierr.Internal("deactivate_template_failed", err)
	}
	s.invalidate(ctx, id)
	row.IsActive = false
	s.log.Info("AI template deactivated", "template_id", id)
	return row, nil
}

func invalidTemplate(err error) error {
	return apierr.BadRequest("invalid_template", fmt.Errorf("invalid template: %w", err))
}
