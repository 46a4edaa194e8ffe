package compliance

import (
	"context"
	"errors"

	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

// TemplateLoader returns an *apierr.Error with status 404 for unknown ids.
type TemplateLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*types.AITemplate, error)
}

type ServiceDeps struct {
	Log       *logger.Logger
	Templates TemplateLoader
	Metrics   *observability.Metrics
}

type Service struct {
	deps ServiceDeps
	log  *logger.Logger
}

func NewService(deps ServiceDeps) *Service {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Service{deps: deps, log: deps.Log.With("service", "ComplianceService")}
}

func (s *Service) template(ctx context.Context, templateID uuid.UUID) (*types.AITemplate, error) {
	if templateID == uuid.Nil {
		return nil, apierr.BadRequest("missing_template_id", errors.New("templateId required"))
	}
	if s.deps.Templates == nil {
		return nil, apierr.Internal("template_store_not_configured", errors.New("template loader required"))
	}
	return s.deps.Templates.Get(ctx, templateID)
}

func (s *Service) CheckContentCompliance(ctx context.Context, content string, templateID uuid.UUID) (*Report, error) {
	if content == "" {
		return nil, apierr.BadRequest("missing_content", errors.New("content required"))
	}
	tmpl, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	report := CheckCompliance(content, tmpl)
	s.deps.Metrics.ObserveCompliance(report.IsCompliant, report.Score)
	s.log.Debug("Compliance checked",
		"template_id", templateID,
		"compliant", report.IsCompliant,
		"score", report.Score,
		"violations", len(report.Violations),
	)
	return &report, nil
}

// AutoFixContent applies the given violations. When violations is nil and a
// template is named, they are computed from a fresh compliance check.
func (s *Service) AutoFixContent(ctx context.Context, content string, templateID *uuid.UUID, violations []Violation) (*FixResult, error) {
	if content == "" {
		return nil, apierr.BadRequest("missing_content", errors.New("content required"))
	}
	if violations == nil && templateID != nil {
		report, err := s.CheckContentCompliance(ctx, content, *templateID)
		if err != nil {
			return nil, err
		}
		violations = report.Violations
	}
	res := AutoFix(content, violations)
	s.deps.Metrics.IncAutoFix(res.Changed)
	return &res, nil
}

func (s *Service) Suggestions(ctx context.Context, content string, templateID uuid.UUID) ([]Suggestion, error) {
	if content == "" {
		return nil, apierr.BadRequest("missing_content", errors.New("content required"))
	}
	tmpl, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return OptimizationSuggestions(content, tmpl), nil
}
