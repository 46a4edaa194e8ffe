package confidence

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/repos"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/realtime/bus"
)

var (
	ErrAnalyzerNotConfigured = errors.New("confidence analyzer not configured")
	ErrScoreNotFound         = errors.New("confidence score not found")
	ErrContentNotFound       = errors.New("content not found")
)

const (
	DefaultBatchConcurrency = 4
	DefaultHistoryLimit     = 20
	maxHistoryLimit         = 200
)

type ServiceDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	// Analyzer with a nil generator makes every entry point fail with
	// ErrAnalyzerNotConfigured.
	Analyzer *Analyzer

	Scores   repos.ConfidenceScoreRepo
	Contents repos.ContentRepo

	Bus     bus.Bus
	Metrics *observability.Metrics

	BatchConcurrency int
}

type Service struct {
	deps ServiceDeps
	log  *logger.Logger
}

func NewService(deps ServiceDeps) *Service {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Bus == nil {
		deps.Bus = bus.NewNoop()
	}
	if deps.BatchConcurrency <= 0 {
		deps.BatchConcurrency = DefaultBatchConcurrency
	}
	return &Service{deps: deps, log: deps.Log.With("service", "ConfidenceService")}
}

func (s *Service) Configured() bool { return s != nil && s.deps.Analyzer.Configured() }

func notConfigured() error {
	return apierr.Unavailable("analyzer_not_configured", ErrAnalyzerNotConfigured)
}

// AnalyzeContentConfidence runs analysis, flag detection, effort estimation
// and the review gate, then appends a new score for contentID.
func (s *Service) AnalyzeContentConfidence(ctx context.Context, contentID uuid.UUID, content ContentInput, actx Context) (*types.ConfidenceScore, error) {
	if contentID == uuid.Nil {
		return nil, apierr.BadRequest("missing_content_id", errors.New("contentId required"))
	}
	if !s.Configured() {
		return nil, notConfigured()
	}

	stored, err := s.lookupContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content.IsEmpty() && stored != nil {
		content = Text(stored.Text)
	}
	if content.IsEmpty() {
		return nil, apierr.BadRequest("missing_content", errors.New("content required"))
	}
	if actx.Platform == "" && stored != nil {
		actx.Platform = stored.Platform
	}
	if actx.TemplateID == nil && stored != nil {
		actx.TemplateID = stored.TemplateUUID()
	}

	row := s.score(ctx, contentID, content, actx)
	created, err := s.deps.Scores.Create(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		s.log.Error("Persist confidence score failed", "content_id", contentID, "error", err)
		return nil, apierr.Internal("persist_confidence_failed", err)
	}

	flagSeverities := make(map[string]string, len(created.Flags()))
	for _, f := range created.Flags() {
		flagSeverities[string(f.Type)] = string(f.Severity)
	}
	s.deps.Metrics.ObserveConfidence(created.OverallConfidence, created.NeedsHumanReview, flagSeverities)

	s.log.Info("Content confidence analyzed",
		"content_id", contentID,
		"overall_confidence", created.OverallConfidence,
		"needs_human_review", created.NeedsHumanReview,
		"fallback", created.AnalysisFallback,
	)
	return created, nil
}

func (s *Service) score(ctx context.Context, contentID uuid.UUID, content ContentInput, actx Context) *types.ConfidenceScore {
	analysis := s.deps.Analyzer.Analyze(ctx, content, actx.Platform, actx.BrandGuidelines)
	flags := DetectFlags(content, analysis)
	effort := EstimateEditEffort(analysis, flags)

	row := &types.ConfidenceScore{
		ContentID:           contentID,
		PostID:              actx.PostID,
		TemplateID:          actx.TemplateID,
		AspectConfidence:    datatypes.NewJSONType(analysis.Aspects),
		ConfidenceBreakdown: datatypes.NewJSONType(analysis.Breakdown),
		UncertaintyFlags:    datatypes.JSONSlice[types.UncertaintyFlag](flags),
		EditEffort:          effort,
		AnalysisMetadata:    datatypes.NewJSONType(analysis.Metadata),
		Model:               analysis.Model,
		AnalysisFallback:    analysis.Fallback,
	}
	// Persistence recomputes these too; populated here so unsaved rows are consistent.
	row.Normalize()
	return row
}

// Score runs the pipeline without persisting, for offline tooling.
func (s *Service) Score(ctx context.Context, content ContentInput, actx Context) (*types.ConfidenceScore, error) {
	if content.IsEmpty() {
		return nil, apierr.BadRequest("missing_content", errors.New("content required"))
	}
	if !s.Configured() {
		return nil, notConfigured()
	}
	return s.score(ctx, uuid.Nil, content, actx), nil
}

func (s *Service) lookupContent(ctx context.Context, contentID uuid.UUID) (*types.Content, error) {
	if s.deps.Contents == nil {
		return nil, nil
	}
	row, err := s.deps.Contents.GetByID(dbctx.Context{Ctx: ctx}, contentID)
	if err != nil {
		return nil, apierr.Internal("load_content_failed", err)
	}
	return row, nil
}

func (s *Service) GetContentConfidence(ctx context.Context, contentID uuid.UUID) (*types.ConfidenceScore, error) {
	if contentID == uuid.Nil {
		return nil, apierr.BadRequest("missing_content_id", errors.New("contentId required"))
	}
	row, err := s.deps.Scores.GetLatestByContentID(dbctx.Context{Ctx: ctx}, contentID)
	if err != nil {
		return nil, apierr.Internal("load_confidence_failed", err)
	}
	if row == nil {
		return nil, apierr.NotFound("confidence_not_found", ErrScoreNotFound)
	}
	return row, nil
}

type Trend struct {
	Count             int     `json:"count"`
	FirstConfidence   int     `json:"firstConfidence"`
	LatestConfidence  int     `json:"latestConfidence"`
	AverageConfidence float64 `json:"averageConfidence"`
	// Direction is improving, declining or stable.
	Direction string `json:"direction"`
}

type History struct {
	ContentID uuid.UUID                `json:"contentId"`
	Scores    []*types.ConfidenceScore `json:"scores"`
	Trend     Trend                    `json:"trend"`
}

// GetConfidenceHistory returns up to limit scores, newest first.
func (s *Service) GetConfidenceHistory(ctx context.Context, contentID uuid.UUID, limit int) (*History, error) {
	if contentID == uuid.Nil {
		return nil, apierr.BadRequest("missing_content_id", errors.New("contentId required"))
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	rows, err := s.deps.Scores.ListByContentID(dbctx.Context{Ctx: ctx}, contentID, limit)
	if err != nil {
		return nil, apierr.Internal("load_confidence_history_failed", err)
	}
	if rows == nil {
		rows = []*types.ConfidenceScore{}
	}
	return &History{ContentID: contentID, Scores: rows, Trend: summarizeTrend(rows)}, nil
}

func summarizeTrend(newestFirst []*types.ConfidenceScore) Trend {
	n := len(newestFirst)
	if n == 0 {
		return Trend{Direction: "stable"}
	}
	sum := 0
	for _, r := range newestFirst {
		sum += r.OverallConfidence
	}
	t := Trend{
		Count:             n,
		FirstConfidence:   newestFirst[n-1].OverallConfidence,
		LatestConfidence:  newestFirst[0].OverallConfidence,
		AverageConfidence: math.Round(float64(sum)/float64(n)*100) / 100,
		Direction:         "stable",
	}
	switch delta := t.LatestConfidence - t.FirstConfidence; {
	case delta > 0:
		t.Direction = "improving"
	case delta < 0:
		t.Direction = "declining"
	}
	return t
}
