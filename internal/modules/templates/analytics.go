package templates

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/cache"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

// Period bounds analytics by score creation time. Nil ends are open.
type Period struct {
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

func (p Period) Unbounded() bool { return p.Since == nil && p.Until == nil }

// ParsePeriod accepts a relative window ("30d", "12h") or explicit RFC3339
// bounds. A relative window wins over explicit bounds.
func ParsePeriod(window, since, until string, now time.Time) (Period, error) {
	var p Period
	window = strings.TrimSpace(window)
	if window != "" {
		d, err := parseWindow(window)
		if err != nil {
			return p, err
		}
		start := now.Add(-d)
		p.Since = &start
		return p, nil
	}
	if s := strings.TrimSpace(since); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return p, fmt.Errorf("invalid since: %w", err)
		}
		p.Since = &t
	}
	if u := strings.TrimSpace(until); u != "" {
		t, err := time.Parse(time.RFC3339, u)
		if err != nil {
			return p, fmt.Errorf("invalid until: %w", err)
		}
		p.Until = &t
	}
	if p.Since != nil && p.Until != nil && p.Until.Before(*p.Since) {
		return p, errors.New("until is before since")
	}
	return p, nil
}

func parseWindow(raw string) (time.Duration, error) {
	if strings.HasSuffix(raw, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid period %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid period %q", raw)
	}
	return d, nil
}

type Performance struct {
	TemplateID         uuid.UUID      `json:"templateId"`
	Period             Period         `json:"period"`
	TemplateUsageCount int            `json:"templateUsageCount"`
	TotalUsage         int            `json:"totalUsage"`
	AverageConfidence  float64        `json:"averageConfidence"`
	AverageEditEffort  float64        `json:"averageEditEffort"`
	ReviewRate         float64        `json:"reviewRate"`
	FlagDistribution   map[string]int `json:"flagDistribution"`
	ComputedAt         time.Time      `json:"computedAt"`
}

type scoreSummary struct {
	count            int
	avgConfidence    float64
	avgEditEffort    float64
	reviewRate       float64
	flagDistribution map[string]int
}

func summarizeScores(scores []*types.ConfidenceScore) scoreSummary {
	out := scoreSummary{flagDistribution: map[string]int{}}
	if len(scores) == 0 {
		return out
	}
	var conf, effort, reviews int
	for _, s := range scores {
		conf += s.OverallConfidence
		effort += s.EditEffort
		if s.NeedsHumanReview {
			reviews++
		}
		for _, f := range s.UncertaintyFlags {
			out.flagDistribution[string(f.Type)]++
		}
	}
	n := float64(len(scores))
	out.count = len(scores)
	out.avgConfidence = round2(float64(conf) / n)
	out.avgEditEffort = round2(float64(effort) / n)
	out.reviewRate = round2(float64(reviews) / n * 100)
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// GetPerformance aggregates every score attributed to the template within
// the period. All-time results go through the cache.
func (s *Service) GetPerformance(ctx context.Context, templateID uuid.UUID, period Period) (*Performance, error) {
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !period.Unbounded() {
		return s.computePerformance(ctx, tmpl, period)
	}

	key := cache.PerformanceKey(tmpl.ID.String())
	var cached Performance
	hit, err := s.deps.Cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Performance cache read failed", "template_id", tmpl.ID, "error", err)
	}
	if s.deps.Cache.Enabled() {
		s.deps.Metrics.IncCacheLookup("performance", hit)
	}
	if hit && cached.TemplateID == tmpl.ID {
		return &cached, nil
	}
	return s.refresh(ctx, tmpl)
}

// RefreshPerformance recomputes all-time performance and rewrites the cache.
func (s *Service) RefreshPerformance(ctx context.Context, templateID uuid.UUID) (*Performance, error) {
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, tmpl)
}

func (s *Service) refresh(ctx context.Context, tmpl *types.AITemplate) (*Performance, error) {
	perf, err := s.computePerformance(ctx, tmpl, Period{})
	if err != nil {
		return nil, err
	}
	if err := s.deps.Cache.SetJSON(ctx, cache.PerformanceKey(tmpl.ID.String()), perf, s.deps.CacheTTL); err != nil {
		s.log.Warn("Performance cache write failed", "template_id", tmpl.ID, "error", err)
	}
	return perf, nil
}

func (s *Service) computePerformance(ctx context.Context, tmpl *types.AITemplate, period Period) (*Performance, error) {
	scores, err := s.templateScores(ctx, tmpl.ID, 0, period)
	if err != nil {
		return nil, err
	}
	sum := summarizeScores(scores)
	return &Performance{
		TemplateID:         tmpl.ID,
		Period:             period,
		TemplateUsageCount: tmpl.UsageCount,
		TotalUsage:         sum.count,
		AverageConfidence:  sum.avgConfidence,
		AverageEditEffort:  sum.avgEditEffort,
		ReviewRate:         sum.reviewRate,
		FlagDistribution:   sum.flagDistribution,
		ComputedAt:         time.Now().UTC(),
	}, nil
}

// templateScores collects scores whose content was generated from the
// template (optionally a single version). Version 0 also includes scores
// tagged with the template id directly. Results are deduplicated by id.
func (s *Service) templateScores(ctx context.Context, templateID uuid.UUID, version int, period Period) ([]*types.ConfidenceScore, error) {
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := s.deps.Contents.ListIDsByTemplate(dbc, templateID, version)
	if err != nil {
		return nil, apierr.Internal("load_template_content_failed", err)
	}
	byContent, err := s.deps.Scores.ListByContentIDs(dbc, ids, period.Since, period.Until)
	if err != nil {
		return nil, apierr.Internal("load_scores_failed", err)
	}
	if version > 0 {
		return byContent, nil
	}
	byTemplate, err := s.deps.Scores.ListByTemplateID(dbc, templateID, period.Since, period.Until)
	if err != nil {
		return nil, apierr.Internal("load_scores_failed", err)
	}

	seen := make(map[uuid.UUID]bool, len(byContent)+len(byTemplate))
	out := make([]*types.ConfidenceScore, 0, len(byContent)+len(byTemplate))
	for _, group := range [][]*types.ConfidenceScore{byContent, byTemplate} {
		for _, sc := range group {
			if sc == nil || seen[sc.ID] {
				continue
			}
			seen[sc.ID] = true
			out = append(out, sc)
		}
	}
	return out, nil
}

type VersionMetrics struct {
	Version           int      `json:"version"`
	UsageCount        int      `json:"usageCount"`
	AverageConfidence float64  `json:"averageConfidence"`
	AverageEditEffort float64  `json:"averageEditEffort"`
	ReviewRate        float64  `json:"reviewRate"`
	UserSatisfaction  *float64 `json:"userSatisfaction,omitempty"`
	// Source is "live" when computed from scores, "snapshot" when taken from the stored version.
	Source string `json:"source"`
}

func (m VersionMetrics) composite() float64 {
	return m.AverageConfidence - m.AverageEditEffort - m.ReviewRate
}

type VersionDifferences struct {
	Confidence float64 `json:"confidence"`
	EditEffort float64 `json:"editEffort"`
	ReviewRate float64 `json:"reviewRate"`
	Usage      int     `json:"usage"`
}

type VersionComparison struct {
	TemplateID     uuid.UUID          `json:"templateId"`
	V1             VersionMetrics     `json:"v1"`
	V2             VersionMetrics     `json:"v2"`
	Winner         string             `json:"winner"`
	Differences    VersionDifferences `json:"differences"`
	Recommendation string             `json:"recommendation"`
}

// CompareVersions ranks two versions by confidence minus edit effort minus review rate.
func (s *Service) CompareVersions(ctx context.Context, templateID uuid.UUID, v1, v2 int) (*VersionComparison, error) {
	if v1 < 1 || v2 < 1 {
		return nil, apierr.BadRequest("invalid_version_number", errors.New("v1 and v2 must be >= 1"))
	}
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	m1, err := s.versionMetrics(ctx, tmpl.ID, v1)
	if err != nil {
		return nil, err
	}
	m2, err := s.versionMetrics(ctx, tmpl.ID, v2)
	if err != nil {
		return nil, err
	}

	out := &VersionComparison{
		TemplateID: tmpl.ID,
		V1:         m1,
		V2:         m2,
		Differences: VersionDifferences{
			Confidence: round2(m2.AverageConfidence - m1.AverageConfidence),
			EditEffort: round2(m2.AverageEditEffort - m1.AverageEditEffort),
			ReviewRate: round2(m2.ReviewRate - m1.ReviewRate),
			Usage:      m2.UsageCount - m1.UsageCount,
		},
	}
	c1, c2 := round2(m1.composite()), round2(m2.composite())
	switch {
	case c2 > c1:
		out.Winner = "v2"
		out.Recommendation = fmt.Sprintf("Version %d performs better than version %d; consider making it the default.", v2, v1)
	case c1 > c2:
		out.Winner = "v1"
		out.Recommendation = fmt.Sprintf("Version %d performs better than version %d; consider reverting to it.", v1, v2)
	default:
		out.Winner = "tie"
		out.Recommendation = fmt.Sprintf("Versions %d and %d perform about the same; collect more data before choosing.", v1, v2)
	}
	return out, nil
}

func (s *Service) versionMetrics(ctx context.Context, templateID uuid.UUID, version int) (VersionMetrics, error) {
	row, err := s.deps.Versions.GetByTemplateAndNumber(dbctx.Context{Ctx: ctx}, templateID, version)
	if err != nil {
		return VersionMetrics{}, apierr.Internal("load_version_failed", err)
	}
	if row == nil {
		return VersionMetrics{}, apierr.NotFound("version_not_found", fmt.Errorf("%w: %d", ErrVersionNotFound, version))
	}
	stored := row.Performance.Data()

	scores, err := s.templateScores(ctx, templateID, version, Period{})
	if err != nil {
		return VersionMetrics{}, err
	}
	if len(scores) == 0 {
		return VersionMetrics{
			Version:           version,
			UsageCount:        stored.UsageCount,
			AverageConfidence: stored.AverageConfidence,
			AverageEditEffort: stored.AverageEditEffort,
			ReviewRate:        stored.ReviewRate,
			UserSatisfaction:  stored.UserSatisfaction,
			Source:            "snapshot",
		}, nil
	}
	sum := summarizeScores(scores)
	return VersionMetrics{
		Version:           version,
		UsageCount:        sum.count,
		AverageConfidence: sum.avgConfidence,
		AverageEditEffort: sum.avgEditEffort,
		ReviewRate:        sum.reviewRate,
		UserSatisfaction:  stored.UserSatisfaction,
		Source:            "live",
	}, nil
}

func (s *Service) invalidatePerformance(ctx context.Context, id uuid.UUID) {
	if err := s.deps.Cache.Delete(ctx, cache.PerformanceKey(id.String())); err != nil {
		s.log.Warn("Performance cache invalidate failed", "template_id", id, "error", err)
	}
}
