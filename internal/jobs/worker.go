package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/yungbote/click-backend/internal/data/repos"
	"github.com/yungbote/click-backend/internal/modules/templates"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

const DefaultRefreshSchedule = "@every 15m"

// PerformanceRefresher recomputes and caches all-time template performance.
type PerformanceRefresher interface {
	RefreshPerformance(ctx context.Context, templateID uuid.UUID) (*templates.Performance, error)
}

// AnalyticsRefresher periodically warms the performance cache for every active template.
type AnalyticsRefresher struct {
	log       *logger.Logger
	templates repos.AITemplateRepo
	perf      PerformanceRefresher
	metrics   *observability.Metrics
	schedule  string

	mu   sync.Mutex
	cron *cron.Cron
}

func NewAnalyticsRefresher(baseLog *logger.Logger, tmplRepo repos.AITemplateRepo, perf PerformanceRefresher, metrics *observability.Metrics, schedule string) *AnalyticsRefresher {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &AnalyticsRefresher{
		log:       baseLog.With("component", "AnalyticsRefresher"),
		templates: tmplRepo,
		perf:      perf,
		metrics:   metrics,
		schedule:  strings.TrimSpace(schedule),
	}
}

// Start schedules RunOnce. An empty schedule disables the job.
func (r *AnalyticsRefresher) Start(ctx context.Context) error {
	if r.schedule == "" {
		r.log.Info("Analytics refresh disabled")
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(r.schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid analytics refresh schedule %q: %w", r.schedule, err)
	}
	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()
	c.Start()
	r.log.Info("Analytics refresh scheduled", "schedule", r.schedule)
	return nil
}

// Stop halts scheduling and waits for a running refresh to finish.
func (r *AnalyticsRefresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// RunOnce refreshes every active template. A failing template is logged and skipped.
func (r *AnalyticsRefresher) RunOnce(ctx context.Context) (refreshed, failed int) {
	rows, err := r.templates.ListAllActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		r.log.Warn("ListAllActive failed", "error", err)
		r.metrics.IncAnalyticsRefresh("error")
		return 0, 0
	}
	for _, t := range rows {
		if ctx.Err() != nil {
			return refreshed, failed
		}
		if err := r.refreshOne(ctx, t.ID); err != nil {
			failed++
			r.metrics.IncAnalyticsRefresh("error")
			r.log.Warn("Template performance refresh failed", "template_id", t.ID, "error", err)
			continue
		}
		refreshed++
		r.metrics.IncAnalyticsRefresh("ok")
	}
	r.log.Debug("Analytics refresh finished", "refreshed", refreshed, "failed", failed)
	return refreshed, failed
}

func (r *AnalyticsRefresher) refreshOne(ctx context.Context, id uuid.UUID) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errFromRecover(rec)
		}
	}()
	_, err = r.perf.RefreshPerformance(ctx, id)
	return err
}

type panicError struct{ v any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.v) }

func errFromRecover(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &panicError{v: v}
}
