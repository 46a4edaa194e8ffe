package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/click-backend/internal/data/repos"
	"github.com/yungbote/click-backend/internal/data/repos/testutil"
	"github.com/yungbote/click-backend/internal/modules/templates"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

type fakeRefresher struct {
	mu    sync.Mutex
	seen  []uuid.UUID
	fail  map[uuid.UUID]error
	panic map[uuid.UUID]bool
}

func (f *fakeRefresher) RefreshPerformance(_ context.Context, id uuid.UUID) (*templates.Performance, error) {
	f.mu.Lock()
	f.seen = append(f.seen, id)
	fail, boom := f.fail[id], f.panic[id]
	f.mu.Unlock()
	if boom {
		panic("boom")
	}
	if fail != nil {
		return nil, fail
	}
	return &templates.Performance{TemplateID: id}, nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func TestRunOnceRefreshesActiveTemplates(t *testing.T) {
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewAITemplateRepo(db, log)

	agency := uuid.New()
	ok := testutil.SeedTemplate(t, ctx, db, agency, "ok")
	bad := testutil.SeedTemplate(t, ctx, db, agency, "bad")
	boom := testutil.SeedTemplate(t, ctx, db, agency, "boom")
	off := testutil.SeedTemplate(t, ctx, db, agency, "off")
	require.NoError(t, repo.Deactivate(dbctx.Context{Ctx: ctx}, off.ID))

	perf := &fakeRefresher{
		fail:  map[uuid.UUID]error{bad.ID: errors.New("db down")},
		panic: map[uuid.UUID]bool{boom.ID: true},
	}
	r := NewAnalyticsRefresher(log, repo, perf, nil, "")

	refreshed, failed := r.RunOnce(ctx)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 2, failed)
	assert.ElementsMatch(t, []uuid.UUID{ok.ID, bad.ID, boom.ID}, perf.seen)
}

func TestStartWithEmptyScheduleIsDisabled(t *testing.T) {
	r := NewAnalyticsRefresher(nil, nil, &fakeRefresher{}, nil, "  ")
	require.NoError(t, r.Start(context.Background()))
	r.Stop()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	r := NewAnalyticsRefresher(nil, nil, &fakeRefresher{}, nil, "every tuesday-ish")
	assert.Error(t, r.Start(context.Background()))
}

func TestScheduledRefreshRuns(t *testing.T) {
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	testutil.SeedTemplate(t, ctx, db, uuid.New(), "scheduled")

	perf := &fakeRefresher{}
	r := NewAnalyticsRefresher(log, repos.NewAITemplateRepo(db, log), perf, nil, "@every 1s")
	require.NoError(t, r.Start(ctx))
	defer r.Stop()

	assert.Eventually(t, func() bool { return perf.count() > 0 }, 5*time.Second, 50*time.Millisecond)
}
