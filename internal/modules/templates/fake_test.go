package templates

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/repos"
	"github.com/yungbote/click-backend/internal/data/repos/testutil"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/modules/confidence"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []textgen.Request
}

func (f *fakeGenerator) Name() string { return "fake-writer" }

func (f *fakeGenerator) GenerateText(_ context.Context, req textgen.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

type analyzeCall struct {
	contentID uuid.UUID
	text      string
	actx      confidence.Context
}

type fakeConfidence struct {
	mu    sync.Mutex
	err   error
	calls []analyzeCall
}

func (f *fakeConfidence) Configured() bool { return true }

func (f *fakeConfidence) AnalyzeContentConfidence(_ context.Context, contentID uuid.UUID, content confidence.ContentInput, actx confidence.Context) (*types.ConfidenceScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, analyzeCall{contentID: contentID, text: content.Text, actx: actx})
	if f.err != nil {
		return nil, f.err
	}
	return &types.ConfidenceScore{ID: uuid.New(), ContentID: contentID, OverallConfidence: 88}, nil
}

// memCache is an in-process cache.Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Enabled() bool { return true }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fixture struct {
	db        *gorm.DB
	gen       *fakeGenerator
	conf      *fakeConfidence
	cache     *memCache
	svc       *Service
	templates repos.AITemplateRepo
	versions  repos.AITemplateVersionRepo
	contents  repos.ContentRepo
	scores    repos.ConfidenceScoreRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:        db,
		gen:       &fakeGenerator{reply: "Fresh shoes are here. Shop now! #shoes"},
		conf:      &fakeConfidence{},
		cache:     newMemCache(),
		templates: repos.NewAITemplateRepo(db, log),
		versions:  repos.NewAITemplateVersionRepo(db, log),
		contents:  repos.NewContentRepo(db, log),
		scores:    repos.NewConfidenceScoreRepo(db, log),
	}
	f.svc = NewService(ServiceDeps{
		DB:         db,
		Log:        log,
		Templates:  f.templates,
		Versions:   f.versions,
		Contents:   f.contents,
		Scores:     f.scores,
		Generator:  f.gen,
		Confidence: f.conf,
		Cache:      f.cache,
	})
	return f
}

func requireAPIErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "want *apierr.Error got %T (%v)", err, err)
	assert.Equal(t, status, ae.Status)
	assert.Equal(t, code, ae.Code)
}

func versionPerf(p types.VersionPerformance) datatypes.JSONType[types.VersionPerformance] {
	return datatypes.NewJSONType(p)
}
