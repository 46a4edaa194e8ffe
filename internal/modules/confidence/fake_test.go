package confidence

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	calls    int
	requests []textgen.Request
}

func (f *fakeGenerator) Name() string { return "fake-model" }

func (f *fakeGenerator) GenerateText(ctx context.Context, req textgen.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	reply, err, block := f.reply, f.err, f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return reply, err
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type replyScores struct {
	Tone, Humor, Sarcasm, Sensitivity, BrandAlignment, Clarity, Engagement int
	Breakdown                                                             [4]int
	Complexity                                                            string
}

func analyzerReply(t testing.TB, s replyScores) string {
	t.Helper()
	if s.Complexity == "" {
		s.Complexity = "medium"
	}
	raw, err := json.Marshal(map[string]any{
		"tone":           s.Tone,
		"humor":          s.Humor,
		"sarcasm":        s.Sarcasm,
		"sensitivity":    s.Sensitivity,
		"brandAlignment": s.BrandAlignment,
		"clarity":        s.Clarity,
		"engagement":     s.Engagement,
		"breakdown": map[string]any{
			"textAnalysis":    s.Breakdown[0],
			"contextAnalysis": s.Breakdown[1],
			"brandCompliance": s.Breakdown[2],
			"platformFit":     s.Breakdown[3],
		},
		"metadata": map[string]any{
			"detectedTopics":     []string{"deals"},
			"detectedSentiment":  "positive",
			"languageComplexity": s.Complexity,
			"readingLevel":       "6th grade",
		},
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(raw)
}

// scenarioB scores no flags and yields overall 83.
var scenarioB = replyScores{
	Tone: 80, Humor: 90, Sarcasm: 90, Sensitivity: 90, BrandAlignment: 85, Clarity: 85, Engagement: 80,
	Breakdown: [4]int{80, 80, 80, 80},
}

func newTestAnalyzer(gen textgen.Generator, cfg AnalyzerConfig) *Analyzer {
	return NewAnalyzer(gen, logger.Nop(), nil, cfg)
}
