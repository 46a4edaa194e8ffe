package confidence

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/realtime"
)

// Change is new minus previous.
type Change struct {
	Confidence int `json:"confidence"`
	EditEffort int `json:"editEffort"`
	FlagsAdded int `json:"flagsAdded"`
}

type TrackResult struct {
	Score       *types.ConfidenceScore `json:"score"`
	Change      *Change                `json:"change"`
	Improved    bool                   `json:"improved"`
	NeedsReview bool                   `json:"needsReview"`
}

type ConfidenceUpdatedEvent struct {
	ContentID         uuid.UUID `json:"contentId"`
	ScoreID           uuid.UUID `json:"scoreId"`
	OverallConfidence int       `json:"overallConfidence"`
	EditEffort        int       `json:"editEffort"`
	NeedsHumanReview  bool      `json:"needsHumanReview"`
	Change            *Change   `json:"change,omitempty"`
	Improved          bool      `json:"improved"`
}

// Track appends a new score and compares it with the one stored before it.
// Concurrent tracks of the same content may compare against each other.
func (s *Service) Track(ctx context.Context, contentID uuid.UUID, content ContentInput, actx Context) (*TrackResult, error) {
	score, err := s.AnalyzeContentConfidence(ctx, contentID, content, actx)
	if err != nil {
		return nil, err
	}

	out := &TrackResult{Score: score, NeedsReview: score.NeedsHumanReview}

	prev, err := s.deps.Scores.GetPreviousByContentID(dbctx.Context{Ctx: ctx}, contentID, score)
	if err != nil {
		s.log.Warn("Previous confidence lookup failed", "content_id", contentID, "error", err)
	}
	if prev != nil {
		out.Change = Diff(prev, score)
		out.Improved = out.Change.Confidence > 0
	}

	s.publish(ctx, out)
	return out, nil
}

func Diff(prev, cur *types.ConfidenceScore) *Change {
	if prev == nil || cur == nil {
		return nil
	}
	return &Change{
		Confidence: cur.OverallConfidence - prev.OverallConfidence,
		EditEffort: cur.EditEffort - prev.EditEffort,
		FlagsAdded: len(cur.Flags()) - len(prev.Flags()),
	}
}

func (s *Service) publish(ctx context.Context, res *TrackResult) {
	msg := realtime.Message{
		Channel: realtime.ContentChannel(res.Score.ContentID.String()),
		Event:   realtime.EventConfidenceUpdated,
		Data: ConfidenceUpdatedEvent{
			ContentID:         res.Score.ContentID,
			ScoreID:           res.Score.ID,
			OverallConfidence: res.Score.OverallConfidence,
			EditEffort:        res.Score.EditEffort,
			NeedsHumanReview:  res.Score.NeedsHumanReview,
			Change:            res.Change,
			Improved:          res.Improved,
		},
		SentAt: time.Now().UTC(),
	}
	if err := s.deps.Bus.Publish(ctx, msg); err != nil {
		s.log.Warn("Publish confidence update failed", "content_id", res.Score.ContentID, "error", err)
	}
}
