package confidence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

type BatchItem struct {
	ContentID uuid.UUID              `json:"contentId"`
	Success   bool                   `json:"success"`
	Score     *types.ConfidenceScore `json:"score,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type BatchResult struct {
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Results    []BatchItem `json:"results"`
}

// AnalyzeBatch scores stored content by id. Items fail independently and
// results keep input order.
func (s *Service) AnalyzeBatch(ctx context.Context, contentIDs []uuid.UUID, actx Context) (*BatchResult, error) {
	if len(contentIDs) == 0 {
		return nil, apierr.BadRequest("missing_content_ids", errors.New("contentIds required"))
	}
	if !s.Configured() {
		return nil, notConfigured()
	}
	if s.deps.Contents == nil {
		return nil, apierr.Internal("content_store_not_configured", errors.New("content repo required"))
	}

	results := make([]BatchItem, len(contentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.BatchConcurrency)

	for i, id := range contentIDs {
		g.Go(func() error {
			results[i] = s.analyzeOne(gctx, id, actx)
			return nil
		})
	}
	_ = g.Wait()

	out := &BatchResult{Total: len(contentIDs), Results: results}
	for _, r := range results {
		if r.Success {
			out.Successful++
			s.deps.Metrics.IncBatchItem("ok")
		} else {
			out.Failed++
			s.deps.Metrics.IncBatchItem("failed")
		}
	}
	s.log.Info("Batch confidence analysis finished", "total", out.Total, "successful", out.Successful, "failed", out.Failed)
	return out, nil
}

func (s *Service) analyzeOne(ctx context.Context, id uuid.UUID, actx Context) BatchItem {
	item := BatchItem{ContentID: id}
	if id == uuid.Nil {
		item.Error = "invalid content id"
		return item
	}
	row, err := s.deps.Contents.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if row == nil {
		item.Error = ErrContentNotFound.Error()
		return item
	}
	score, err := s.AnalyzeContentConfidence(ctx, id, Text(row.Text), actx)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Success = true
	item.Score = score
	return item
}
