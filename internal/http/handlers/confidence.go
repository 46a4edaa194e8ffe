package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/http/response"
	"github.com/yungbote/click-backend/internal/modules/confidence"
)

type ConfidenceService interface {
	AnalyzeContentConfidence(ctx context.Context, contentID uuid.UUID, content confidence.ContentInput, actx confidence.Context) (*types.ConfidenceScore, error)
	Track(ctx context.Context, contentID uuid.UUID, content confidence.ContentInput, actx confidence.Context) (*confidence.TrackResult, error)
	AnalyzeBatch(ctx context.Context, contentIDs []uuid.UUID, actx confidence.Context) (*confidence.BatchResult, error)
	GetContentConfidence(ctx context.Context, contentID uuid.UUID) (*types.ConfidenceScore, error)
	GetConfidenceHistory(ctx context.Context, contentID uuid.UUID, limit int) (*confidence.History, error)
}

type ConfidenceHandler struct {
	svc ConfidenceService
}

func NewConfidenceHandler(svc ConfidenceService) *ConfidenceHandler {
	return &ConfidenceHandler{svc: svc}
}

type analysisContext struct {
	Platform        string         `json:"platform"`
	BrandGuidelines map[string]any `json:"brandGuidelines"`
	PostID          string         `json:"postId"`
	TemplateID      string         `json:"templateId"`
}

func (a analysisContext) toContext() (confidence.Context, error) {
	postID, err := optionalUUID(a.PostID, "postId")
	if err != nil {
		return confidence.Context{}, err
	}
	templateID, err := optionalUUID(a.TemplateID, "templateId")
	if err != nil {
		return confidence.Context{}, err
	}
	return confidence.Context{
		Platform:        a.Platform,
		BrandGuidelines: a.BrandGuidelines,
		PostID:          postID,
		TemplateID:      templateID,
	}, nil
}

type analyzeRequest struct {
	ContentID string                  `json:"contentId"`
	Content   confidence.ContentInput `json:"content"`
	Context   analysisContext         `json:"context"`
}

func (r analyzeRequest) parse() (uuid.UUID, confidence.Context, error) {
	id, err := requiredUUID(r.ContentID, "contentId")
	if err != nil {
		return uuid.Nil, confidence.Context{}, err
	}
	actx, err := r.Context.toContext()
	return id, actx, err
}

// POST /api/confidence/analyze
func (h *ConfidenceHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, actx, err := req.parse()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	score, err := h.svc.AnalyzeContentConfidence(c.Request.Context(), id, req.Content, actx)
	if err != nil {
		response.Error(c, "analyze_confidence_failed", err)
		return
	}
	response.RespondCreated(c, "Confidence analysis completed", score)
}

// POST /api/confidence/track
func (h *ConfidenceHandler) Track(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, actx, err := req.parse()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Track(c.Request.Context(), id, req.Content, actx)
	if err != nil {
		response.Error(c, "track_confidence_failed", err)
		return
	}
	response.RespondOK(c, "Confidence tracked", res)
}

type batchRequest struct {
	ContentIDs []string        `json:"contentIds"`
	Context    analysisContext `json:"context"`
}

// POST /api/confidence/batch
func (h *ConfidenceHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.ContentIDs))
	for _, raw := range req.ContentIDs {
		// Malformed ids become per-item failures rather than failing the batch.
		id, err := uuid.Parse(raw)
		if err != nil {
			id = uuid.Nil
		}
		ids = append(ids, id)
	}
	actx, err := req.Context.toContext()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.AnalyzeBatch(c.Request.Context(), ids, actx)
	if err != nil {
		response.Error(c, "batch_analysis_failed", err)
		return
	}
	response.RespondOK(c, "Batch analysis completed", res)
}

// GET /api/confidence/:contentId
func (h *ConfidenceHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "contentId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
		return
	}
	score, err := h.svc.GetContentConfidence(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "get_confidence_failed", err)
		return
	}
	response.RespondOK(c, "", score)
}

// GET /api/confidence/:contentId/history?limit=
func (h *ConfidenceHandler) History(c *gin.Context) {
	id, err := pathUUID(c, "contentId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	hist, err := h.svc.GetConfidenceHistory(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, "get_confidence_history_failed", err)
		return
	}
	response.RespondOK(c, "", hist)
}
