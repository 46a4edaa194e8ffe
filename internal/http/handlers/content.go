package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/http/response"
	"github.com/yungbote/click-backend/internal/modules/content"
)

type ContentService interface {
	Create(ctx context.Context, in content.CreateInput) (*types.Content, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Content, error)
}

type ContentHandler struct {
	svc ContentService
}

func NewContentHandler(svc ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// POST /api/contents
func (h *ContentHandler) Create(c *gin.Context) {
	var in content.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, "create_content_failed", err)
		return
	}
	response.RespondCreated(c, "Content created", row)
}

// GET /api/contents/:id
func (h *ContentHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "get_content_failed", err)
		return
	}
	response.RespondOK(c, "", row)
}
