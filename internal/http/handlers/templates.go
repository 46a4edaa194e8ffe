package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/http/response"
	"github.com/yungbote/click-backend/internal/modules/templates"
)

type TemplateService interface {
	CreateOrUpdate(ctx context.Context, in templates.UpsertInput) (*types.AITemplate, error)
	List(ctx context.Context, agencyWorkspaceID uuid.UUID, clientWorkspaceID *uuid.UUID) ([]*types.AITemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*types.AITemplate, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*types.AITemplate, error)
	Generate(ctx context.Context, templateID uuid.UUID, input string, opts templates.GenerateOptions) (*templates.GenerateResult, error)
	PreviewPrompt(ctx context.Context, templateID uuid.UUID, input string, opts templates.PromptOptions) (string, error)
	CreateVersion(ctx context.Context, templateID uuid.UUID, in templates.VersionInput) (*types.AITemplateVersion, error)
	ListVersions(ctx context.Context, templateID uuid.UUID) ([]*types.AITemplateVersion, error)
	GetPerformance(ctx context.Context, templateID uuid.UUID, period templates.Period) (*templates.Performance, error)
	CompareVersions(ctx context.Context, templateID uuid.UUID, v1, v2 int) (*templates.VersionComparison, error)
}

type TemplateHandler struct {
	svc TemplateService
	now func() time.Time
}

func NewTemplateHandler(svc TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc, now: time.Now}
}

func (h *TemplateHandler) templateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/templates
func (h *TemplateHandler) Upsert(c *gin.Context) {
	var in templates.UpsertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	creating := in.TemplateID == nil || *in.TemplateID == uuid.Nil
	row, err := h.svc.CreateOrUpdate(c.Request.Context(), in)
	if err != nil {
		response.Error(c, "save_template_failed", err)
		return
	}
	if creating {
		response.RespondCreated(c, "Template created", row)
		return
	}
	response.RespondOK(c, "Template updated", row)
}

// GET /api/templates?agencyWorkspaceId=&clientWorkspaceId=
func (h *TemplateHandler) List(c *gin.Context) {
	agency, err := requiredUUID(c.Query("agencyWorkspaceId"), "agencyWorkspaceId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_agency_workspace_id", err)
		return
	}
	client, err := optionalUUID(c.Query("clientWorkspaceId"), "clientWorkspaceId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_client_workspace_id", err)
		return
	}
	rows, err := h.svc.List(c.Request.Context(), agency, client)
	if err != nil {
		response.Error(c, "list_templates_failed", err)
		return
	}
	response.RespondOK(c, "", rows)
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "get_template_failed", err)
		return
	}
	response.RespondOK(c, "", row)
}

// DELETE /api/templates/:id
func (h *TemplateHandler) Deactivate(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	row, err := h.svc.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "deactivate_template_failed", err)
		return
	}
	response.RespondOK(c, "Template deactivated", row)
}

type generateRequest struct {
	Input   string                    `json:"input"`
	Options templates.GenerateOptions `json:"options"`
}

// POST /api/templates/:id/generate
func (h *TemplateHandler) Generate(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Generate(c.Request.Context(), id, req.Input, req.Options)
	if err != nil {
		response.Error(c, "generate_content_failed", err)
		return
	}
	response.RespondCreated(c, "Content generated", res)
}

type promptRequest struct {
	Input   string                  `json:"input"`
	Options templates.PromptOptions `json:"options"`
}

// POST /api/templates/:id/prompt
func (h *TemplateHandler) Prompt(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	prompt, err := h.svc.PreviewPrompt(c.Request.Context(), id, req.Input, req.Options)
	if err != nil {
		response.Error(c, "build_prompt_failed", err)
		return
	}
	response.RespondOK(c, "", gin.H{"prompt": prompt})
}

// POST /api/templates/:id/versions
func (h *TemplateHandler) CreateVersion(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	var in templates.VersionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.svc.CreateVersion(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, "create_version_failed", err)
		return
	}
	response.RespondCreated(c, "Template version created", row)
}

// GET /api/templates/:id/versions
func (h *TemplateHandler) ListVersions(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListVersions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "list_versions_failed", err)
		return
	}
	response.RespondOK(c, "", rows)
}

// GET /api/templates/:id/performance?period=30d|since=&until=
func (h *TemplateHandler) Performance(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	period, err := templates.ParsePeriod(c.Query("period"), c.Query("since"), c.Query("until"), h.now().UTC())
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_period", err)
		return
	}
	perf, err := h.svc.GetPerformance(c.Request.Context(), id, period)
	if err != nil {
		response.Error(c, "get_performance_failed", err)
		return
	}
	response.RespondOK(c, "", perf)
}

// GET /api/templates/:id/compare?v1=&v2=
func (h *TemplateHandler) Compare(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	v1, err1 := strconv.Atoi(c.Query("v1"))
	v2, err2 := strconv.Atoi(c.Query("v2"))
	if err1 != nil || err2 != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_version_number", errors.New("v1 and v2 must be integers"))
		return
	}
	cmp, err := h.svc.CompareVersions(c.Request.Context(), id, v1, v2)
	if err != nil {
		response.Error(c, "compare_versions_failed", err)
		return
	}
	response.RespondOK(c, "", cmp)
}
