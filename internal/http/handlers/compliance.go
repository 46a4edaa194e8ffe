package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/click-backend/internal/http/response"
	"github.com/yungbote/click-backend/internal/modules/compliance"
)

type ComplianceService interface {
	CheckContentCompliance(ctx context.Context, content string, templateID uuid.UUID) (*compliance.Report, error)
	AutoFixContent(ctx context.Context, content string, templateID *uuid.UUID, violations []compliance.Violation) (*compliance.FixResult, error)
	Suggestions(ctx context.Context, content string, templateID uuid.UUID) ([]compliance.Suggestion, error)
}

type ComplianceHandler struct {
	svc ComplianceService
}

func NewComplianceHandler(svc ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{svc: svc}
}

type complianceRequest struct {
	Content    string `json:"content"`
	TemplateID string `json:"templateId"`
}

type autoFixRequest struct {
	Content    string                 `json:"content"`
	TemplateID string                 `json:"templateId"`
	Violations []compliance.Violation `json:"violations"`
}

// POST /api/compliance/check
func (h *ComplianceHandler) Check(c *gin.Context) {
	var req complianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	templateID, err := requiredUUID(req.TemplateID, "templateId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	report, err := h.svc.CheckContentCompliance(c.Request.Context(), req.Content, templateID)
	if err != nil {
		response.Error(c, "compliance_check_failed", err)
		return
	}
	response.RespondOK(c, "", report)
}

// POST /api/compliance/auto-fix
func (h *ComplianceHandler) AutoFix(c *gin.Context) {
	var req autoFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	templateID, err := optionalUUID(req.TemplateID, "templateId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	res, err := h.svc.AutoFixContent(c.Request.Context(), req.Content, templateID, req.Violations)
	if err != nil {
		response.Error(c, "auto_fix_failed", err)
		return
	}
	response.RespondOK(c, "", res)
}

// POST /api/compliance/suggestions
func (h *ComplianceHandler) Suggestions(c *gin.Context) {
	var req complianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	templateID, err := requiredUUID(req.TemplateID, "templateId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	out, err := h.svc.Suggestions(c.Request.Context(), req.Content, templateID)
	if err != nil {
		response.Error(c, "suggestions_failed", err)
		return
	}
	response.RespondOK(c, "", gin.H{"suggestions": out})
}
