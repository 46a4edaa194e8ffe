package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/http/response"
)

type HealthHandlerDeps struct {
	DB *gorm.DB
	// AnalyzerConfigured reports whether an analysis provider is wired.
	AnalyzerConfigured func() bool
}

type HealthHandler struct {
	deps HealthHandlerDeps
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func NewHealthHandlerWithDeps(deps HealthHandlerDeps) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	data := gin.H{"status": "ok"}

	if h.deps.DB != nil {
		db := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := h.deps.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			db = "unavailable"
			status = http.StatusServiceUnavailable
			data["status"] = "degraded"
		}
		data["database"] = db
	}
	if h.deps.AnalyzerConfigured != nil {
		data["analyzerConfigured"] = h.deps.AnalyzerConfigured()
	}
	response.Respond(c, status, "", data)
}
