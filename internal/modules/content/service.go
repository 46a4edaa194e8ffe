package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/click-backend/internal/data/repos"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

var ErrContentNotFound = errors.New("content not found")

type CreateInput struct {
	AgencyWorkspaceID uuid.UUID      `json:"agencyWorkspaceId"`
	ClientWorkspaceID *uuid.UUID     `json:"clientWorkspaceId,omitempty"`
	Title             string         `json:"title,omitempty"`
	Text              string         `json:"text"`
	Platform          string         `json:"platform,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

type Service struct {
	repo repos.ContentRepo
	log  *logger.Logger
}

func NewService(repo repos.ContentRepo, baseLog *logger.Logger) *Service {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Service{repo: repo, log: baseLog.With("service", "ContentService")}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*types.Content, error) {
	if in.AgencyWorkspaceID == uuid.Nil {
		return nil, apierr.BadRequest("missing_agency_workspace_id", errors.New("agencyWorkspaceId required"))
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, apierr.BadRequest("missing_text", errors.New("text required"))
	}
	meta := in.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, apierr.BadRequest("invalid_metadata", err)
	}
	row, err := s.repo.Create(dbctx.Context{Ctx: ctx}, &types.Content{
		AgencyWorkspaceID: in.AgencyWorkspaceID,
		ClientWorkspaceID: in.ClientWorkspaceID,
		Title:             in.Title,
		Text:              in.Text,
		Platform:          in.Platform,
		Metadata:          datatypes.JSON(raw),
	})
	if err != nil {
		return nil, apierr.Internal("create_content_failed", err)
	}
	s.log.Debug("Content created", "content_id", row.ID)
	return row, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Content, error) {
	if id == uuid.Nil {
		return nil, apierr.BadRequest("missing_content_id", errors.New("contentId required"))
	}
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, apierr.Internal("load_content_failed", err)
	}
	if row == nil {
		return nil, apierr.NotFound("content_not_found", ErrContentNotFound)
	}
	return row, nil
}
