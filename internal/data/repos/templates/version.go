package templates

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

// ErrDuplicateVersion is returned when (template_id, version_number) already exists.
var ErrDuplicateVersion = errors.New("template version already exists")

type AITemplateVersionRepo interface {
	Create(dbc dbctx.Context, row *types.AITemplateVersion) (*types.AITemplateVersion, error)
	GetByTemplateAndNumber(dbc dbctx.Context, templateID uuid.UUID, versionNumber int) (*types.AITemplateVersion, error)
	ListByTemplate(dbc dbctx.Context, templateID uuid.UUID) ([]*types.AITemplateVersion, error)
}

type aiTemplateVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAITemplateVersionRepo(db *gorm.DB, baseLog *logger.Logger) AITemplateVersionRepo {
	return &aiTemplateVersionRepo{db: db, log: baseLog.With("repo", "AITemplateVersionRepo")}
}

func (r *aiTemplateVersionRepo) Create(dbc dbctx.Context, row *types.AITemplateVersion) (*types.AITemplateVersion, error) {
	if row == nil || row.TemplateID == uuid.Nil {
		return nil, errors.New("template version requires templateId")
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateVersion
		}
		return nil, err
	}
	return row, nil
}

func (r *aiTemplateVersionRepo) GetByTemplateAndNumber(dbc dbctx.Context, templateID uuid.UUID, versionNumber int) (*types.AITemplateVersion, error) {
	if templateID == uuid.Nil {
		return nil, nil
	}
	var out types.AITemplateVersion
	if err := dbc.Conn(r.db).
		Where("template_id = ? AND version_number = ?", templateID, versionNumber).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *aiTemplateVersionRepo) ListByTemplate(dbc dbctx.Context, templateID uuid.UUID) ([]*types.AITemplateVersion, error) {
	var out []*types.AITemplateVersion
	if templateID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("template_id = ?", templateID).
		Order("version_number DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
