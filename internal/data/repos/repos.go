package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/repos/confidence"
	"github.com/yungbote/click-backend/internal/data/repos/content"
	"github.com/yungbote/click-backend/internal/data/repos/templates"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type ConfidenceScoreRepo = confidence.ConfidenceScoreRepo

type AITemplateRepo = templates.AITemplateRepo
type AITemplateVersionRepo = templates.AITemplateVersionRepo

type ContentRepo = content.ContentRepo

var ErrDuplicateVersion = templates.ErrDuplicateVersion

func NewConfidenceScoreRepo(db *gorm.DB, baseLog *logger.Logger) ConfidenceScoreRepo {
	return confidence.NewConfidenceScoreRepo(db, baseLog)
}

func NewAITemplateRepo(db *gorm.DB, baseLog *logger.Logger) AITemplateRepo {
	return templates.NewAITemplateRepo(db, baseLog)
}

func NewAITemplateVersionRepo(db *gorm.DB, baseLog *logger.Logger) AITemplateVersionRepo {
	return templates.NewAITemplateVersionRepo(db, baseLog)
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return content.NewContentRepo(db, baseLog)
}
