package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/repos"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type Repos struct {
	ConfidenceScore   repos.ConfidenceScoreRepo
	AITemplate        repos.AITemplateRepo
	AITemplateVersion repos.AITemplateVersionRepo
	Content           repos.ContentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ConfidenceScore:   repos.NewConfidenceScoreRepo(db, log),
		AITemplate:        repos.NewAITemplateRepo(db, log),
		AITemplateVersion: repos.NewAITemplateVersionRepo(db, log),
		Content:           repos.NewContentRepo(db, log),
	}
}
