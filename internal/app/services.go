package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/jobs"
	"github.com/yungbote/click-backend/internal/modules/compliance"
	"github.com/yungbote/click-backend/internal/modules/confidence"
	"github.com/yungbote/click-backend/internal/modules/content"
	"github.com/yungbote/click-backend/internal/modules/templates"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type Services struct {
	Confidence *confidence.Service
	Compliance *compliance.Service
	Templates  *templates.Service
	Content    *content.Service

	Refresher *jobs.AnalyticsRefresher
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	analyzer := confidence.NewAnalyzer(clients.Generator, log, metrics, confidence.AnalyzerConfig{
		Timeout: cfg.AnalyzerTimeout,
	})

	confidenceService := confidence.NewService(confidence.ServiceDeps{
		DB:               db,
		Log:              log,
		Analyzer:         analyzer,
		Scores:           reposet.ConfidenceScore,
		Contents:         reposet.Content,
		Bus:              clients.Bus,
		Metrics:          metrics,
		BatchConcurrency: cfg.BatchConcurrency,
	})

	templateService := templates.NewService(templates.ServiceDeps{
		DB:         db,
		Log:        log,
		Templates:  reposet.AITemplate,
		Versions:   reposet.AITemplateVersion,
		Contents:   reposet.Content,
		Scores:     reposet.ConfidenceScore,
		Generator:  clients.Generator,
		Confidence: confidenceService,
		Cache:      clients.Cache,
		CacheTTL:   cfg.CacheTTL,
		Metrics:    metrics,
	})

	complianceService := compliance.NewService(compliance.ServiceDeps{
		Log:       log,
		Templates: templateService,
		Metrics:   metrics,
	})

	return Services{
		Confidence: confidenceService,
		Compliance: complianceService,
		Templates:  templateService,
		Content:    content.NewService(reposet.Content, log),
		Refresher:  jobs.NewAnalyticsRefresher(log, reposet.AITemplate, templateService, metrics, cfg.RefreshSchedule),
	}
}
