package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/click-backend/internal/data/db"
	httpserver "github.com/yungbote/click-backend/internal/http"
	httpH "github.com/yungbote/click-backend/internal/http/handlers"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	store        *db.Service
	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	bootLog, err := logger.New(envMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	bootLog.Info("Loading environment variables...")
	cfg := LoadConfig(bootLog)
	return NewWithConfig(bootLog, cfg)
}

// NewWithConfig wires every dependency from cfg. The caller keeps ownership
// of log only until New returns; App.Close syncs it.
func NewWithConfig(log *logger.Logger, cfg Config) (*App, error) {
	store, err := openDatabase(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(context.Background(), log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthHandler: httpH.NewHealthHandlerWithDeps(httpH.HealthHandlerDeps{
			DB:                 theDB,
			AnalyzerConfigured: serviceset.Confidence.Configured,
		}),
		ConfidenceHandler: httpH.NewConfidenceHandler(serviceset.Confidence),
		TemplateHandler:   httpH.NewTemplateHandler(serviceset.Templates),
		ComplianceHandler: httpH.NewComplianceHandler(serviceset.Compliance),
		ContentHandler:    httpH.NewContentHandler(serviceset.Content),
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clients,
		Metrics:  metrics,
		store:    store,
	}, nil
}

func openDatabase(log *logger.Logger, cfg Config) (*db.Service, error) {
	switch cfg.DBDriver {
	case "sqlite":
		store, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return store, nil
	case "postgres", "":
		store, err := db.NewPostgresService(log, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// Start installs tracing and launches background jobs.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, a.Cfg.Otel)

	if a.Services.Refresher != nil {
		if err := a.Services.Refresher.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown drains in-flight requests, then releases everything Close does.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.Close()
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Refresher != nil {
		a.Services.Refresher.Stop()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	a.Clients.Close()
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
