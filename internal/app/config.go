package app

import (
	"os"
	"strings"
	"time"

	"github.com/yungbote/click-backend/internal/data/db"
	"github.com/yungbote/click-backend/internal/jobs"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/envutil"
	"github.com/yungbote/click-backend/internal/platform/gemini"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/openai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderAuto   = "auto"
)

type Config struct {
	Port    string
	LogMode string

	DBDriver   string
	SQLitePath string
	Postgres   db.PostgresConfig

	RedisAddr    string
	RedisChannel string
	CacheTTL     time.Duration

	AnalyzerProvider string
	AnalyzerTimeout  time.Duration
	Gemini           gemini.Config
	OpenAI           openai.Config
	BatchConcurrency int

	MetricsEnabled  bool
	Otel            observability.OtelConfig
	RefreshSchedule string
	AllowedOrigins  []string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:    envutil.String("PORT", "8080", log),
		LogMode: envutil.String("LOG_MODE", "development", log),

		DBDriver:   strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)),
		SQLitePath: envutil.String("SQLITE_PATH", "click.db", log),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost", log),
			Port:     envutil.String("POSTGRES_PORT", "5432", log),
			User:     envutil.String("POSTGRES_USER", "postgres", log),
			Password: envutil.String("POSTGRES_PASSWORD", "", log),
			Name:     envutil.String("POSTGRES_NAME", "click", log),
		},

		RedisAddr:    envutil.String("REDIS_ADDR", "", log),
		RedisChannel: envutil.String("REDIS_CHANNEL", "confidence", log),
		CacheTTL:     envutil.Seconds("CACHE_TTL_SECONDS", 300*time.Second, log),

		AnalyzerProvider: strings.ToLower(envutil.String("ANALYZER_PROVIDER", ProviderAuto, log)),
		AnalyzerTimeout:  envutil.Seconds("ANALYZER_TIMEOUT_SECONDS", 30*time.Second, log),
		Gemini:           gemini.ConfigFromEnv(log),
		OpenAI:           openai.ConfigFromEnv(log),
		BatchConcurrency: envutil.Int("BATCH_CONCURRENCY", 4, log),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "click-backend", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Exporter:    envutil.String("OTEL_EXPORTER", "otlp", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true, log),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1, log),
			OTLPHeaders: observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
		},
		RefreshSchedule: refreshSchedule(log),
		AllowedOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
	}
}

// refreshSchedule treats an explicitly empty or "off" value as disabled.
func refreshSchedule(log *logger.Logger) string {
	raw, ok := os.LookupEnv("ANALYTICS_REFRESH_SCHEDULE")
	if !ok {
		return envutil.String("ANALYTICS_REFRESH_SCHEDULE", jobs.DefaultRefreshSchedule, log)
	}
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "off") {
		return ""
	}
	return raw
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envMode() string {
	if mode := strings.TrimSpace(os.Getenv("LOG_MODE")); mode != "" {
		return mode
	}
	return "development"
}
