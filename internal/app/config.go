package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/lingua-backend/internal/data/db"
	"github.com/yungbote/lingua-backend/internal/domain/learning"
	"github.com/yungbote/lingua-backend/internal/platform/envutil"
)

const serviceName = "lingua-backend"

type Config struct {
	Port        string
	LogMode     string
	Environment string

	DB db.Options

	RedisAddr       string
	ContentCacheTTL time.Duration
	// ContentDir points at YAML lessons. With ContentImport they are upserted into the
	// database at startup, otherwise they are served from memory.
	ContentDir    string
	ContentImport bool

	XP learning.XPRules

	MetricsAddr string
	CORSOrigins []string
	// InternalToken guards POST /internal/attempts; unset keeps the route off.
	InternalToken string
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		Environment:     envutil.String("ENVIRONMENT", "development"),
		DB:              db.OptionsFromEnv(),
		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		ContentCacheTTL: envutil.Duration("CONTENT_CACHE_TTL", 10*time.Minute),
		ContentDir:      envutil.String("CONTENT_DIR", ""),
		ContentImport:   envutil.Bool("CONTENT_IMPORT", false),
		MetricsAddr:     envutil.String("METRICS_ADDR", ":9090"),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),
		InternalToken:   envutil.String("INTERNAL_API_TOKEN", ""),
	}

	rules := learning.DefaultXPRules()
	rules.TaskXP = envutil.Int("XP_TASK", rules.TaskXP)
	rules.LessonCompleteXP = envutil.Int("XP_LESSON_COMPLETE", rules.LessonCompleteXP)
	if raw := envutil.String("STREAK_MILESTONES", ""); raw != "" {
		m, err := learning.ParseStreakMilestones(raw)
		if err != nil {
			return Config{}, fmt.Errorf("STREAK_MILESTONES: %w", err)
		}
		rules.StreakMilestones = m
	}
	if rules.TaskXP < 0 || rules.LessonCompleteXP < 0 {
		return Config{}, fmt.Errorf("xp amounts must be >= 0")
	}
	cfg.XP = rules

	if cfg.ContentImport && strings.TrimSpace(cfg.ContentDir) == "" {
		return Config{}, fmt.Errorf("CONTENT_IMPORT requires CONTENT_DIR")
	}
	return cfg, nil
}
