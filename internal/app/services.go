package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/lingua-backend/internal/data/aggregates"
	"github.com/yungbote/lingua-backend/internal/data/content"
	"github.com/yungbote/lingua-backend/internal/modules/grading"
	"github.com/yungbote/lingua-backend/internal/modules/progress"
	"github.com/yungbote/lingua-backend/internal/observability"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type Services struct {
	Content   content.Source
	Validator *grading.Validator
	Progress  progress.Usecases
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	src, err := wireContent(ctx, log, cfg, reposet, clients)
	if err != nil {
		return Services{}, err
	}

	validator := grading.NewValidator(grading.ValidatorDeps{
		Content: src,
		Log:     log,
		Hooks:   metrics,
	})

	agg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Learners:   reposet.Learner,
		Progress:   reposet.LessonProgress,
		Attempts:   reposet.LessonAttempt,
		XP:         reposet.XPLedger,
		DailyStats: reposet.DailyStat,
		Rules:      cfg.XP,
	})

	uc := progress.New(progress.UsecasesDeps{
		Log:        log,
		Content:    src,
		Validator:  validator,
		Aggregate:  agg,
		Learners:   reposet.Learner,
		Progress:   reposet.LessonProgress,
		Attempts:   reposet.LessonAttempt,
		XP:         reposet.XPLedger,
		DailyStats: reposet.DailyStat,
		Observer:   metrics,
	})

	return Services{Content: src, Validator: validator, Progress: uc}, nil
}

// wireContent picks the lesson source: YAML files served from memory, or the lesson tables
// (optionally seeded from the same files). Redis, when configured, caches either one.
func wireContent(ctx context.Context, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (content.Source, error) {
	var src content.Source = content.NewRepoSource(reposet.Lesson)
	if cfg.ContentDir != "" {
		files, err := content.LoadDir(cfg.ContentDir)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		lessons := files.Lessons()
		if cfg.ContentImport {
			dbc := dbctx.Context{Ctx: ctx}
			for _, l := range lessons {
				if _, err := reposet.Lesson.Upsert(dbc, l); err != nil {
					return nil, fmt.Errorf("import lesson %q: %w", l.Ref, err)
				}
			}
			log.Info("content imported", "dir", cfg.ContentDir, "lessons", len(lessons))
		} else {
			src = files
			log.Info("serving content from files", "dir", cfg.ContentDir, "lessons", len(lessons))
		}
	}
	if clients.Redis != nil {
		src = content.NewCachedSource(src, content.NewRedisStore(clients.Redis), cfg.ContentCacheTTL, log)
	}
	return src, nil
}
