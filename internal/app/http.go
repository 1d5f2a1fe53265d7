package app

import (
	"context"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/lingua-backend/internal/http"
	httpH "github.com/yungbote/lingua-backend/internal/http/handlers"
	"github.com/yungbote/lingua-backend/internal/observability"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Grading  *httpH.GradingHandler
	Progress *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	deps := map[string]httpH.Pinger{
		"database": httpH.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if clients.Redis != nil {
		rdb := clients.Redis
		deps["redis"] = httpH.PingFunc(func(ctx context.Context) error {
			return pingRedis(ctx, rdb)
		})
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(deps),
		Grading:  httpH.NewGradingHandler(log, services.Validator),
		Progress: httpH.NewProgressHandler(log, services.Progress),
	}
}

func pingRedis(ctx context.Context, rdb *goredis.Client) error {
	return rdb.Ping(ctx).Err()
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		InternalToken:   cfg.InternalToken,
		HealthHandler:   handlers.Health,
		GradingHandler:  handlers.Grading,
		ProgressHandler: handlers.Progress,
	})
}
