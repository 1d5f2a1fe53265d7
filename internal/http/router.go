package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lingua-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lingua-backend/internal/http/middleware"
	"github.com/yungbote/lingua-backend/internal/observability"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	// InternalToken enables the /internal group for trusted services. Empty leaves it unmounted.
	InternalToken string

	HealthHandler   *httpH.HealthHandler
	GradingHandler  *httpH.GradingHandler
	ProgressHandler *httpH.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.AttachRequestContext())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	protected := r.Group("/api")
	protected.Use(httpMW.RequireUser())
	{
		// Grading
		if cfg.GradingHandler != nil {
			protected.POST("/lessons/:ref/tasks/:task_ref/validate", cfg.GradingHandler.Validate)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/lessons/:ref/tasks/:task_ref/submit", cfg.ProgressHandler.Submit)
			protected.GET("/lessons/:ref/access", cfg.ProgressHandler.Access)

			protected.GET("/me/progress", cfg.ProgressHandler.ListProgress)
			protected.GET("/me/xp", cfg.ProgressHandler.ListXP)
			protected.GET("/me/daily-stats", cfg.ProgressHandler.ListDailyStats)
			protected.GET("/me/summary", cfg.ProgressHandler.Summary)
			protected.GET("/me/lessons/:ref/attempts", cfg.ProgressHandler.ListLessonAttempts)
			protected.PUT("/me/timezone", cfg.ProgressHandler.SetTimezone)
		}
	}

	// Pre-graded attempts from trusted services
	if cfg.InternalToken != "" && cfg.ProgressHandler != nil {
		internal := r.Group("/internal")
		internal.Use(httpMW.RequireInternalToken(cfg.InternalToken), httpMW.RequireUser())
		internal.POST("/attempts", cfg.ProgressHandler.RecordAttempt)
	}

	return r
}
