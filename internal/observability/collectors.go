package observability

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/lingua-backend/internal/platform/envutil"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

const defaultScrapeInterval = 10 * time.Second

func scrapeInterval() time.Duration {
	if d := envutil.Duration("METRICS_SCRAPE_INTERVAL", defaultScrapeInterval); d > 0 {
		return d
	}
	return defaultScrapeInterval
}

// every calls fn on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// StartDBCollector samples the connection pool behind db.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	if log == nil {
		log = logger.NewNop()
	}
	every(ctx, scrapeInterval(), func(context.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("db pool stats unavailable", "error", err)
			return
		}
		m.recordPool(sqlDB.Stats())
	})
}

// StartRedisCollector pings rdb on every scrape interval. The caller owns rdb.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	if log == nil {
		log = logger.NewNop()
	}
	every(ctx, scrapeInterval(), func(ctx context.Context) {
		started := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			log.Warn("redis ping failed", "error", err)
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(started).Seconds())
	})
}

func (m *Metrics) recordPool(s sql.DBStats) {
	for stat, v := range map[string]float64{
		"open_connections":      float64(s.OpenConnections),
		"in_use":                float64(s.InUse),
		"idle":                  float64(s.Idle),
		"wait_count":            float64(s.WaitCount),
		"wait_duration_seconds": s.WaitDuration.Seconds(),
		"max_open_connections":  float64(s.MaxOpenConnections),
	} {
		m.dbStats.Set(v, stat)
	}
}
