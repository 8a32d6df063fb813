package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
)

// RegisterCacheSweep removes expired query cache entries every interval.
func RegisterCacheSweep(scheduler *Scheduler, c *cache.Cache, interval time.Duration) {
	scheduler.AddJob("sweep_query_cache", interval, func(ctx context.Context) error {
		if removed := c.Sweep(); removed > 0 {
			slog.DebugContext(ctx, "Expired cache entries removed", "count", removed)
		}
		return nil
	})
}
