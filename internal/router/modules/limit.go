package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-account-service/internal/container"
	"github.com/oksasatya/go-ddd-account-service/internal/interface/middleware"
)

// limit is a Redis rate limiter, or a no-op when Redis is not wired.
func limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	rdb := container.GetRedis()
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(rdb, max, window, key, nil)
}
