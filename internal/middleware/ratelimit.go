package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimit caps requests per client IP inside a fixed window using a
// redis counter. The key expires with the window, so no cleanup is needed.
func RedisRateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := "ratelimit:checkout:" + c.RealIP()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Rate limiting is best-effort; a redis hiccup should not
				// block checkouts.
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, window)
			}
			if count > int64(limit) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, slow down")
			}

			return next(c)
		}
	}
}
