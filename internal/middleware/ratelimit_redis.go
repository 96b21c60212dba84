package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/huntboard/huntboard/pkg/logger"
)

// Fixed-window counter: first INCR in a window arms the expiry, anything past
// the limit inside the window is rejected.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisRateLimiter throttles requests using a shared Redis counter, so the
// limit holds across replicas. A Redis failure fails open.
type RedisRateLimiter struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
	log    *logger.Logger
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window
// per key.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *RedisRateLimiter {
	if log == nil {
		log = logger.NewDefault("ratelimit-redis")
	}
	return &RedisRateLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
		log:    log,
	}
}

// Allow reports whether the key may proceed in the current window.
func (rl *RedisRateLimiter) Allow(key string) bool {
	if rl.client == nil || key == "" || rl.limit <= 0 || rl.window <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	allowed, err := rl.script.Run(ctx, rl.client, []string{"ratelimit:" + key}, rl.window.Milliseconds(), rl.limit).Int64()
	if err != nil {
		rl.log.WithError(err).Warn("redis rate limit check failed")
		return true
	}
	return allowed == 1
}

// Handler returns the rate limiting middleware handler.
func (rl *RedisRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := UserID(r.Context())
		if key == "" {
			key = ClientIP(r)
		}

		if !rl.Allow(key) {
			rl.log.WithField("key", key).WithField("path", r.URL.Path).Warn("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
