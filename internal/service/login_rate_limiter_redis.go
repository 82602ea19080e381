package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// El TTL se fija con el primer fallo, la ventana es fija desde ese momento.
const redisLoginFailScript = `
local failures = redis.call("INCR", KEYS[1])
if failures == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return failures
`

const redisLimiterTimeout = 500 * time.Millisecond

type redisLimiterClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisLoginRateLimiter struct {
	client redisLimiterClient
	window time.Duration
	max    int
	prefix string
}

// NewRedisLoginRateLimiter comparte el conteo de fallos entre instancias.
// Si Redis no responde el limiter falla abierto.
func NewRedisLoginRateLimiter(client *redis.Client, window time.Duration, max int) LoginRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "login:fail:",
	}
}

func (l *redisLoginRateLimiter) Allow(key string) bool {
	redisKey, ok := l.key(key)
	if !ok {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()

	failures, err := l.client.Get(ctx, redisKey).Int()
	if err != nil {
		return true
	}
	return failures < l.max
}

func (l *redisLoginRateLimiter) Fail(key string) {
	redisKey, ok := l.key(key)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	_ = l.client.Eval(ctx, redisLoginFailScript, []string{redisKey}, seconds).Err()
}

func (l *redisLoginRateLimiter) Reset(key string) {
	redisKey, ok := l.key(key)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()
	_ = l.client.Del(ctx, redisKey).Err()
}

func (l *redisLoginRateLimiter) key(key string) (string, bool) {
	if l == nil || l.client == nil {
		return "", false
	}
	normalized := limiterKey(key)
	if normalized == "" {
		return "", false
	}
	return l.prefix + normalized, true
}
