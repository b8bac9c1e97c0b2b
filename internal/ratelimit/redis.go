package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "legalease:ratelimit"

// Returns {count, pttl}. The first hit in a window sets the expiry.
var windowCounterScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter shares one fixed window across server instances. The caller
// owns the client.
type RedisLimiter struct {
	client  redis.UniversalClient
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisLimiter{
		client:  client,
		prefix:  prefix,
		limit:   limit,
		window:  window,
		timeout: 2 * time.Second,
		now:     time.Now,
	}, nil
}

// Allow fails closed: a Redis error rejects the request. retryAfter comes
// from the key's remaining TTL so every instance reports the same value.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	slot, localRetry := windowSlot(l.now().UTC(), l.window)
	counterKey := fmt.Sprintf("%s:%s:%d", l.prefix, normalizeKey(key), slot)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := windowCounterScript.Run(ctx, l.client, []string{counterKey}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		return false, localRetry
	}
	if res[0] <= int64(l.limit) {
		return true, 0
	}
	if res[1] > 0 {
		return false, time.Duration(res[1]) * time.Millisecond
	}
	return false, localRetry
}
