package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript runs the window admission in one round trip. Expiry is left to redis,
// so no sweeper is needed for this store.
//
// KEYS[1] counter key, ARGV[1] max requests, ARGV[2] window in milliseconds.
// Returns {allowed, count, ttl_ms}.
var takeScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local window = tonumber(ARGV[2])
if not current then
	redis.call('SET', KEYS[1], '1', 'PX', ARGV[2])
	return {1, 1, window}
end
local count = tonumber(current)
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
	ttl = window
end
if count >= tonumber(ARGV[1]) then
	return {0, count, ttl}
end
count = redis.call('INCR', KEYS[1])
return {1, count, ttl}
`)

// RedisStore shares window counters between instances through redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.Scripter) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

func (s *RedisStore) Take(ctx context.Context, key string, policy Policy) (Decision, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.prefix + key},
		policy.MaxRequests, policy.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply length %d", len(res))
	}

	resetAt := s.now().Add(time.Duration(res[2]) * time.Millisecond)
	return decide(res[0] == 1, int(res[1]), resetAt, policy), nil
}
