package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "studydesk:activity:"
	idleMarker     = "idle"
)

// touchScript runs the idle check and the write as one step so a stale
// request can never overwrite a tombstone another replica just set.
//
// KEYS[1] activity key
// ARGV[1] now (unix ms), ARGV[2] idle timeout (ms), ARGV[3] retention (ms),
// ARGV[4] idle marker
//
// Returns 1 when the session is idle, 0 otherwise.
var touchScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v == ARGV[4] then
	return 1
end
if v then
	local last = tonumber(v)
	if last and tonumber(ARGV[1]) - last > tonumber(ARGV[2]) then
		redis.call('SET', KEYS[1], ARGV[4], 'PX', ARGV[3])
		return 1
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 0
`)

// Redis shares activity between replicas. Each key holds the last activity
// in unix milliseconds, or the idle marker, and expires after the retention.
type Redis struct {
	client *redis.Client
	opts   Options
}

func NewRedis(client *redis.Client, opts Options) *Redis {
	return &Redis{client: client, opts: opts.withDefaults()}
}

func (r *Redis) Touch(ctx context.Context, key string, now time.Time) error {
	idle, err := touchScript.Run(ctx, r.client, []string{redisKeyPrefix + key},
		now.UnixMilli(),
		r.opts.IdleTimeout.Milliseconds(),
		r.opts.Retention.Milliseconds(),
		idleMarker,
	).Int()
	if err != nil {
		return fmt.Errorf("activity: touch %s: %w", key, err)
	}
	if idle == 1 {
		return ErrIdle
	}
	return nil
}

// Sweep is a no-op; Redis expires keys after the retention on its own.
func (r *Redis) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Ping checks the connection for the readiness check.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
