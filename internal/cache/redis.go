package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anonrelay/backend/internal/models"
)

// eventsChannel carries moderation lifecycle events (pending, decided,
// published) to the reviewer hub and the transport collaborator.
const eventsChannel = "moderation.events"

// Counter names surfaced by the stats endpoint
const (
	CounterProcessed = "messages_processed"
	CounterFiltered  = "messages_filtered"
	CounterPosted    = "messages_posted"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Stats counters

// IncrCounter bumps a named stats counter
func (r *RedisClient) IncrCounter(name string) error {
	return r.client.Incr(r.ctx, "stats:"+name).Err()
}

// GetCounters fetches the named stats counters, missing ones read as zero
func (r *RedisClient) GetCounters(names ...string) (map[string]int64, error) {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = "stats:" + name
	}

	values, err := r.client.MGet(r.ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	counters := make(map[string]int64, len(names))
	for i, name := range names {
		counters[name] = 0
		if s, ok := values[i].(string); ok {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				counters[name] = v
			}
		}
	}
	return counters, nil
}

// Pub/Sub

// PublishEvent publishes a moderation event
func (r *RedisClient) PublishEvent(event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, eventsChannel, data).Err()
}

// SubscribeEvents subscribes to the moderation events channel
func (r *RedisClient) SubscribeEvents() *redis.PubSub {
	return r.client.Subscribe(r.ctx, eventsChannel)
}

// AllowAction implements a Redis-backed token-bucket limiter per key (user+action).
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(userID int64, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%d", action, userID)
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 1
else
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 0
end
`

	now := time.Now().UnixNano() / int64(time.Millisecond)
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	// Eval returns int64 (1 or 0)
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case int:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
