package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// takeScript refills the bucket for the elapsed time and consumes one token
// if available. Returns {allowed, remaining}.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(state[1]) or capacity
local last = tonumber(state[2]) or now

local add = math.floor(((now - last) / window) * refill)
if add > 0 then
	if tokens + add >= capacity then
		tokens = capacity
		last = now
	else
		-- keep the unspent part of the elapsed time
		tokens = tokens + add
		last = last + add * window / refill
	end
end

local allowed = 0
if tokens > 0 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill', last)
redis.call('EXPIRE', key, window * 2)
return {allowed, tokens}
`)

// peekScript reports the token count without consuming.
var peekScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(state[1]) or capacity
local last = tonumber(state[2]) or now

local add = math.floor(((now - last) / window) * refill)
if add > 0 then
	tokens = math.min(capacity, tokens + add)
end
return tokens
`)

// TokenBucket is a Redis-backed token bucket shared by all service replicas.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64
	refill   int64 // tokens per window
	window   time.Duration
	now      func() time.Time
}

func NewTokenBucket(redisClient *redis.Client, capacity, refillPerMinute int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillPerMinute,
		window:   time.Minute,
		now:      time.Now,
	}
}

func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

func key(userID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", userID, action)
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), tb.now().Unix()}
}

// Take consumes a token for the user action. It reports whether the action
// is allowed and how many tokens remain.
func (tb *TokenBucket) Take(ctx context.Context, userID, action string) (bool, int64, error) {
	res, err := takeScript.Run(ctx, tb.redis, []string{key(userID, action)}, tb.args()...).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return false, 0, fmt.Errorf("unexpected result from rate limit script: %v", res)
	}
	allowed, ok1 := vals[0].(int64)
	remaining, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, fmt.Errorf("unexpected result from rate limit script: %v", res)
	}

	return allowed == 1, remaining, nil
}

// Allow is Take without the remaining count.
func (tb *TokenBucket) Allow(ctx context.Context, userID, action string) (bool, error) {
	allowed, _, err := tb.Take(ctx, userID, action)
	return allowed, err
}

// GetRemaining returns the number of remaining tokens for a user action
func (tb *TokenBucket) GetRemaining(ctx context.Context, userID, action string) (int64, error) {
	res, err := peekScript.Run(ctx, tb.redis, []string{key(userID, action)}, tb.args()...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}

	remaining, ok := res.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result from remaining tokens script: %v", res)
	}
	return remaining, nil
}

// Reset clears the rate limit for a specific user action
func (tb *TokenBucket) Reset(ctx context.Context, userID, action string) error {
	return tb.redis.Del(ctx, key(userID, action)).Err()
}
