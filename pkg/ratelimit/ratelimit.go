// Package ratelimit 按 key 限流：配置 Redis 时多实例共享 GCRA 配额，否则使用进程内令牌桶
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 限流器
type RateLimiter interface {
	// Allow 检查 key 在 limit 规则下是否放行
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 限流规则：每 Period 允许 Rate 次，突发上限 Burst
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// PerSecond 每秒 rate 次的规则，burst 为 0 时取 rate
func PerSecond(rate, burst int) Limit {
	if burst <= 0 {
		burst = rate
	}
	return Limit{Rate: rate, Period: time.Second, Burst: burst}
}

// IsZero 未配置限流
func (l Limit) IsZero() bool {
	return l.Rate <= 0 || l.Period <= 0
}

// Result 限流检查结果
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisRateLimiter 基于 Redis 的分布式限流
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisRateLimiter 创建 Redis 限流器
func NewRedisRateLimiter(rdb redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(rdb),
	}
}

// Allow 检查是否放行
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// LocalRateLimiter 进程内令牌桶，每个 key 一个桶
type LocalRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLocalRateLimiter 创建进程内限流器
func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow 检查是否放行
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit Limit) (*Result, error) {
	if limit.IsZero() {
		return &Result{Allowed: true}, nil
	}
	capacity := float64(limit.Burst)
	if capacity <= 0 {
		capacity = float64(limit.Rate)
	}
	refill := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.tokens = min(capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*refill)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return &Result{Allowed: true, Remaining: int(b.tokens)}, nil
	}
	wait := time.Duration((1 - b.tokens) / refill * float64(time.Second))
	return &Result{Allowed: false, RetryAfter: wait, ResetAfter: wait}, nil
}
