package tcpserver

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// RateLimiter 新连接接入速率（令牌桶）
type RateLimiter struct {
	limiter  *rate.Limiter
	perSec   int
	burst    int
	allowed  atomic.Int64
	rejected atomic.Int64
}

// NewRateLimiter perSec 为稳定速率，burst 为桶容量（默认 2 倍速率）
func NewRateLimiter(perSec, burst int) *RateLimiter {
	if perSec <= 0 {
		perSec = 20
	}
	if burst <= 0 {
		burst = perSec * 2
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		perSec:  perSec,
		burst:   burst,
	}
}

// Allow 非阻塞判断
func (l *RateLimiter) Allow() bool {
	if l.limiter.Allow() {
		l.allowed.Add(1)
		return true
	}
	l.rejected.Add(1)
	return false
}

// Stats 统计信息
func (l *RateLimiter) Stats() RateLimiterStats {
	return RateLimiterStats{
		RatePerSecond: l.perSec,
		Burst:         l.burst,
		AllowedTotal:  l.allowed.Load(),
		RejectedTotal: l.rejected.Load(),
	}
}

// RateLimiterStats 接入速率统计
type RateLimiterStats struct {
	RatePerSecond int   `json:"rate_per_second"`
	Burst         int   `json:"burst"`
	AllowedTotal  int64 `json:"allowed_total"`
	RejectedTotal int64 `json:"rejected_total"`
}
