package gateway

import (
	"errors"
	"sync"
	"time"
)

// BreakerState 熔断器状态
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // 正常放行
	BreakerOpen                         // 拒绝所有调用
	BreakerHalfOpen                     // 放行少量试探调用
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen 熔断中
var ErrBreakerOpen = errors.New("gateway: circuit breaker open")

// Breaker 审计写库的熔断器：连续失败 threshold 次后熔断 cooldown，
// 之后半开放行 probes 次试探，全部成功则恢复，任一失败重新熔断
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	probes    int
	openedAt  time.Time
	trips     int64
	threshold int
	cooldown  time.Duration
	maxProbes int
	now       func() time.Time
}

// NewBreaker 创建熔断器
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, maxProbes: 2, now: time.Now}
}

// Call 在熔断器保护下执行 fn
func (b *Breaker) Call(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen {
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		b.probes = 0
	}
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.state == BreakerHalfOpen || b.failures >= b.threshold {
			b.state = BreakerOpen
			b.openedAt = b.now()
			b.failures = 0
			b.trips++
		}
		return
	}
	b.failures = 0
	if b.state == BreakerHalfOpen {
		b.probes++
		if b.probes >= b.maxProbes {
			b.state = BreakerClosed
		}
	}
}

// State 当前状态
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Trips 累计熔断次数
func (b *Breaker) Trips() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trips
}
