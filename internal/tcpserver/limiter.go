package tcpserver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrConnectionLimit 并发连接已满
var ErrConnectionLimit = errors.New("tcpserver: connection limit exceeded")

// ConnectionLimiter 并发连接数限制（信号量）
type ConnectionLimiter struct {
	sem      chan struct{}
	timeout  time.Duration
	active   atomic.Int64
	rejected atomic.Int64
}

// NewConnectionLimiter maxConn 为最大并发连接数，timeout 为等待空位的时间
func NewConnectionLimiter(maxConn int, timeout time.Duration) *ConnectionLimiter {
	if maxConn <= 0 {
		maxConn = 64
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &ConnectionLimiter{sem: make(chan struct{}, maxConn), timeout: timeout}
}

// Acquire 获取许可，超时或 ctx 取消时返回 ErrConnectionLimit
func (l *ConnectionLimiter) Acquire(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		l.rejected.Add(1)
		return ErrConnectionLimit
	}
}

// Release 释放许可
func (l *ConnectionLimiter) Release() {
	select {
	case <-l.sem:
		l.active.Add(-1)
	default:
	}
}

// Stats 统计信息
func (l *ConnectionLimiter) Stats() LimiterStats {
	active := int(l.active.Load())
	return LimiterStats{
		MaxConnections:    cap(l.sem),
		ActiveConnections: active,
		RejectedTotal:     l.rejected.Load(),
		Utilization:       float64(active) / float64(cap(l.sem)),
	}
}

// LimiterStats 连接限制统计
type LimiterStats struct {
	MaxConnections    int     `json:"max_connections"`
	ActiveConnections int     `json:"active_connections"`
	RejectedTotal     int64   `json:"rejected_total"`
	Utilization       float64 `json:"utilization"` // 0.0 - 1.0
}
