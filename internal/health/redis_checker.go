package health

import (
	"context"
	"fmt"
	"time"

	redisstorage "github.com/taoyao-code/msp-server/internal/storage/redis"
)

// RedisChecker Redis 检查（闪存镜像后端）
type RedisChecker struct {
	client *redisstorage.Client
}

// NewRedisChecker 创建
func NewRedisChecker(client *redisstorage.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

// Check ping 并报告连接池统计，超时过多视为降级
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.client.HealthCheck(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err), Latency: time.Since(start)}
	}
	st := c.client.Stats()
	status, msg := StatusHealthy, "ok"
	if st.Timeouts > 0 && st.Timeouts*10 > st.Hits {
		status, msg = StatusDegraded, "frequent pool timeouts"
	}
	return CheckResult{
		Status:  status,
		Message: msg,
		Details: map[string]any{
			"total_conns": st.TotalConns,
			"idle_conns":  st.IdleConns,
			"hits":        st.Hits,
			"misses":      st.Misses,
			"timeouts":    st.Timeouts,
		},
		Latency: time.Since(start),
	}
}
