package health

import (
	"context"
	"time"

	"github.com/taoyao-code/msp-server/internal/tcpserver"
)

// TCPChecker MSP TCP 监听器连接占用
type TCPChecker struct {
	server *tcpserver.Server
}

// NewTCPChecker 创建
func NewTCPChecker(server *tcpserver.Server) *TCPChecker {
	return &TCPChecker{server: server}
}

func (c *TCPChecker) Name() string { return "tcp" }

// Check 连接占用超过 80% 降级，达到 100% 不健康
func (c *TCPChecker) Check(context.Context) CheckResult {
	start := time.Now()
	st := c.server.Stats()
	status, msg := byUtilization(st.Connections.Utilization, 0.8, 1.0)
	return CheckResult{
		Status:  status,
		Message: msg,
		Details: map[string]any{
			"active_connections": st.Connections.ActiveConnections,
			"max_connections":    st.Connections.MaxConnections,
			"rejected_total":     st.Connections.RejectedTotal,
			"accept_rejected":    st.Accept.RejectedTotal,
		},
		Latency: time.Since(start),
	}
}
