package app

import (
	"context"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/gateway"
	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/tcpserver"
)

// NewTCPServer 根据配置创建 TCP 服务器，每条连接交给网关作为一个 MSP 会话
func NewTCPServer(cfg cfgpkg.TCPConfig, gw *gateway.Gateway, log *zap.Logger, m *metrics.AppMetrics) *tcpserver.Server {
	return tcpserver.New(cfg, func(ctx context.Context, cc *tcpserver.ConnContext) {
		if err := gw.Serve(ctx, gateway.TransportTCP, cc.RemoteAddr().String(), cc); err != nil {
			log.Debug("tcp session ended", zap.Uint64("conn", cc.ID()), zap.Error(err))
		}
	}, log, m)
}
