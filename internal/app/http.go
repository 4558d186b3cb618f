package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/httpserver"
	"github.com/taoyao-code/msp-server/internal/metrics"
)

// NewMetrics 初始化注册表与应用指标
// 指标关闭时 handler 为 nil
func NewMetrics(cfg cfgpkg.MetricsConfig) (*prometheus.Registry, *metrics.AppMetrics, http.Handler) {
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	if !cfg.Enable {
		return reg, appm, nil
	}
	return reg, appm, metrics.Handler(reg)
}

// NewHTTPServer 根据配置创建 HTTP 服务器，metricsHandler 为 nil 时不注册指标路由
func NewHTTPServer(cfg *cfgpkg.Config, metricsHandler http.Handler, readyFn func() bool) *httpserver.Server {
	return httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn)
}
