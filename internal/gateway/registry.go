package gateway

import (
	"context"
	"io"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
)

// Gateway 会话注册表，所有传输共用一个引擎
type Gateway struct {
	engine   *msp.Engine
	opts     Options
	logger   *zap.Logger
	metrics  *metrics.AppMetrics
	recorder *Recorder
	sessions *xsync.MapOf[string, *Session]
}

// New 创建网关；m 与 rec 可为 nil
func New(engine *msp.Engine, opts Options, logger *zap.Logger, m *metrics.AppMetrics, rec *Recorder) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		engine:   engine,
		opts:     opts,
		logger:   logger,
		metrics:  m,
		recorder: rec,
		sessions: xsync.NewMapOf[string, *Session](),
	}
}

// Engine 引擎
func (g *Gateway) Engine() *msp.Engine { return g.engine }

// Serve 为一条字节流创建会话并阻塞处理，返回时会话已注销
func (g *Gateway) Serve(ctx context.Context, transport, remote string, rw io.ReadWriteCloser) error {
	s := NewSession(transport, remote, rw, g.engine, g.opts, g.logger, g.metrics, g.recorder)
	g.sessions.Store(s.ID(), s)
	if g.metrics != nil {
		g.metrics.SessionsTotal.WithLabelValues(transport).Inc()
		g.metrics.SessionsActive.WithLabelValues(transport).Inc()
	}
	defer func() {
		g.sessions.Delete(s.ID())
		if g.metrics != nil {
			g.metrics.SessionsActive.WithLabelValues(transport).Dec()
		}
	}()
	return s.Serve(ctx)
}

// Len 在线会话数
func (g *Gateway) Len() int { return g.sessions.Size() }

// Sessions 会话快照，按建立时间排序
func (g *Gateway) Sessions() []SessionInfo {
	out := make([]SessionInfo, 0, g.sessions.Size())
	g.sessions.Range(func(_ string, s *Session) bool {
		out = append(out, s.Info())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out
}

// Kick 关闭指定会话
func (g *Gateway) Kick(id string) bool {
	s, ok := g.sessions.Load(id)
	if !ok {
		return false
	}
	_ = s.Close()
	return true
}

// CloseAll 关闭所有会话
func (g *Gateway) CloseAll() {
	g.sessions.Range(func(_ string, s *Session) bool {
		_ = s.Close()
		return true
	})
}
