package tcpserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/metrics"
)

// Handler 处理一条连接，返回时连接被关闭
type Handler func(ctx context.Context, cc *ConnContext)

// Server MSP over TCP 监听器
type Server struct {
	cfg     cfgpkg.TCPConfig
	handler Handler
	logger  *zap.Logger
	metrics *metrics.AppMetrics

	conns *ConnectionLimiter
	rate  *RateLimiter

	ln         net.Listener
	wg         sync.WaitGroup
	nextConnID atomic.Uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

// New 创建 TCP 服务；m 可为 nil
func New(cfg cfgpkg.TCPConfig, handler Handler, logger *zap.Logger, m *metrics.AppMetrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		metrics: m,
		conns:   NewConnectionLimiter(cfg.MaxConnections, 100*time.Millisecond),
		rate:    NewRateLimiter(cfg.AcceptRate, cfg.AcceptBurst),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 监听并接受连接（非阻塞，内部 goroutine）
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("tcp server listening", zap.String("addr", ln.Addr().String()))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr 实际监听地址
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stats 限流统计
func (s *Server) Stats() Stats {
	return Stats{Connections: s.conns.Stats(), Accept: s.rate.Stats()}
}

// Stats 连接与接入速率统计
type Stats struct {
	Connections LimiterStats     `json:"connections"`
	Accept      RateLimiterStats `json:"accept"`
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			// 短暂错误等待后重试
			s.logger.Warn("accept failed", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		if !s.rate.Allow() {
			s.reject(conn, "rate")
			continue
		}
		if err := s.conns.Acquire(s.ctx); err != nil {
			s.reject(conn, "limit")
			continue
		}
		if s.metrics != nil {
			s.metrics.TCPAccepted.Inc()
		}

		cc := newConnContext(s, conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.conns.Release()
			defer cc.Close()
			s.handler(s.ctx, cc)
		}()
	}
}

func (s *Server) reject(c net.Conn, reason string) {
	if s.metrics != nil {
		s.metrics.TCPRejected.WithLabelValues(reason).Inc()
	}
	s.logger.Warn("tcp connection rejected", zap.String("reason", reason), zap.String("remote", c.RemoteAddr().String()))
	_ = c.Close()
}

// Shutdown 关闭监听，通知处理器退出并等待连接结束
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if s.ln != nil {
		_ = s.ln.Close()
	}
	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}
