package tcpserver

import (
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"
)

// ConnContext 一条 TCP 连接，实现 io.ReadWriteCloser
// 读超时只刷新 deadline 不断开；写带超时
type ConnContext struct {
	s      *Server
	c      net.Conn
	id     uint64
	closed atomic.Bool
}

func newConnContext(s *Server, c net.Conn) *ConnContext {
	return &ConnContext{s: s, c: c, id: s.nextConnID.Add(1)}
}

// ID 连接ID（单进程唯一递增）
func (cc *ConnContext) ID() uint64 { return cc.id }

// RemoteAddr 远端地址
func (cc *ConnContext) RemoteAddr() net.Addr { return cc.c.RemoteAddr() }

// Read 阻塞读取；空闲超时后继续等待，直到连接关闭
func (cc *ConnContext) Read(p []byte) (int, error) {
	for {
		if to := cc.s.cfg.ReadTimeout; to > 0 {
			_ = cc.c.SetReadDeadline(time.Now().Add(to))
		}
		n, err := cc.c.Read(p)
		if n > 0 && cc.s.metrics != nil {
			cc.s.metrics.TCPBytesReceived.Add(float64(n))
		}
		if err != nil && n == 0 && errors.Is(err, os.ErrDeadlineExceeded) && !cc.closed.Load() {
			continue
		}
		return n, err
	}
}

// Write 同步写入
func (cc *ConnContext) Write(b []byte) (int, error) {
	if cc.closed.Load() {
		return 0, net.ErrClosed
	}
	if to := cc.s.cfg.WriteTimeout; to > 0 {
		_ = cc.c.SetWriteDeadline(time.Now().Add(to))
	}
	return cc.c.Write(b)
}

// Close 关闭连接，可重复调用
func (cc *ConnContext) Close() error {
	if !cc.closed.CompareAndSwap(false, true) {
		return nil
	}
	return cc.c.Close()
}
