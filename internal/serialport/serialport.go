// Package serialport 串口 MSP 传输：打开配置的设备并交给网关，出错后退避重开
package serialport

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/gateway"
)

const maxBackoff = 30 * time.Second

// Port 打开后的串口
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Opener 打开串口
type Opener func(name string, baud int) (Port, error)

// Open 以 8N1 打开设备
func Open(name string, baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return p, nil
}

// List 枚举可用串口
func List() ([]string, error) {
	return serial.GetPortsList()
}

// Runner 串口会话循环
type Runner struct {
	cfg    cfgpkg.SerialConfig
	gw     *gateway.Gateway
	open   Opener
	logger *zap.Logger
}

// New 创建；open 为 nil 时使用 Open
func New(cfg cfgpkg.SerialConfig, gw *gateway.Gateway, open Opener, logger *zap.Logger) *Runner {
	if open == nil {
		open = Open
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReopenDelay <= 0 {
		cfg.ReopenDelay = time.Second
	}
	return &Runner{cfg: cfg, gw: gw, open: open, logger: logger.With(zap.String("port", cfg.Port))}
}

// Run 阻塞直到 ctx 取消
func (r *Runner) Run(ctx context.Context) error {
	backoff := r.cfg.ReopenDelay
	for {
		port, err := r.open(r.cfg.Port, r.cfg.Baud)
		if err != nil {
			r.logger.Warn("serial open failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = r.cfg.ReopenDelay
		if r.cfg.ReadTimeout > 0 {
			_ = port.SetReadTimeout(r.cfg.ReadTimeout)
		}
		r.logger.Info("serial port opened", zap.Int("baud", r.cfg.Baud))

		err = r.gw.Serve(ctx, gateway.TransportSerial, r.cfg.Port, port)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			r.logger.Warn("serial session ended", zap.Error(err))
		}
		if !sleep(ctx, r.cfg.ReopenDelay) {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
