// Package gateway 把字节流传输（TCP、WebSocket、串口）绑定到 MSP 引擎
package gateway

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/adapter"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/protocol/mspwire"
)

// 传输类型
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
	TransportSerial    = "serial"
)

// errRebooted 执行了不返回的动作，会话结束
var errRebooted = errors.New("gateway: session ended by reboot")

// Options 会话参数
type Options struct {
	ReplyCapacity  int
	EnableV2       bool
	MaxRequestSize int
	Audit          bool
}

// SessionInfo 会话快照（HTTP 接口使用）
type SessionInfo struct {
	ID          string    `json:"id"`
	Transport   string    `json:"transport"`
	Remote      string    `json:"remote"`
	OpenedAt    time.Time `json:"opened_at"`
	Frames      int64     `json:"frames"`
	FrameErrors int64     `json:"frame_errors"`
	LastCmd     string    `json:"last_cmd"`
}

// Session 一条字节流上的 MSP 会话
// 帧的解码、处理、应答与后置动作都在 Serve 所在的 goroutine 内串行完成，
// 透传类动作因此可以直接接管 rw
type Session struct {
	id        string
	transport string
	remote    string
	openedAt  time.Time

	rw       io.ReadWriteCloser
	engine   *msp.Engine
	exec     *msp.Executor
	adapter  adapter.Adapter
	opts     Options
	logger   *zap.Logger
	metrics  *metrics.AppMetrics
	recorder *Recorder

	reply   *msp.Writer
	out     []byte
	frames  atomic.Int64
	errs    atomic.Int64
	lastCmd atomic.Value
	closed  atomic.Bool
}

// NewSession 创建会话；m 与 rec 可为 nil
func NewSession(transport, remote string, rw io.ReadWriteCloser, engine *msp.Engine, opts Options,
	logger *zap.Logger, m *metrics.AppMetrics, rec *Recorder) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ReplyCapacity <= 0 {
		opts.ReplyCapacity = 4096
	}
	s := &Session{
		id:        uuid.NewString(),
		transport: transport,
		remote:    remote,
		openedAt:  time.Now(),
		rw:        rw,
		engine:    engine,
		exec:      engine.Executor(),
		opts:      opts,
		metrics:   m,
		recorder:  rec,
		reply:     msp.NewWriter(opts.ReplyCapacity),
	}
	s.logger = logger.With(zap.String("session", s.id), zap.String("transport", transport), zap.String("remote", remote))
	s.lastCmd.Store("")
	dec := mspwire.NewStreamDecoder(opts.MaxRequestSize, opts.EnableV2)
	s.adapter = mspwire.NewAdapter(dec, s.handleFrame, s.onFrameError)
	return s
}

// ID 会话 ID
func (s *Session) ID() string { return s.id }

// Info 会话快照
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:          s.id,
		Transport:   s.transport,
		Remote:      s.remote,
		OpenedAt:    s.openedAt,
		Frames:      s.frames.Load(),
		FrameErrors: s.errs.Load(),
		LastCmd:     s.lastCmd.Load().(string),
	}
}

// Close 关闭底层连接，Serve 随之返回
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.rw.Close()
}

// Serve 读取并处理直到连接关闭、ctx 取消或执行了重启动作
func (s *Session) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()
	defer s.Close()

	s.logger.Info("msp session opened")
	defer s.logger.Info("msp session closed", zap.Int64("frames", s.frames.Load()))

	buf := make([]byte, 4096)
	sniffed := false
	for {
		n, err := s.rw.Read(buf)
		if n > 0 {
			if !sniffed {
				sniffed = true
				if !s.adapter.Sniff(buf[:n]) {
					s.logger.Debug("first packet is not msp", zap.Binary("prefix", buf[:min(n, 8)]))
				}
			}
			if perr := s.adapter.ProcessBytes(buf[:n]); perr != nil {
				if errors.Is(perr, errRebooted) {
					return nil
				}
				return perr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || s.closed.Load() {
				return nil
			}
			return err
		}
	}
}

func (s *Session) onFrameError(err error) {
	s.errs.Add(1)
	if s.metrics != nil {
		s.metrics.FrameErrorsTotal.WithLabelValues(mspwire.Reason(err)).Inc()
	}
	s.logger.Debug("msp frame dropped", zap.Error(err))
}

func (s *Session) handleFrame(f *mspwire.Frame) error {
	s.frames.Add(1)
	switch f.Direction {
	case mspwire.DirReply:
		if f.Cmd <= mspwire.MaxV1Cmd {
			s.engine.ProcessReply(uint8(f.Cmd), msp.NewReader(f.Payload))
		}
		return nil
	case mspwire.DirError:
		return nil
	}

	if f.Cmd > mspwire.MaxV1Cmd {
		// 命令码超出引擎范围
		return s.write(mspwire.Frame{Version: f.Version, Direction: mspwire.DirError, Cmd: f.Cmd})
	}
	cmd := uint8(f.Cmd)
	s.lastCmd.Store(msp.CommandName(cmd))

	var slot msp.Action
	s.reply.Reset()
	start := time.Now()
	r := s.engine.Process(cmd, msp.NewReader(f.Payload), s.reply, &slot)
	elapsed := time.Since(start)

	if s.opts.Audit && s.recorder != nil && msp.IsMutating(cmd) {
		s.recorder.Record(CommandRecord{
			SessionID: s.id,
			Transport: s.transport,
			Cmd:       cmd,
			Result:    r,
			Request:   f.Payload,
			ReplyLen:  s.reply.Len(),
			Duration:  elapsed,
		})
	}

	if r != msp.ResultNoReply {
		dir := byte(mspwire.DirReply)
		if r == msp.ResultError {
			dir = mspwire.DirError
		}
		if err := s.write(mspwire.Frame{Version: f.Version, Direction: dir, Flags: f.Flags, Cmd: f.Cmd, Payload: s.reply.Bytes()}); err != nil {
			return err
		}
	}

	if !slot.Pending() {
		return nil
	}
	resume, err := s.exec.Run(&slot, s.rw)
	if err != nil {
		s.logger.Warn("post-process action failed", zap.String("cmd", msp.CommandName(cmd)), zap.Error(err))
	}
	if !resume {
		return errRebooted
	}
	return nil
}

func (s *Session) write(f mspwire.Frame) error {
	out, err := mspwire.Append(s.out[:0], f)
	if err != nil {
		s.logger.Warn("encode reply", zap.Uint16("cmd", f.Cmd), zap.Error(err))
		return nil
	}
	s.out = out
	if _, err := s.rw.Write(out); err != nil {
		return err
	}
	return nil
}
