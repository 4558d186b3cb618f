package msp

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// Observer 命令处理观测点（指标采集）
type Observer interface {
	ObserveCommand(cmd uint8, r Result, d time.Duration)
	ObserveAction(kind ActionKind)
	ObserveDataflash(method uint8, bytes int)
	ObserveBatch(subCommands int)
}

type nopObserver struct{}

func (nopObserver) ObserveCommand(uint8, Result, time.Duration) {}
func (nopObserver) ObserveAction(ActionKind)                    {}
func (nopObserver) ObserveDataflash(uint8, int)                 {}
func (nopObserver) ObserveBatch(int)                            {}

// Engine MSP 命令引擎
// 所有传输的请求经 Process 串行处理，同一时刻只有一个请求在访问配置上下文
type Engine struct {
	mu       sync.Mutex
	fc       *fc.Context
	logger   *zap.Logger
	encoder  EncoderFactory
	observer Observer
}

// Option 引擎选项
type Option func(*Engine)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEncoder 启用数据闪存压缩
func WithEncoder(f EncoderFactory) Option {
	return func(e *Engine) { e.encoder = f }
}

// WithObserver 设置观测点
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// New 创建引擎
func New(c *fc.Context, opts ...Option) *Engine {
	e := &Engine{
		fc:       c,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Context 配置上下文
func (e *Engine) Context() *fc.Context { return e.fc }

// Executor 动作执行器
func (e *Engine) Executor() *Executor { return &Executor{engine: e} }

// Locked 在引擎锁内访问配置上下文（HTTP 接口等旁路读取使用）
func (e *Engine) Locked(fn func(c *fc.Context)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.fc)
}

// Process 处理一条命令：src 为请求载荷，dst 为应答缓冲区，slot 接收待执行动作（可为 nil）
// 返回 ResultAck / ResultError / ResultNoReply，未识别的命令作为 ResultError 返回
func (e *Engine) Process(cmd uint8, src *Reader, dst *Writer, slot *Action) Result {
	if src == nil {
		src = NewReader(nil)
	}
	start := time.Now()
	e.mu.Lock()
	r := e.process(cmd, src, dst, slot)
	e.mu.Unlock()
	if r == ResultUnknown {
		r = ResultError
	}
	e.observer.ObserveCommand(cmd, r, time.Since(start))
	if r == ResultError {
		e.logger.Debug("msp command rejected",
			zap.String("cmd", CommandName(cmd)), zap.Int("request_len", src.Len()))
	}
	return r
}

// process 处理链：通用查询 -> 飞控查询 -> 带参查询 -> 大载荷命令 -> 通用设置 -> 飞控设置
func (e *Engine) process(cmd uint8, src *Reader, dst *Writer, slot *Action) Result {
	if r := ack(e.outCommon(cmd, dst)); r != ResultUnknown {
		return r
	}
	if r := ack(e.outFC(cmd, dst)); r != ResultUnknown {
		return r
	}
	if r := e.outWithArg(cmd, src, dst, slot); r != ResultUnknown {
		return r
	}
	switch {
	case cmd == CmdSet4WayIF && e.fc.Caps.SerialPassthru:
		if e.fc.State.Armed {
			return ResultError
		}
		e.fourWayIF(src, dst, slot)
		return ResultAck
	case cmd == CmdDataflashRead && e.fc.Caps.Flash:
		e.dataflashRead(src, dst)
		return ResultAck
	}
	return e.inCommon(cmd, src, slot)
}

// ProcessReply 处理对端发来的应答（当前仅 ANALOG 用于 MSP 电流计）
func (e *Engine) ProcessReply(cmd uint8, src *Reader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch cmd {
	case CmdAnalog:
		src.ReadU8()
		mAh := src.ReadU16()
		src.ReadU16()
		amperage := src.ReadU16()
		e.fc.State.MSPCurrent = fc.MSPCurrent{Amperage: amperage, MAhDrawn: mAh}
	}
}

// armed 已解锁时，会修改持久配置或驱动电机的命令一律拒绝
func (e *Engine) armed() bool { return e.fc.State.Armed }
