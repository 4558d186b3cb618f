package msp

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// ActionKind 应答发出后执行的动作类型
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionReboot
	ActionEscPassthrough
	ActionFourWay
	ActionFlashErase
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionReboot:
		return "reboot"
	case ActionEscPassthrough:
		return "esc_passthrough"
	case ActionFourWay:
		return "4way"
	case ActionFlashErase:
		return "flash_erase"
	default:
		return fmt.Sprintf("kind_%d", uint8(k))
	}
}

// Action 延后执行的副作用，每个请求至多登记一个
// 参数在登记时固定，执行时不再读取任何进程级状态
type Action struct {
	Kind ActionKind

	RebootMode      uint8
	TZOffsetMinutes int16

	EscMode uint8
	EscPort uint8
}

// Pending 是否有待执行动作
func (a *Action) Pending() bool { return a != nil && a.Kind != ActionNone }

// set 登记动作（slot 为 nil 时忽略，批量子命令不登记动作）
func (a *Action) set(v Action) {
	if a == nil {
		return
	}
	*a = v
}

// take 取出并清空
func (a *Action) take() Action {
	if a == nil {
		return Action{}
	}
	v := *a
	*a = Action{}
	return v
}

// Executor 动作执行器，由传输层在应答写出后调用
type Executor struct {
	engine *Engine
}

// Run 取出 slot 中的动作并执行一次，返回会话是否可以继续
func (x *Executor) Run(slot *Action, port io.ReadWriter) (bool, error) {
	a := slot.take()
	if a.Kind == ActionNone {
		return true, nil
	}
	e := x.engine
	e.observer.ObserveAction(a.Kind)
	e.logger.Info("run post-process action",
		zap.String("kind", a.Kind.String()),
		zap.Uint8("reboot_mode", a.RebootMode),
		zap.Uint8("esc_mode", a.EscMode),
		zap.Uint8("esc_port", a.EscPort))

	svc := e.fc.Services
	switch a.Kind {
	case ActionReboot:
		if svc.System == nil {
			return false, fmt.Errorf("reboot: %w", fc.ErrNotSupported)
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		svc.System.StopMotors()
		switch a.RebootMode {
		case fc.RebootFirmware:
			svc.System.Reset()
		case fc.RebootBootloader:
			svc.System.ResetToBootloader()
		case fc.RebootMSC, fc.RebootMSCUTC:
			svc.System.ResetToMSC(a.TZOffsetMinutes)
		default:
			return true, nil
		}
		return false, nil
	case ActionFourWay:
		if svc.ESC == nil {
			return true, fmt.Errorf("4way: %w", fc.ErrNotSupported)
		}
		if err := svc.ESC.FourWayProcess(port); err != nil {
			return true, fmt.Errorf("4way: %w", err)
		}
		return true, nil
	case ActionEscPassthrough:
		if svc.ESC == nil {
			return true, fmt.Errorf("esc passthrough: %w", fc.ErrNotSupported)
		}
		if err := svc.ESC.Passthrough(port, a.EscPort, a.EscMode); err != nil {
			return true, fmt.Errorf("esc passthrough: %w", err)
		}
		return true, nil
	case ActionFlashErase:
		if svc.Flash == nil {
			return true, fmt.Errorf("flash erase: %w", fc.ErrNotSupported)
		}
		if err := svc.Flash.EraseAll(); err != nil {
			return true, fmt.Errorf("flash erase: %w", err)
		}
		return true, nil
	}
	return true, nil
}
