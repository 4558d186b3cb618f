package msp

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// boxPageSize BOXNAMES/BOXIDS 每页模式数
const boxPageSize = 32

// outWithArg 需要读取请求参数的查询与动作
func (e *Engine) outWithArg(cmd uint8, src *Reader, dst *Writer, slot *Action) Result {
	switch cmd {
	case CmdBoxNames, CmdBoxIDs:
		page := 0
		if src.Remaining() > 0 {
			page = int(src.ReadU8())
		}
		e.writeBoxes(dst, page, cmd == CmdBoxNames)
		return ResultAck

	case CmdReboot:
		return e.reboot(src, dst, slot)

	case CmdMultipleMSP:
		return e.batch(src, dst)
	}
	return ResultUnknown
}

// writeBoxes 按页输出可用模式：名称以分号结尾，或一字节永久编号
func (e *Engine) writeBoxes(dst *Writer, page int, names bool) {
	start := page * boxPageSize
	end := start + boxPageSize
	for idx, id := range e.fc.ActiveBoxes() {
		if idx < start || idx >= end {
			continue
		}
		b, _ := fc.Box(id)
		if names {
			dst.WriteString(b.Name)
			dst.WriteU8(';')
		} else {
			dst.WriteU8(b.PermanentID)
		}
	}
}

// reboot 校验重启目标，回显目标并登记重启动作
func (e *Engine) reboot(src *Reader, dst *Writer, slot *Action) Result {
	mode := uint8(fc.RebootFirmware)
	if src.Remaining() > 0 {
		mode = src.ReadU8()
		if mode >= fc.RebootCount {
			return ResultError
		}
		if (mode == fc.RebootMSC || mode == fc.RebootMSCUTC) && !e.fc.Caps.USBMSC {
			return ResultError
		}
	}
	dst.WriteU8(mode)

	if mode == fc.RebootMSC {
		sys := e.fc.Services.System
		if sys == nil || !sys.MSCReady() {
			dst.WriteU8(0)
			return ResultAck
		}
		dst.WriteU8(1)
	}

	var tz int16
	if mode == fc.RebootMSC && e.fc.Caps.RTC {
		tz = e.fc.Config.Time.TZOffsetMinutes
	}
	slot.set(Action{Kind: ActionReboot, RebootMode: mode, TZOffsetMinutes: tz})
	e.logger.Info("reboot requested", zap.Uint8("mode", mode))
	return ResultAck
}
