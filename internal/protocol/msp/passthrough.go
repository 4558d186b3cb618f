package msp

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// esc4Way 4way 接口模式（空载荷的旧格式请求同样进入该模式）
const esc4Way = 0xFF

// fourWayIF SET_4WAY_IF：[u8 模式][u8 电机序号]，应答一字节
func (e *Engine) fourWayIF(src *Reader, dst *Writer, slot *Action) {
	mode := uint8(esc4Way)
	var port uint8
	if src.Remaining() > 0 {
		mode = src.ReadU8()
		port = src.ReadU8()
	}

	esc := e.fc.Services.ESC
	switch mode {
	case esc4Way:
		var n uint8
		if esc != nil {
			n = esc.FourWayInit()
		}
		dst.WriteU8(n)
		slot.set(Action{Kind: ActionFourWay, EscMode: mode})
		e.logger.Info("4way interface requested", zap.Uint8("esc_count", n))
		return

	case fc.EscProtocolSimonK, fc.EscProtocolBLHeli, fc.EscProtocolKiss,
		fc.EscProtocolKissAll, fc.EscProtocolCastle:
		if int(port) < e.fc.MotorCount() || (mode == fc.EscProtocolKiss && port == fc.EscAllMotors) {
			dst.WriteU8(1)
			slot.set(Action{Kind: ActionEscPassthrough, EscMode: mode, EscPort: port})
			return
		}
	}
	dst.WriteU8(0)
}
