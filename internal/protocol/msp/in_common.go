package msp

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// SET_OSD_CONFIG 的特殊地址
const (
	osdAddrGeneral = -1
	osdAddrTimers  = -2

	osdCharDataLength = 54
)

// inCommon 通用设置命令，未识别时交给 inFC
func (e *Engine) inCommon(cmd uint8, src *Reader, slot *Action) Result {
	c := e.fc
	cfg := c.Config
	dataSize := src.Remaining()

	switch cmd {
	case CmdSetTransponderConfig:
		if !c.Caps.Transponder {
			break
		}
		provider := src.ReadU8()
		if int(provider) > len(fc.TransponderRequirements) {
			return ResultError
		}
		if provider == fc.TransponderNone {
			cfg.Transponder.Provider = provider
			return ResultAck
		}
		n := int(fc.TransponderRequirements[provider-1].DataLength)
		if dataSize-1 != n {
			return ResultError
		}
		cfg.Transponder.Provider = provider
		cfg.Transponder.Data = [fc.TransponderDataLength]uint8{}
		src.Read(cfg.Transponder.Data[:n])
		return ResultAck

	case CmdSetVoltageMeterConfig:
		id := src.ReadU8()
		scale, val, mult := src.ReadU8(), src.ReadU8(), src.ReadU8()
		for i, adcID := range fc.VoltageMeterADCToID {
			if adcID == id {
				cfg.VoltageADC[i] = fc.VoltageSensorADCConfig{Scale: scale, ResDivVal: val, ResDivMultiplier: mult}
				break
			}
		}
		return ResultAck

	case CmdSetCurrentMeterConfig:
		id := src.ReadU8()
		sensor := fc.CurrentSensorConfig{Scale: int16(src.ReadU16()), Offset: int16(src.ReadU16())}
		switch {
		case id == fc.CurrentMeterIDBattery1:
			cfg.CurrentADC = sensor
		case id == fc.CurrentMeterIDVirtual1 && c.Caps.VirtualCurrent:
			cfg.CurrentVirt = sensor
		}
		return ResultAck

	case CmdSetBatteryConfig:
		b := &cfg.Battery
		// 旧字段单位 0.1V
		b.VbatMinCellVoltage = uint16(src.ReadU8()) * 10
		b.VbatMaxCellVoltage = uint16(src.ReadU8()) * 10
		b.VbatWarningCellVoltage = uint16(src.ReadU8()) * 10
		b.Capacity = src.ReadU16()
		b.VoltageMeterSource = src.ReadU8()
		b.CurrentMeterSource = src.ReadU8()
		if src.Remaining() >= 6 {
			b.VbatMinCellVoltage = src.ReadU16()
			b.VbatMaxCellVoltage = src.ReadU16()
			b.VbatWarningCellVoltage = src.ReadU16()
		}
		return ResultAck

	case CmdSetOSDConfig:
		if !c.Caps.OSD {
			break
		}
		return e.setOSDConfig(src)

	case CmdOSDCharWrite:
		if !c.Caps.OSD {
			break
		}
		if !c.Caps.MAX7456 || c.Services.Font == nil {
			return ResultError
		}
		addr := src.ReadU8()
		data := make([]byte, osdCharDataLength)
		src.Read(data)
		if err := c.Services.Font.WriteChar(uint16(addr), data); err != nil {
			e.logger.Warn("osd char write failed", zap.Uint8("addr", addr), zap.Error(err))
			return ResultError
		}
		return ResultAck
	}
	return e.inFC(cmd, src, slot)
}

// setOSDConfig 地址 -1 为通用设置，-2 为计时器（始终返回错误），其余为元素位置或统计项开关
func (e *Engine) setOSDConfig(src *Reader) Result {
	c := e.fc
	osd := &c.Config.OSD
	addr := src.ReadU8()

	switch int8(addr) {
	case osdAddrGeneral:
		video := src.ReadU8()
		if c.Caps.MAX7456 {
			osd.VideoSystem = video
		}
		osd.Units = src.ReadU8()
		osd.RSSIAlarm = src.ReadU8()
		osd.CapAlarm = src.ReadU16()
		src.ReadU16()
		osd.AltAlarm = src.ReadU16()
		if src.Remaining() >= 2 {
			osd.EnabledWarnings = uint32(src.ReadU16())
		}
		if src.Remaining() >= 4 {
			osd.EnabledWarnings = src.ReadU32()
		}
		if src.Remaining() >= 1 {
			idx := src.ReadU8()
			if c.Caps.OSDProfiles && idx >= 1 && idx <= fc.OSDProfileCount {
				osd.ProfileIndex = idx
			}
		}
		if src.Remaining() >= 1 {
			osd.OverlayRadioMode = src.ReadU8()
		}
		return ResultAck

	case osdAddrTimers:
		idx := src.ReadU8()
		if int(idx) >= fc.OSDTimerCount {
			return ResultError
		}
		osd.Timers[idx] = src.ReadU16()
		return ResultError
	}

	value := src.ReadU16()
	screen := uint8(1)
	if src.Remaining() >= 1 {
		screen = src.ReadU8()
	}
	switch {
	case screen == 0 && int(addr) < fc.OSDStatCount:
		osd.StatEnabled[addr] = value != 0
	case int(addr) < fc.OSDItemCount:
		osd.ItemPos[addr] = value
	default:
		return ResultError
	}
	return ResultAck
}
