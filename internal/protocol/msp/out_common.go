package msp

import "github.com/taoyao-code/msp-server/internal/fc"

// 板卡能力位
const (
	targetHasVCP        = 1 << 0
	targetHasSoftSerial = 1 << 1
	targetIsUnified     = 1 << 2
)

// OSD 配置标志位
const (
	osdFlagFeature    = 1 << 0
	osdFlagMAX7456    = 1 << 4
	boardTypeFC       = 0
	boardTypeMAX7456  = 2
	currentSubframeSz = 1 + 1 + 2 + 2
	voltageSubframeSz = 1 + 1 + 1 + 1 + 1
)

// outCommon 各类固件共用的只读查询
func (e *Engine) outCommon(cmd uint8, dst *Writer) bool {
	c := e.fc
	cfg := c.Config
	st := c.State

	switch cmd {
	case CmdAPIVersion:
		dst.WriteU8(ProtocolVersion)
		dst.WriteU8(APIVersionMajor)
		dst.WriteU8(APIVersionMinor)

	case CmdFCVariant:
		writeFixed(dst, fc.FlightControllerIdentifier, len(fc.FlightControllerIdentifier))

	case CmdFCVersion:
		dst.WriteU8(fc.FCVersionMajor)
		dst.WriteU8(fc.FCVersionMinor)
		dst.WriteU8(fc.FCVersionPatch)

	case CmdBoardInfo:
		writeFixed(dst, c.Identity.BoardIdentifier, fc.BoardIdentifierLength)
		dst.WriteU16(c.Identity.HardwareRevision)
		if c.Caps.MAX7456 {
			dst.WriteU8(boardTypeMAX7456)
		} else {
			dst.WriteU8(boardTypeFC)
		}
		var caps uint8
		if c.Caps.USBVCP {
			caps |= targetHasVCP
		}
		if c.Caps.SoftSerial {
			caps |= targetHasSoftSerial
		}
		if c.Caps.UnifiedTarget {
			caps |= targetIsUnified
		}
		dst.WriteU8(caps)
		writeLenString(dst, c.Identity.TargetName)
		if c.Caps.BoardInfo {
			writeLenString(dst, cfg.Board.BoardName)
			writeLenString(dst, cfg.Board.ManufacturerID)
		} else {
			dst.WriteU8(0)
			dst.WriteU8(0)
		}
		sig := make([]byte, fc.SignatureLength)
		if c.Caps.Signature {
			copy(sig, cfg.Board.Signature)
		}
		dst.Write(sig)
		dst.WriteU8(c.Identity.MCUTypeID)

	case CmdBuildInfo:
		writeFixed(dst, c.Identity.BuildDate, fc.BuildDateLength)
		writeFixed(dst, c.Identity.BuildTime, fc.BuildTimeLength)
		writeFixed(dst, c.Identity.GitRevision, fc.GitShortRevisionLength)

	case CmdAnalog:
		dst.WriteU8(clampU8((int(st.Battery.VoltageCV) + 5) / 10))
		dst.WriteU16(clampU16(int(st.Battery.MAhDrawn)))
		dst.WriteU16(st.RSSI)
		dst.WriteU16(uint16(clampI16(int(st.Battery.AmperageCA))))
		dst.WriteU16(st.Battery.VoltageCV)

	case CmdDebug:
		for _, v := range st.Debug {
			dst.WriteU16(uint16(v))
		}

	case CmdUID:
		for _, v := range c.Identity.UID {
			dst.WriteU32(v)
		}

	case CmdFeatureConfig:
		dst.WriteU32(c.FeatureMask())

	case CmdBeeperConfig:
		if !c.Caps.Beeper {
			return false
		}
		dst.WriteU32(cfg.Beeper.OffFlags)
		dst.WriteU8(cfg.Beeper.DshotBeaconTone)
		dst.WriteU32(cfg.Beeper.DshotBeaconOffFlags)

	case CmdBatteryState:
		dst.WriteU8(st.Battery.CellCount)
		dst.WriteU16(cfg.Battery.Capacity)
		dst.WriteU8(clampU8((int(st.Battery.VoltageCV) + 5) / 10))
		dst.WriteU16(clampU16(int(st.Battery.MAhDrawn)))
		dst.WriteU16(uint16(clampI16(int(st.Battery.AmperageCA))))
		dst.WriteU8(st.Battery.State)
		dst.WriteU16(st.Battery.VoltageCV)

	case CmdVoltageMeters:
		for _, m := range st.VoltageMeters {
			dst.WriteU8(m.ID)
			dst.WriteU8(clampU8((int(m.Filtered) + 5) / 10))
		}

	case CmdCurrentMeters:
		for _, m := range st.CurrentMeters {
			dst.WriteU8(m.ID)
			dst.WriteU16(clampU16(int(m.MAhDrawn)))
			dst.WriteU16(clampU16(int(m.Amperage) * 10))
		}

	case CmdVoltageMeterConfig:
		dst.WriteU8(fc.MaxVoltageSensorADC)
		for i, s := range cfg.VoltageADC {
			dst.WriteU8(voltageSubframeSz)
			dst.WriteU8(fc.VoltageMeterADCToID[i])
			dst.WriteU8(fc.VoltageSensorTypeADCResistorDivider)
			dst.WriteU8(s.Scale)
			dst.WriteU8(s.ResDivVal)
			dst.WriteU8(s.ResDivMultiplier)
		}

	case CmdCurrentMeterConfig:
		count := 1
		if c.Caps.VirtualCurrent {
			count++
		}
		dst.WriteU8(uint8(count))
		dst.WriteU8(currentSubframeSz)
		dst.WriteU8(fc.CurrentMeterIDBattery1)
		dst.WriteU8(fc.CurrentSensorADC)
		dst.WriteU16(uint16(cfg.CurrentADC.Scale))
		dst.WriteU16(uint16(cfg.CurrentADC.Offset))
		if c.Caps.VirtualCurrent {
			dst.WriteU8(currentSubframeSz)
			dst.WriteU8(fc.CurrentMeterIDVirtual1)
			dst.WriteU8(fc.CurrentSensorVirtual)
			dst.WriteU16(uint16(cfg.CurrentVirt.Scale))
			dst.WriteU16(uint16(cfg.CurrentVirt.Offset))
		}

	case CmdBatteryConfig:
		b := cfg.Battery
		dst.WriteU8(uint8((b.VbatMinCellVoltage + 5) / 10))
		dst.WriteU8(uint8((b.VbatMaxCellVoltage + 5) / 10))
		dst.WriteU8(uint8((b.VbatWarningCellVoltage + 5) / 10))
		dst.WriteU16(b.Capacity)
		dst.WriteU8(b.VoltageMeterSource)
		dst.WriteU8(b.CurrentMeterSource)
		dst.WriteU16(b.VbatMinCellVoltage)
		dst.WriteU16(b.VbatMaxCellVoltage)
		dst.WriteU16(b.VbatWarningCellVoltage)

	case CmdTransponderConfig:
		if !c.Caps.Transponder {
			dst.WriteU8(0)
			break
		}
		dst.WriteU8(uint8(len(fc.TransponderRequirements)))
		for _, r := range fc.TransponderRequirements {
			dst.WriteU8(r.Provider)
			dst.WriteU8(r.DataLength)
		}
		provider := cfg.Transponder.Provider
		dst.WriteU8(provider)
		if provider > 0 && int(provider) <= len(fc.TransponderRequirements) {
			n := fc.TransponderRequirements[provider-1].DataLength
			dst.Write(cfg.Transponder.Data[:n])
		}

	case CmdOSDConfig:
		e.writeOSDConfig(dst)

	default:
		return false
	}
	return true
}

func (e *Engine) writeOSDConfig(dst *Writer) {
	c := e.fc
	osd := c.Config.OSD

	var flags uint8
	if c.Caps.OSD {
		flags |= osdFlagFeature
	}
	if c.Caps.MAX7456 {
		flags |= osdFlagMAX7456
	}
	dst.WriteU8(flags)
	if c.Caps.MAX7456 {
		dst.WriteU8(osd.VideoSystem)
	} else {
		dst.WriteU8(0)
	}
	if !c.Caps.OSD {
		return
	}

	dst.WriteU8(osd.Units)
	dst.WriteU8(osd.RSSIAlarm)
	dst.WriteU16(osd.CapAlarm)
	// 原计时告警字段（u16）改为 u8 0 + 元素数量
	dst.WriteU8(0)
	dst.WriteU8(fc.OSDItemCount)
	dst.WriteU16(osd.AltAlarm)
	for _, p := range osd.ItemPos {
		dst.WriteU16(p)
	}

	dst.WriteU8(fc.OSDStatCount)
	for _, on := range osd.StatEnabled {
		writeBool(dst, on)
	}

	dst.WriteU8(fc.OSDTimerCount)
	for _, t := range osd.Timers {
		dst.WriteU16(t)
	}

	// 低 16 位在前兼容旧版，随后是完整 32 位
	dst.WriteU16(uint16(osd.EnabledWarnings & 0xFFFF))
	dst.WriteU8(fc.OSDWarningCount)
	dst.WriteU32(osd.EnabledWarnings)

	if c.Caps.OSDProfiles {
		dst.WriteU8(fc.OSDProfileCount)
		dst.WriteU8(osd.ProfileIndex)
	} else {
		dst.WriteU8(1)
		dst.WriteU8(1)
	}
	dst.WriteU8(osd.OverlayRadioMode)
}
