package msp

import (
	"github.com/taoyao-code/msp-server/internal/fc"
)

// 数据闪存摘要标志位
const (
	flashFlagReady     = 1
	flashFlagSupported = 2

	rtcNotSupported = 0xFF
)

// outFC 飞控专属的只读查询
func (e *Engine) outFC(cmd uint8, dst *Writer) bool {
	c := e.fc
	cfg := c.Config
	st := c.State
	caps := c.Caps

	switch cmd {
	case CmdStatusEx, CmdStatus:
		e.writeStatus(cmd, dst)

	case CmdRawIMU:
		for _, v := range st.Acc {
			dst.WriteU16(uint16(v))
		}
		for _, v := range st.Gyro {
			dst.WriteU16(uint16(v))
		}
		for _, v := range st.Mag {
			dst.WriteU16(uint16(v))
		}

	case CmdName:
		dst.WriteString(cfg.Pilot.Name)

	case CmdServo:
		if !caps.Servos {
			return false
		}
		for _, v := range st.Servos {
			dst.WriteU16(v)
		}

	case CmdServoConfigurations:
		if !caps.Servos {
			return false
		}
		for _, s := range cfg.Servos {
			dst.WriteU16(s.Min)
			dst.WriteU16(s.Max)
			dst.WriteU16(s.Middle)
			dst.WriteU8(s.Rate)
			dst.WriteU8(s.ForwardFromChannel)
			dst.WriteU32(s.ReversedSources)
		}

	case CmdServoMixRules:
		if !caps.Servos {
			return false
		}
		for _, m := range cfg.ServoMixers {
			dst.WriteU8(m.TargetChannel)
			dst.WriteU8(m.InputSource)
			dst.WriteU8(m.Rate)
			dst.WriteU8(m.Speed)
			dst.WriteU8(m.Min)
			dst.WriteU8(m.Max)
			dst.WriteU8(m.Box)
		}

	case CmdMotor:
		n := c.MotorCount()
		for i := 0; i < 8; i++ {
			if i >= n {
				dst.WriteU16(0)
				continue
			}
			dst.WriteU16(st.Motors[i])
		}

	case CmdRC:
		for i := 0; i < st.RCChannelCount && i < fc.MaxSupportedRCChannel; i++ {
			dst.WriteU16(st.RC[i])
		}

	case CmdAttitude:
		dst.WriteU16(uint16(st.Attitude.Roll))
		dst.WriteU16(uint16(st.Attitude.Pitch))
		dst.WriteU16(uint16(st.Attitude.Yaw / 10))

	case CmdAltitude:
		if caps.Baro || caps.Rangefinder {
			dst.WriteU32(uint32(st.AltitudeCm))
		} else {
			dst.WriteU32(0)
		}
		dst.WriteU16(uint16(st.Vario))

	case CmdSonarAltitude:
		if caps.Rangefinder {
			dst.WriteU32(uint32(st.RangefinderCm))
		} else {
			dst.WriteU32(0)
		}

	case CmdBoardAlignmentConfig:
		dst.WriteU16(uint16(cfg.Alignment.RollDegrees))
		dst.WriteU16(uint16(cfg.Alignment.PitchDegrees))
		dst.WriteU16(uint16(cfg.Alignment.YawDegrees))

	case CmdArmingConfig:
		dst.WriteU8(cfg.Arming.AutoDisarmDelay)
		dst.WriteU8(0)
		dst.WriteU8(cfg.Arming.SmallAngle)

	case CmdRCTuning:
		r := c.RateProfile()
		dst.WriteU8(r.RCRates[fc.AxisRoll])
		dst.WriteU8(r.RCExpo[fc.AxisRoll])
		for _, v := range r.Rates {
			dst.WriteU8(v)
		}
		dst.WriteU8(r.DynThrPID)
		dst.WriteU8(r.ThrMid8)
		dst.WriteU8(r.ThrExpo8)
		dst.WriteU16(r.TPABreakpoint)
		dst.WriteU8(r.RCExpo[fc.AxisYaw])
		dst.WriteU8(r.RCRates[fc.AxisYaw])
		dst.WriteU8(r.RCRates[fc.AxisPitch])
		dst.WriteU8(r.RCExpo[fc.AxisPitch])
		dst.WriteU8(r.ThrottleLimitType)
		dst.WriteU8(r.ThrottleLimitPercent)

	case CmdPID:
		for _, g := range c.PIDProfile().PID {
			dst.WriteU8(g.P)
			dst.WriteU8(g.I)
			dst.WriteU8(g.D)
		}

	case CmdPIDNames:
		dst.WriteString(fc.PIDNames)

	case CmdPIDController:
		dst.WriteU8(fc.PIDControllerBetaflight)

	case CmdModeRanges:
		for _, m := range cfg.Modes {
			dst.WriteU8(permanentID(m.ModeID))
			dst.WriteU8(m.AuxChannelIndex)
			dst.WriteU8(m.StartStep)
			dst.WriteU8(m.EndStep)
		}

	case CmdModeRangesExtra:
		dst.WriteU8(fc.MaxModeActivationConditionCount)
		for _, m := range cfg.Modes {
			dst.WriteU8(permanentID(m.ModeID))
			dst.WriteU8(m.ModeLogic)
			dst.WriteU8(permanentID(m.LinkedTo))
		}

	case CmdAdjustmentRanges:
		for _, a := range cfg.Adjustments {
			dst.WriteU8(a.AdjustmentIndex)
			dst.WriteU8(a.AuxChannelIndex)
			dst.WriteU8(a.StartStep)
			dst.WriteU8(a.EndStep)
			dst.WriteU8(a.AdjustmentConfig)
			dst.WriteU8(a.AuxSwitchChannelIndex)
		}

	case CmdMotorConfig:
		dst.WriteU16(cfg.Motor.MinThrottle)
		dst.WriteU16(cfg.Motor.MaxThrottle)
		dst.WriteU16(cfg.Motor.MinCommand)

	case CmdCompassConfig:
		if !caps.Mag {
			return false
		}
		dst.WriteU16(uint16(cfg.Compass.MagDeclination / 10))

	case CmdEscSensorData:
		if !caps.EscSensor || cfg.Features&fc.FeatureESCSensor == 0 {
			return false
		}
		n := c.MotorCount()
		dst.WriteU8(uint8(n))
		for i := 0; i < n; i++ {
			var t fc.ESCTelemetry
			if i < len(st.ESC) {
				t = st.ESC[i]
			}
			dst.WriteU8(t.Temperature)
			dst.WriteU16(t.RPM)
		}

	case CmdGPSConfig:
		if !caps.GPS {
			return false
		}
		dst.WriteU8(cfg.GPS.Provider)
		dst.WriteU8(cfg.GPS.SBASMode)
		dst.WriteU8(cfg.GPS.AutoConfig)
		dst.WriteU8(cfg.GPS.AutoBaud)

	case CmdRawGPS:
		if !caps.GPS {
			return false
		}
		g := st.GPS
		writeBool(dst, g.Fix)
		dst.WriteU8(g.NumSat)
		dst.WriteU32(uint32(g.Lat))
		dst.WriteU32(uint32(g.Lon))
		// 高度单位为米
		dst.WriteU16(clampU16(int(g.AltitudeCm / 100)))
		dst.WriteU16(g.GroundSpeed)
		dst.WriteU16(g.GroundCourse)

	case CmdCompGPS:
		if !caps.GPS {
			return false
		}
		dst.WriteU16(st.GPS.DistanceToHome)
		dst.WriteU16(uint16(st.GPS.DirectionToHome))
		dst.WriteU8(st.GPS.Update & 1)

	case CmdGPSSVInfo:
		if !caps.GPS {
			return false
		}
		svs := st.GPS.SVs
		if len(svs) > fc.MaxGPSChannels {
			svs = svs[:fc.MaxGPSChannels]
		}
		dst.WriteU8(uint8(len(svs)))
		for _, sv := range svs {
			dst.WriteU8(sv.Channel)
			dst.WriteU8(sv.SVID)
			dst.WriteU8(sv.Quality)
			dst.WriteU8(sv.CNO)
		}

	case CmdGPSRescue:
		if !caps.GPS || !caps.GPSRescue {
			return false
		}
		r := cfg.GPSRescue
		dst.WriteU16(r.Angle)
		dst.WriteU16(r.InitialAltitudeM)
		dst.WriteU16(r.DescentDistanceM)
		dst.WriteU16(r.RescueGroundspeed)
		dst.WriteU16(r.ThrottleMin)
		dst.WriteU16(r.ThrottleMax)
		dst.WriteU16(r.ThrottleHover)
		dst.WriteU8(r.SanityChecks)
		dst.WriteU8(r.MinSats)

	case CmdGPSRescuePIDs:
		if !caps.GPS || !caps.GPSRescue {
			return false
		}
		r := cfg.GPSRescue
		dst.WriteU16(r.ThrottleP)
		dst.WriteU16(r.ThrottleI)
		dst.WriteU16(r.ThrottleD)
		dst.WriteU16(r.VelP)
		dst.WriteU16(r.VelI)
		dst.WriteU16(r.VelD)
		dst.WriteU16(r.YawP)

	case CmdAccTrim:
		dst.WriteU16(uint16(cfg.Acc.TrimPitch))
		dst.WriteU16(uint16(cfg.Acc.TrimRoll))

	case CmdMixerConfig:
		dst.WriteU8(cfg.Mixer.Mode)
		dst.WriteU8(cfg.Mixer.YawMotorsReversed)

	case CmdRxConfig:
		e.writeRxConfig(dst)

	case CmdFailsafeConfig:
		f := cfg.Failsafe
		dst.WriteU8(f.Delay)
		dst.WriteU8(f.OffDelay)
		dst.WriteU16(f.Throttle)
		dst.WriteU8(f.SwitchMode)
		dst.WriteU16(f.ThrottleLowDelay)
		dst.WriteU8(f.Procedure)

	case CmdRxfailConfig:
		for i := 0; i < st.RCChannelCount && i < fc.MaxSupportedRCChannel; i++ {
			dst.WriteU8(cfg.RxFail[i].Mode)
			dst.WriteU16(fc.RxfailStepToChannelValue(cfg.RxFail[i].Step))
		}

	case CmdRssiConfig:
		dst.WriteU8(cfg.Rx.RSSIChannel)

	case CmdRxMap:
		dst.Write(cfg.Rx.RCMap[:])

	case CmdCfSerialConfig:
		for _, p := range cfg.SerialPorts {
			if !e.serialPortAvailable(p.Identifier) {
				continue
			}
			dst.WriteU8(p.Identifier)
			dst.WriteU16(p.FunctionMask)
			dst.WriteU8(p.MSPBaud)
			dst.WriteU8(p.GPSBaud)
			dst.WriteU8(p.TelemetryBaud)
			dst.WriteU8(p.BlackboxBaud)
		}

	case CmdLedColors:
		if !caps.LedStrip {
			return false
		}
		for _, col := range cfg.Led.Colors {
			dst.WriteU16(col.H)
			dst.WriteU8(col.S)
			dst.WriteU8(col.V)
		}

	case CmdLedStripConfig:
		if !caps.LedStrip {
			return false
		}
		for _, l := range cfg.Led.LedConfigs {
			dst.WriteU32(l)
		}
		// 1 表示支持高级灯带模式
		dst.WriteU8(1)
		dst.WriteU8(cfg.Led.Profile)

	case CmdLedStripModeColor:
		if !caps.LedStrip {
			return false
		}
		for i := 0; i < fc.LedModeCount; i++ {
			for j := 0; j < fc.LedDirectionCount; j++ {
				dst.WriteU8(uint8(i))
				dst.WriteU8(uint8(j))
				dst.WriteU8(cfg.Led.ModeColors[i][j])
			}
		}
		for j := 0; j < fc.LedSpecialColorCount; j++ {
			dst.WriteU8(fc.LedModeCount)
			dst.WriteU8(uint8(j))
			dst.WriteU8(cfg.Led.SpecialColors[j])
		}
		dst.WriteU8(fc.LedAuxChannel)
		dst.WriteU8(0)
		dst.WriteU8(cfg.Led.AuxChannel)

	case CmdDataflashSummary:
		e.writeDataflashSummary(dst)

	case CmdBlackboxConfig:
		if caps.Blackbox {
			dst.WriteU8(1)
			dst.WriteU8(cfg.Blackbox.Device)
			dst.WriteU8(1)
			dst.WriteU8(cfg.Blackbox.RateDenom())
			dst.WriteU16(cfg.Blackbox.PRatio)
		} else {
			dst.Advance(4)
			dst.WriteU16(0)
		}

	case CmdSdcardSummary:
		e.writeSDCardSummary(dst)

	case CmdMotor3DConfig:
		dst.WriteU16(cfg.Flight3D.DeadbandLow)
		dst.WriteU16(cfg.Flight3D.DeadbandHigh)
		dst.WriteU16(cfg.Flight3D.Neutral)

	case CmdRCDeadband:
		dst.WriteU8(cfg.RCControls.Deadband)
		dst.WriteU8(cfg.RCControls.YawDeadband)
		dst.WriteU8(cfg.RCControls.AltHoldDeadband)
		dst.WriteU16(cfg.Flight3D.DeadbandThrottle)

	case CmdSensorAlignment:
		g := cfg.Gyro
		align := g.Align[0]
		if caps.MultiGyro && g.ToUse == fc.GyroUse2 {
			align = g.Align[1]
		}
		dst.WriteU8(align)
		// 4.0 起加速度计与陀螺仪共用安装方向
		dst.WriteU8(align)
		dst.WriteU8(cfg.Compass.MagAlign)
		dst.WriteU8(st.GyroDetection)
		if caps.MultiGyro {
			dst.WriteU8(g.ToUse)
			dst.WriteU8(g.Align[0])
			dst.WriteU8(g.Align[1])
		} else {
			dst.WriteU8(fc.GyroUse1)
			dst.WriteU8(g.Align[0])
			dst.WriteU8(fc.AlignDefault)
		}

	case CmdAdvancedConfig:
		g := cfg.Gyro
		m := cfg.Motor
		dst.WriteU8(g.SyncDenom)
		dst.WriteU8(cfg.PID.ProcessDenom)
		dst.WriteU8(m.UseUnsyncedPWM)
		dst.WriteU8(m.PWMProtocol)
		dst.WriteU16(m.PWMRate)
		dst.WriteU16(m.DigitalIdleOffset)
		dst.WriteU8(0)
		dst.WriteU8(m.PWMInversion)
		dst.WriteU8(g.ToUse)
		dst.WriteU8(g.HighFSR)
		dst.WriteU8(g.MovementCalibrationThreshold)
		dst.WriteU16(g.CalibrationDuration)
		dst.WriteU16(uint16(g.OffsetYaw))
		dst.WriteU8(g.CheckOverflow)

	case CmdFilterConfig:
		e.writeFilterConfig(dst)

	case CmdPIDAdvanced:
		e.writePIDAdvanced(dst)

	case CmdSensorConfig:
		dst.WriteU8(cfg.Acc.Hardware)
		dst.WriteU8(cfg.Baro.Hardware)
		dst.WriteU8(cfg.Compass.MagHardware)

	case CmdVtxConfig:
		if !caps.VTX {
			return false
		}
		var pit, ready uint8
		vtxType := uint8(fc.VTXDevUnknown)
		if v := c.Services.VTX; v != nil {
			pit = v.PitMode()
			vtxType = v.DeviceType()
			if v.Ready() {
				ready = 1
			}
		}
		dst.WriteU8(vtxType)
		dst.WriteU8(cfg.VTX.Band)
		dst.WriteU8(cfg.VTX.Channel)
		dst.WriteU8(cfg.VTX.Power)
		dst.WriteU8(pit)
		dst.WriteU16(cfg.VTX.Freq)
		dst.WriteU8(ready)
		dst.WriteU8(cfg.VTX.LowPowerDisarm)

	case CmdTxInfo:
		dst.WriteU8(st.RSSISource)
		switch {
		case !caps.RTC:
			dst.WriteU8(rtcNotSupported)
		case e.rtcSet():
			dst.WriteU8(1)
		default:
			dst.WriteU8(0)
		}

	case CmdRTC:
		if !caps.RTC {
			return false
		}
		if clk := c.Services.Clock; clk != nil {
			if t, ok := clk.Now(); ok {
				t = t.UTC()
				dst.WriteU16(uint16(t.Year()))
				dst.WriteU8(uint8(t.Month()))
				dst.WriteU8(uint8(t.Day()))
				dst.WriteU8(uint8(t.Hour()))
				dst.WriteU8(uint8(t.Minute()))
				dst.WriteU8(uint8(t.Second()))
				dst.WriteU16(uint16(t.Nanosecond() / 1e6))
			}
		}

	default:
		return false
	}
	return true
}

func (e *Engine) rtcSet() bool {
	clk := e.fc.Services.Clock
	if clk == nil {
		return false
	}
	_, ok := clk.Now()
	return ok
}

func permanentID(id uint8) uint8 {
	b, ok := fc.Box(fc.BoxID(id))
	if !ok {
		return 0
	}
	return b.PermanentID
}

// serialPortAvailable 软串口仅在能力开启时出现
func (e *Engine) serialPortAvailable(id uint8) bool {
	switch id {
	case fc.SerialPortSoftSerial1, fc.SerialPortSoftSerial2:
		return e.fc.Caps.SoftSerial
	case fc.SerialPortUSBVCP:
		return e.fc.Caps.USBVCP
	}
	return true
}

// writeStatus STATUS / STATUS_EX
func (e *Engine) writeStatus(cmd uint8, dst *Writer) {
	c := e.fc
	st := c.State
	flags, flagBits := c.FlightModeFlags()
	word := func(b []byte, from, n int) []byte {
		out := make([]byte, n)
		if from < len(b) {
			copy(out, b[from:])
		}
		return out
	}

	dst.WriteU16(st.CycleTime)
	dst.WriteU16(st.I2CErrors)
	dst.WriteU16(st.Sensors.Bits())
	dst.Write(word(flags, 0, 4))
	dst.WriteU8(c.Config.System.PIDProfileIndex)
	dst.WriteU16(clampU16(minInt(int(st.SystemLoad), 100)))
	if cmd == CmdStatusEx {
		dst.WriteU8(fc.PIDProfileCount)
		dst.WriteU8(c.Config.System.ActiveRateProfile)
	} else {
		dst.WriteU16(0)
	}

	// 头字节低 4 位为其后附加的模式位字节数
	byteCount := (flagBits - 32 + 7) / 8
	if byteCount < 0 {
		byteCount = 0
	}
	if byteCount > 15 {
		byteCount = 15
	}
	dst.WriteU8(uint8(byteCount))
	dst.Write(word(flags, 4, byteCount))

	dst.WriteU8(fc.ArmingDisableFlagsCnt)
	dst.WriteU32(st.ArmingDisableFlags)
}

func (e *Engine) writeRxConfig(dst *Writer) {
	c := e.fc
	rx := c.Config.Rx
	dst.WriteU8(rx.SerialRxProvider)
	dst.WriteU16(rx.MaxCheck)
	dst.WriteU16(rx.MidRC)
	dst.WriteU16(rx.MinCheck)
	dst.WriteU8(rx.SpektrumSatBind)
	dst.WriteU16(rx.RxMinUsec)
	dst.WriteU16(rx.RxMaxUsec)
	dst.WriteU8(rx.RCInterpolation)
	dst.WriteU8(rx.RCInterpolationInterval)
	dst.WriteU16(uint16(rx.AirModeActivateThreshold)*10 + 1000)
	if c.Caps.RxSPI {
		dst.WriteU8(rx.RxSPIProtocol)
		dst.WriteU32(rx.RxSPIID)
		dst.WriteU8(rx.RxSPIRFChannelCount)
	} else {
		dst.WriteU8(0)
		dst.WriteU32(0)
		dst.WriteU8(0)
	}
	dst.WriteU8(rx.FPVCamAngleDegrees)
	dst.WriteU8(rx.RCInterpolationChannels)
	if c.Caps.RCSmoothing {
		dst.WriteU8(rx.RCSmoothingType)
		dst.WriteU8(rx.RCSmoothingInputCutoff)
		dst.WriteU8(rx.RCSmoothingDerivCutoff)
		dst.WriteU8(rx.RCSmoothingInputType)
		dst.WriteU8(rx.RCSmoothingDerivType)
	} else {
		dst.Advance(5)
	}
	dst.WriteU8(rx.USBType)
}

func (e *Engine) writeFilterConfig(dst *Writer) {
	c := e.fc
	g := c.Config.Gyro
	p := c.PIDProfile()
	dst.WriteU8(uint8(g.LowpassHz))
	dst.WriteU16(p.DtermLowpassHz)
	dst.WriteU16(p.YawLowpassHz)
	dst.WriteU16(g.SoftNotchHz1)
	dst.WriteU16(g.SoftNotchCutoff1)
	dst.WriteU16(p.DtermNotchHz)
	dst.WriteU16(p.DtermNotchCutoff)
	dst.WriteU16(g.SoftNotchHz2)
	dst.WriteU16(g.SoftNotchCutoff2)
	dst.WriteU8(p.DtermFilterType)
	dst.WriteU8(g.HardwareLPF)
	dst.WriteU8(0)
	dst.WriteU16(g.LowpassHz)
	dst.WriteU16(g.Lowpass2Hz)
	dst.WriteU8(g.LowpassType)
	dst.WriteU8(g.Lowpass2Type)
	dst.WriteU16(p.DtermLowpass2Hz)
	dst.WriteU8(p.DtermFilter2Type)
	if c.Caps.DynLPF {
		dst.WriteU16(g.DynLPFMinHz)
		dst.WriteU16(g.DynLPFMaxHz)
		dst.WriteU16(p.DynLPFDtermMinHz)
		dst.WriteU16(p.DynLPFDtermMaxHz)
	} else {
		dst.Advance(8)
	}
}

func (e *Engine) writePIDAdvanced(dst *Writer) {
	c := e.fc
	p := c.PIDProfile()
	dst.Advance(2 + 2 + 2 + 1)
	dst.WriteU8(p.VbatPIDCompensation)
	dst.WriteU8(p.FeedForwardTransition)
	dst.Advance(4)
	dst.WriteU16(p.RateAccelLimit)
	dst.WriteU16(p.YawRateAccelLimit)
	dst.WriteU8(p.LevelAngleLimit)
	dst.WriteU8(0)
	dst.WriteU16(p.ItermThrottleThreshold)
	dst.WriteU16(p.ItermAcceleratorGain)
	dst.WriteU16(0)
	dst.WriteU8(p.ItermRotation)
	dst.WriteU8(p.SmartFeedforward)
	dst.WriteU8(p.ItermRelax)
	dst.WriteU8(p.ItermRelaxType)
	dst.WriteU8(p.AbsControlGain)
	dst.WriteU8(p.ThrottleBoost)
	if c.Caps.AcroTrainer {
		dst.WriteU8(p.AcroTrainerAngleLimit)
	} else {
		dst.WriteU8(0)
	}
	dst.WriteU16(p.PID[fc.AxisRoll].F)
	dst.WriteU16(p.PID[fc.AxisPitch].F)
	dst.WriteU16(p.PID[fc.AxisYaw].F)
	dst.WriteU8(p.AntiGravityMode)
	if c.Caps.DMin {
		dst.WriteU8(p.DMin[fc.AxisRoll])
		dst.WriteU8(p.DMin[fc.AxisPitch])
		dst.WriteU8(p.DMin[fc.AxisYaw])
		dst.WriteU8(p.DMinGain)
		dst.WriteU8(p.DMinAdvance)
	} else {
		dst.Advance(5)
	}
	if c.Caps.IntegratedYaw {
		dst.WriteU8(p.UseIntegratedYaw)
		dst.WriteU8(p.IntegratedYawRelax)
	} else {
		dst.Advance(2)
	}
}
