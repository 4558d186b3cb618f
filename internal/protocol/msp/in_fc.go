package msp

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

const (
	// rateProfileMask SELECT_SETTING 最高位选择速率档位
	rateProfileMask = 1 << 7

	// serialPortConfigSize SET_CF_SERIAL_CONFIG 单个串口的字节数
	serialPortConfigSize = 1 + 2 + 4

	// armingDisabledMSP 经 MSP 禁止解锁的标志位
	armingDisabledMSP = 1 << 16

	// gpsMSPUpdate GPS 数据由 MSP 注入
	gpsMSPUpdate = 1 << 1

	// rssiSourceMSP RSSI 来源为 MSP
	rssiSourceMSP = 4
)

// inFC 飞控专属设置命令
func (e *Engine) inFC(cmd uint8, src *Reader, slot *Action) Result {
	c := e.fc
	cfg := c.Config
	st := c.State
	caps := c.Caps
	dataSize := src.Remaining()

	switch cmd {
	case CmdSelectSetting:
		value := src.ReadU8()
		if value&rateProfileMask == 0 {
			if e.armed() {
				return ResultError
			}
			if value >= fc.PIDProfileCount {
				value = 0
			}
			c.SelectPIDProfile(value)
		} else {
			value &^= rateProfileMask
			if value >= fc.ControlRateProfileCount {
				value = 0
			}
			c.SelectRateProfile(value)
		}

	case CmdCopyProfile:
		kind := src.ReadU8()
		dstIdx := int(src.ReadU8())
		srcIdx := int(src.ReadU8())
		switch kind {
		case 0:
			if dstIdx < fc.PIDProfileCount && srcIdx < fc.PIDProfileCount && dstIdx != srcIdx {
				cfg.PIDProfiles[dstIdx] = cfg.PIDProfiles[srcIdx]
			}
		case 1:
			if dstIdx < fc.ControlRateProfileCount && srcIdx < fc.ControlRateProfileCount && dstIdx != srcIdx {
				cfg.RateProfiles[dstIdx] = cfg.RateProfiles[srcIdx]
			}
		}

	case CmdSetHeading:
		if !caps.GPS && !caps.Mag {
			return ResultError
		}
		st.MagHold = int16(src.ReadU16())

	case CmdSetRawRC:
		n := dataSize / 2
		if n > fc.MaxSupportedRCChannel {
			return ResultError
		}
		for i := 0; i < n; i++ {
			st.RC[i] = src.ReadU16()
		}
		st.RawRCFrames++

	case CmdSetAccTrim:
		cfg.Acc.TrimPitch = int16(src.ReadU16())
		cfg.Acc.TrimRoll = int16(src.ReadU16())

	case CmdSetArmingConfig:
		cfg.Arming.AutoDisarmDelay = src.ReadU8()
		src.ReadU8()
		if src.Remaining() > 0 {
			cfg.Arming.SmallAngle = src.ReadU8()
		}

	case CmdSetPIDController:

	case CmdSetPID:
		p := c.PIDProfile()
		for i := range p.PID {
			p.PID[i].P = src.ReadU8()
			p.PID[i].I = src.ReadU8()
			p.PID[i].D = src.ReadU8()
		}

	case CmdSetModeRange:
		return e.setModeRange(src)

	case CmdSetAdjustmentRange:
		idx := src.ReadU8()
		if int(idx) >= fc.MaxAdjustmentRangeCount {
			return ResultError
		}
		slotIdx := src.ReadU8()
		if int(slotIdx) >= fc.MaxSimultaneousAdjustmentCount {
			return ResultError
		}
		cfg.Adjustments[idx] = fc.AdjustmentRange{
			AdjustmentIndex:       slotIdx,
			AuxChannelIndex:       src.ReadU8(),
			StartStep:             src.ReadU8(),
			EndStep:               src.ReadU8(),
			AdjustmentConfig:      src.ReadU8(),
			AuxSwitchChannelIndex: src.ReadU8(),
		}

	case CmdSetRCTuning:
		if src.Remaining() < 10 {
			return ResultError
		}
		e.setRCTuning(src)

	case CmdSetMotorConfig:
		cfg.Motor.MinThrottle = src.ReadU16()
		cfg.Motor.MaxThrottle = src.ReadU16()
		cfg.Motor.MinCommand = src.ReadU16()

	case CmdSetGPSConfig:
		if !caps.GPS {
			return ResultError
		}
		cfg.GPS.Provider = src.ReadU8()
		cfg.GPS.SBASMode = src.ReadU8()
		cfg.GPS.AutoConfig = src.ReadU8()
		cfg.GPS.AutoBaud = src.ReadU8()

	case CmdSetGPSRescue:
		if !caps.GPS || !caps.GPSRescue {
			return ResultError
		}
		r := &cfg.GPSRescue
		r.Angle = src.ReadU16()
		r.InitialAltitudeM = src.ReadU16()
		r.DescentDistanceM = src.ReadU16()
		r.RescueGroundspeed = src.ReadU16()
		r.ThrottleMin = src.ReadU16()
		r.ThrottleMax = src.ReadU16()
		r.ThrottleHover = src.ReadU16()
		r.SanityChecks = src.ReadU8()
		r.MinSats = src.ReadU8()

	case CmdSetGPSRescuePIDs:
		if !caps.GPS || !caps.GPSRescue {
			return ResultError
		}
		r := &cfg.GPSRescue
		r.ThrottleP = src.ReadU16()
		r.ThrottleI = src.ReadU16()
		r.ThrottleD = src.ReadU16()
		r.VelP = src.ReadU16()
		r.VelI = src.ReadU16()
		r.VelD = src.ReadU16()
		r.YawP = src.ReadU16()

	case CmdSetCompassConfig:
		if !caps.Mag {
			return ResultError
		}
		cfg.Compass.MagDeclination = int16(src.ReadU16()) * 10

	case CmdSetMotor:
		if e.armed() {
			return ResultError
		}
		for i := 0; i < c.MotorCount(); i++ {
			st.MotorsDisarmed[i] = src.ReadU16()
		}

	case CmdSetServoConfiguration:
		if !caps.Servos {
			return ResultError
		}
		if dataSize != 1+12 {
			return ResultError
		}
		idx := src.ReadU8()
		if int(idx) >= fc.MaxSupportedServos {
			return ResultError
		}
		s := &cfg.Servos[idx]
		s.Min = src.ReadU16()
		s.Max = src.ReadU16()
		s.Middle = src.ReadU16()
		s.Rate = src.ReadU8()
		s.ForwardFromChannel = src.ReadU8()
		s.ReversedSources = src.ReadU32()

	case CmdSetServoMixRule:
		if !caps.Servos {
			return ResultError
		}
		idx := src.ReadU8()
		if int(idx) >= fc.MaxServoRules {
			return ResultError
		}
		cfg.ServoMixers[idx] = fc.ServoMixer{
			TargetChannel: src.ReadU8(),
			InputSource:   src.ReadU8(),
			Rate:          src.ReadU8(),
			Speed:         src.ReadU8(),
			Min:           src.ReadU8(),
			Max:           src.ReadU8(),
			Box:           src.ReadU8(),
		}

	case CmdSetMotor3DConfig:
		cfg.Flight3D.DeadbandLow = src.ReadU16()
		cfg.Flight3D.DeadbandHigh = src.ReadU16()
		cfg.Flight3D.Neutral = src.ReadU16()

	case CmdSetRCDeadband:
		cfg.RCControls.Deadband = src.ReadU8()
		cfg.RCControls.YawDeadband = src.ReadU8()
		cfg.RCControls.AltHoldDeadband = src.ReadU8()
		cfg.Flight3D.DeadbandThrottle = src.ReadU16()

	case CmdSetResetCurrPID:
		*c.PIDProfile() = fc.DefaultPIDProfile()

	case CmdSetSensorAlignment:
		e.setSensorAlignment(src)

	case CmdSetAdvancedConfig:
		e.setAdvancedConfig(src)

	case CmdSetFilterConfig:
		e.setFilterConfig(src)

	case CmdSetPIDAdvanced:
		e.setPIDAdvanced(src)

	case CmdSetSensorConfig:
		cfg.Acc.Hardware = src.ReadU8()
		cfg.Baro.Hardware = src.ReadU8()
		cfg.Compass.MagHardware = src.ReadU8()

	case CmdResetConf:
		if e.armed() {
			return ResultError
		}
		if err := c.ResetEEPROM(); err != nil {
			return ResultError
		}
		e.reloadEEPROM()

	case CmdAccCalibration:
		if e.armed() {
			return ResultError
		}
		st.CalibratingAcc = true

	case CmdMagCalibration:
		if e.armed() {
			return ResultError
		}
		st.CalibratingMag = true

	case CmdEEPROMWrite:
		if e.armed() {
			return ResultError
		}
		if err := c.WriteEEPROM(); err != nil {
			return ResultError
		}
		e.reloadEEPROM()

	case CmdSetBlackboxConfig:
		if !caps.Blackbox {
			return ResultError
		}
		// 记录中不允许修改
		if st.BlackboxLogging {
			break
		}
		cfg.Blackbox.Device = src.ReadU8()
		rateNum := int(src.ReadU8())
		rateDenom := int(src.ReadU8())
		if src.Remaining() >= 2 {
			cfg.Blackbox.PRatio = src.ReadU16()
		} else {
			cfg.Blackbox.PRatio = fc.CalculatePDenom(rateNum, rateDenom)
		}

	case CmdSetVtxConfig:
		if !caps.VTX {
			return ResultError
		}
		e.setVTXConfig(src)

	case CmdCameraControl:
		if !caps.CameraControl {
			return ResultError
		}
		if e.armed() {
			return ResultError
		}
		key := src.ReadU8()
		if cam := c.Services.Camera; cam != nil && cam.Supported() {
			cam.KeyPress(key, 0)
		}

	case CmdSetArmingDisabled:
		command := src.ReadU8()
		if command != 0 {
			st.ArmingDisableFlags |= armingDisabledMSP
			if st.Armed {
				st.Armed = false
				e.logger.Warn("disarmed by msp")
			}
		} else {
			st.ArmingDisableFlags &^= armingDisabledMSP
		}

	case CmdDataflashErase:
		if !caps.Flash {
			return ResultError
		}
		if e.armed() {
			return ResultError
		}
		slot.set(Action{Kind: ActionFlashErase})

	case CmdSetRawGPS:
		if !caps.GPS {
			return ResultError
		}
		g := &st.GPS
		g.Fix = src.ReadU8() != 0
		g.NumSat = src.ReadU8()
		g.Lat = int32(src.ReadU32())
		g.Lon = int32(src.ReadU32())
		// 载荷单位为米
		g.AltitudeCm = int32(src.ReadU16()) * 100
		g.GroundSpeed = src.ReadU16()
		g.Update |= gpsMSPUpdate

	case CmdSetFeatureConfig:
		c.StageFeatureMask(src.ReadU32())

	case CmdSetBeeperConfig:
		if !caps.Beeper {
			return ResultError
		}
		cfg.Beeper.OffFlags = src.ReadU32()
		if src.Remaining() >= 1 {
			cfg.Beeper.DshotBeaconTone = src.ReadU8()
		}
		if src.Remaining() >= 4 {
			cfg.Beeper.DshotBeaconOffFlags = src.ReadU32()
		}

	case CmdSetBoardAlignmentConfig:
		cfg.Alignment.RollDegrees = int16(src.ReadU16())
		cfg.Alignment.PitchDegrees = int16(src.ReadU16())
		cfg.Alignment.YawDegrees = int16(src.ReadU16())

	case CmdSetMixerConfig:
		cfg.Mixer.Mode = src.ReadU8()
		if src.Remaining() >= 1 {
			cfg.Mixer.YawMotorsReversed = src.ReadU8()
		}

	case CmdSetRxConfig:
		e.setRxConfig(src)

	case CmdSetFailsafeConfig:
		f := &cfg.Failsafe
		f.Delay = src.ReadU8()
		f.OffDelay = src.ReadU8()
		f.Throttle = src.ReadU16()
		f.SwitchMode = src.ReadU8()
		f.ThrottleLowDelay = src.ReadU16()
		f.Procedure = src.ReadU8()

	case CmdSetRxfailConfig:
		idx := src.ReadU8()
		if int(idx) >= fc.MaxSupportedRCChannel {
			return ResultError
		}
		cfg.RxFail[idx].Mode = src.ReadU8()
		cfg.RxFail[idx].Step = fc.ChannelValueToRxfailStep(src.ReadU16())

	case CmdSetRssiConfig:
		cfg.Rx.RSSIChannel = src.ReadU8()

	case CmdSetRxMap:
		for i := range cfg.Rx.RCMap {
			cfg.Rx.RCMap[i] = src.ReadU8()
		}

	case CmdSetCfSerialConfig:
		return e.setSerialConfig(src, dataSize)

	case CmdSetLedColors:
		if !caps.LedStrip {
			return ResultError
		}
		for i := range cfg.Led.Colors {
			cfg.Led.Colors[i] = fc.HSVColor{H: src.ReadU16(), S: src.ReadU8(), V: src.ReadU8()}
		}

	case CmdSetLedStripConfig:
		if !caps.LedStrip {
			return ResultError
		}
		// 1.41 起可附带灯带档位
		if dataSize != 1+4 && dataSize != 1+4+1 {
			return ResultError
		}
		idx := src.ReadU8()
		if int(idx) >= fc.LedMaxStripLength {
			return ResultError
		}
		cfg.Led.LedConfigs[idx] = src.ReadU32()
		if src.Remaining() >= 1 {
			cfg.Led.Profile = src.ReadU8()
		}

	case CmdSetLedStripModeColor:
		if !caps.LedStrip {
			return ResultError
		}
		mode := int(src.ReadU8())
		fn := int(src.ReadU8())
		color := int(src.ReadU8())
		if !cfg.Led.SetModeColor(mode, fn, color) {
			return ResultError
		}

	case CmdSetName:
		cfg.Pilot.Name = readString(src, fc.MaxNameLength)

	case CmdSetRTC:
		if !caps.RTC {
			return ResultError
		}
		secs := int32(src.ReadU32())
		millis := src.ReadU16()
		if clk := c.Services.Clock; clk != nil {
			clk.Set(time.Unix(int64(secs), int64(millis)*int64(time.Millisecond)))
		}

	case CmdSetTxInfo:
		v := src.ReadU8()
		st.TxInfoRSSIDbm = v
		if st.RSSISource == rssiSourceMSP {
			st.RSSI = uint16(v) << 2
		}

	case CmdSetBoardInfo:
		if !caps.BoardInfo {
			return ResultError
		}
		if cfg.Board.InfoSet {
			return ResultError
		}
		name := readLenField(src, fc.MaxBoardNameLength)
		mfr := readLenField(src, fc.MaxManufacturerIDLength)
		if err := c.SetBoardInfo(name, mfr); err != nil {
			return ResultError
		}

	case CmdSetSignature:
		if !caps.BoardInfo || !caps.Signature {
			return ResultError
		}
		if cfg.Board.SignatureSet {
			return ResultError
		}
		sig := make([]byte, fc.SignatureLength)
		src.Read(sig)
		if err := c.SetSignature(sig); err != nil {
			if !errors.Is(err, fc.ErrImmutable) {
				e.logger.Warn("signature not persisted", zap.Error(err))
			}
			return ResultError
		}

	default:
		return ResultError
	}
	return ResultAck
}

// reloadEEPROM 保存后重新载入，失败保留内存配置
func (e *Engine) reloadEEPROM() {
	if err := e.fc.ReadEEPROM(); err != nil {
		e.logger.Warn("eeprom reload failed", zap.Error(err))
	}
}

// readLenField 读取 u8 长度前缀字段，超过 max 的部分跳过
func readLenField(src *Reader, max int) string {
	n := int(src.ReadU8())
	s := string(src.ReadBytes(minInt(n, max)))
	if n > max {
		src.Advance(n - max)
	}
	return s
}

// setModeRange 先校验索引与模式编号，全部合法后再写入
func (e *Engine) setModeRange(src *Reader) Result {
	idx := src.ReadU8()
	if int(idx) >= fc.MaxModeActivationConditionCount {
		return ResultError
	}
	box, ok := fc.BoxByPermanentID(src.ReadU8())
	if !ok {
		return ResultError
	}
	mac := e.fc.Config.Modes[idx]
	mac.ModeID = uint8(box.ID)
	mac.AuxChannelIndex = src.ReadU8()
	mac.StartStep = src.ReadU8()
	mac.EndStep = src.ReadU8()
	if src.Remaining() != 0 {
		mac.ModeLogic = src.ReadU8()
		linked, ok := fc.BoxByPermanentID(src.ReadU8())
		if !ok {
			return ResultError
		}
		mac.LinkedTo = uint8(linked.ID)
	}
	e.fc.Config.Modes[idx] = mac
	return ResultAck
}

// setRCTuning 滚转与俯仰速率相同时同步修改俯仰（旧版客户端只发送一组）
func (e *Engine) setRCTuning(src *Reader) {
	r := e.fc.RateProfile()

	v := src.ReadU8()
	if r.RCRates[fc.AxisPitch] == r.RCRates[fc.AxisRoll] {
		r.RCRates[fc.AxisPitch] = v
	}
	r.RCRates[fc.AxisRoll] = v

	v = src.ReadU8()
	if r.RCExpo[fc.AxisPitch] == r.RCExpo[fc.AxisRoll] {
		r.RCExpo[fc.AxisPitch] = v
	}
	r.RCExpo[fc.AxisRoll] = v

	for i := range r.Rates {
		r.Rates[i] = src.ReadU8()
	}
	r.DynThrPID = uint8(minInt(int(src.ReadU8()), fc.ControlRateTPAMax))
	r.ThrMid8 = src.ReadU8()
	r.ThrExpo8 = src.ReadU8()
	r.TPABreakpoint = src.ReadU16()

	if src.Remaining() >= 1 {
		r.RCExpo[fc.AxisYaw] = src.ReadU8()
	}
	if src.Remaining() >= 1 {
		r.RCRates[fc.AxisYaw] = src.ReadU8()
	}
	if src.Remaining() >= 1 {
		r.RCRates[fc.AxisPitch] = src.ReadU8()
	}
	if src.Remaining() >= 1 {
		r.RCExpo[fc.AxisPitch] = src.ReadU8()
	}
	if src.Remaining() >= 2 {
		r.ThrottleLimitType = src.ReadU8()
		r.ThrottleLimitPercent = src.ReadU8()
	}
}

func (e *Engine) setSensorAlignment(src *Reader) {
	c := e.fc
	g := &c.Config.Gyro
	gyroAlign := src.ReadU8()
	src.ReadU8()
	c.Config.Compass.MagAlign = src.ReadU8()

	if src.Remaining() >= 3 {
		toUse := src.ReadU8()
		g.Align[0] = src.ReadU8()
		align2 := src.ReadU8()
		if c.Caps.MultiGyro {
			g.ToUse = toUse
			g.Align[1] = align2
		}
		return
	}
	// 旧版只有一个安装方向
	if c.Caps.MultiGyro && g.ToUse == fc.GyroUse2 {
		g.Align[1] = gyroAlign
		return
	}
	g.Align[0] = gyroAlign
}

func (e *Engine) setAdvancedConfig(src *Reader) {
	c := e.fc
	g := &c.Config.Gyro
	m := &c.Config.Motor

	g.SyncDenom = src.ReadU8()
	c.Config.PID.ProcessDenom = src.ReadU8()
	m.UseUnsyncedPWM = src.ReadU8()
	maxProtocol := fc.PWMTypeBrushed
	if c.Caps.Dshot {
		maxProtocol = fc.PWMTypeMax - 1
	}
	m.PWMProtocol = uint8(minInt(int(src.ReadU8()), maxProtocol))
	m.PWMRate = src.ReadU16()
	if src.Remaining() >= 2 {
		m.DigitalIdleOffset = src.ReadU16()
	}
	if src.Remaining() > 0 {
		src.ReadU8()
	}
	if src.Remaining() > 0 {
		m.PWMInversion = src.ReadU8()
	}
	if src.Remaining() >= 8 {
		g.ToUse = src.ReadU8()
		g.HighFSR = src.ReadU8()
		g.MovementCalibrationThreshold = src.ReadU8()
		g.CalibrationDuration = src.ReadU16()
		g.OffsetYaw = int16(src.ReadU16())
		g.CheckOverflow = src.ReadU8()
	}
	if !c.Caps.MultiGyro && g.ToUse != fc.GyroUse1 {
		g.ToUse = fc.GyroUse1
	}
}

func (e *Engine) setFilterConfig(src *Reader) {
	c := e.fc
	g := &c.Config.Gyro
	p := c.PIDProfile()

	g.LowpassHz = uint16(src.ReadU8())
	p.DtermLowpassHz = src.ReadU16()
	p.YawLowpassHz = src.ReadU16()
	if src.Remaining() >= 8 {
		g.SoftNotchHz1 = src.ReadU16()
		g.SoftNotchCutoff1 = src.ReadU16()
		p.DtermNotchHz = src.ReadU16()
		p.DtermNotchCutoff = src.ReadU16()
	}
	if src.Remaining() >= 4 {
		g.SoftNotchHz2 = src.ReadU16()
		g.SoftNotchCutoff2 = src.ReadU16()
	}
	if src.Remaining() >= 1 {
		p.DtermFilterType = src.ReadU8()
	}
	if src.Remaining() >= 10 {
		g.HardwareLPF = src.ReadU8()
		src.ReadU8()
		g.LowpassHz = src.ReadU16()
		g.Lowpass2Hz = src.ReadU16()
		g.LowpassType = src.ReadU8()
		g.Lowpass2Type = src.ReadU8()
		p.DtermLowpass2Hz = src.ReadU16()
	}
	if src.Remaining() >= 9 {
		p.DtermFilter2Type = src.ReadU8()
		gMin, gMax := src.ReadU16(), src.ReadU16()
		dMin, dMax := src.ReadU16(), src.ReadU16()
		if c.Caps.DynLPF {
			g.DynLPFMinHz, g.DynLPFMaxHz = gMin, gMax
			p.DynLPFDtermMinHz, p.DynLPFDtermMaxHz = dMin, dMax
		}
	}
}

func (e *Engine) setPIDAdvanced(src *Reader) {
	c := e.fc
	p := c.PIDProfile()

	src.Advance(2 + 2 + 2 + 1)
	p.VbatPIDCompensation = src.ReadU8()
	p.FeedForwardTransition = src.ReadU8()
	src.Advance(4)
	p.RateAccelLimit = src.ReadU16()
	p.YawRateAccelLimit = src.ReadU16()
	if src.Remaining() >= 2 {
		p.LevelAngleLimit = src.ReadU8()
		src.ReadU8()
	}
	if src.Remaining() >= 4 {
		p.ItermThrottleThreshold = src.ReadU16()
		p.ItermAcceleratorGain = src.ReadU16()
	}
	if src.Remaining() >= 2 {
		src.ReadU16()
	}
	if src.Remaining() >= 14 {
		p.ItermRotation = src.ReadU8()
		p.SmartFeedforward = src.ReadU8()
		p.ItermRelax = src.ReadU8()
		p.ItermRelaxType = src.ReadU8()
		p.AbsControlGain = src.ReadU8()
		p.ThrottleBoost = src.ReadU8()
		trainer := src.ReadU8()
		if c.Caps.AcroTrainer {
			p.AcroTrainerAngleLimit = trainer
		}
		p.PID[fc.AxisRoll].F = src.ReadU16()
		p.PID[fc.AxisPitch].F = src.ReadU16()
		p.PID[fc.AxisYaw].F = src.ReadU16()
		p.AntiGravityMode = src.ReadU8()
	}
	if src.Remaining() >= 7 {
		var dmin [5]byte
		src.Read(dmin[:])
		if c.Caps.DMin {
			p.DMin = [3]uint8{dmin[0], dmin[1], dmin[2]}
			p.DMinGain = dmin[3]
			p.DMinAdvance = dmin[4]
		}
		use, relax := src.ReadU8(), src.ReadU8()
		if c.Caps.IntegratedYaw {
			p.UseIntegratedYaw = use
			p.IntegratedYawRelax = relax
		}
	}
}

func (e *Engine) setRxConfig(src *Reader) {
	c := e.fc
	rx := &c.Config.Rx

	rx.SerialRxProvider = src.ReadU8()
	rx.MaxCheck = src.ReadU16()
	rx.MidRC = src.ReadU16()
	rx.MinCheck = src.ReadU16()
	rx.SpektrumSatBind = src.ReadU8()
	if src.Remaining() >= 4 {
		rx.RxMinUsec = src.ReadU16()
		rx.RxMaxUsec = src.ReadU16()
	}
	if src.Remaining() >= 4 {
		rx.RCInterpolation = src.ReadU8()
		rx.RCInterpolationInterval = src.ReadU8()
		rx.AirModeActivateThreshold = clampU8((int(src.ReadU16()) - 1000) / 10)
	}
	if src.Remaining() >= 6 {
		proto := src.ReadU8()
		id := src.ReadU32()
		channels := src.ReadU8()
		if c.Caps.RxSPI {
			rx.RxSPIProtocol, rx.RxSPIID, rx.RxSPIRFChannelCount = proto, id, channels
		}
	}
	if src.Remaining() >= 1 {
		rx.FPVCamAngleDegrees = src.ReadU8()
	}
	if src.Remaining() >= 6 {
		rx.RCInterpolationChannels = src.ReadU8()
		var smoothing [5]byte
		src.Read(smoothing[:])
		if c.Caps.RCSmoothing {
			rx.RCSmoothingType = smoothing[0]
			rx.RCSmoothingInputCutoff = smoothing[1]
			rx.RCSmoothingDerivCutoff = smoothing[2]
			rx.RCSmoothingInputType = smoothing[3]
			rx.RCSmoothingDerivType = smoothing[4]
		}
	}
	if src.Remaining() >= 1 {
		rx.USBType = src.ReadU8()
	}
}

// setSerialConfig 载荷为若干 7 字节串口配置；任一串口不存在则整体拒绝
func (e *Engine) setSerialConfig(src *Reader, dataSize int) Result {
	if dataSize%serialPortConfigSize != 0 {
		return ResultError
	}
	cfg := e.fc.Config
	updates := make([]fc.SerialPortConfig, 0, dataSize/serialPortConfigSize)
	for i := 0; i < dataSize/serialPortConfigSize; i++ {
		p := fc.SerialPortConfig{
			Identifier:    src.ReadU8(),
			FunctionMask:  src.ReadU16(),
			MSPBaud:       src.ReadU8(),
			GPSBaud:       src.ReadU8(),
			TelemetryBaud: src.ReadU8(),
			BlackboxBaud:  src.ReadU8(),
		}
		if cfg.SerialPort(p.Identifier) == nil {
			return ResultError
		}
		updates = append(updates, p)
	}
	for _, p := range updates {
		*cfg.SerialPort(p.Identifier) = p
	}
	return ResultAck
}

// setVTXConfig 首个 u16 不大于 63 时按 频段*8+频点 解析，否则为 MHz 频率
func (e *Engine) setVTXConfig(src *Reader) {
	c := e.fc
	v := &c.Config.VTX
	dev := c.Services.VTX
	vtxType := uint8(fc.VTXDevUnknown)
	if dev != nil {
		vtxType = dev.DeviceType()
	}

	freq := src.ReadU16()
	switch {
	case freq <= fc.VTXBandChanCheckValue:
		v.Band = uint8(freq/8) + 1
		v.Channel = uint8(freq%8) + 1
		v.Freq = 0
		if dev != nil {
			v.Freq = dev.LookupFrequency(v.Band, v.Channel)
		}
	case freq <= fc.VTXMaxFrequencyMHz:
		v.Band = 0
		v.Freq = freq
	}

	if src.Remaining() >= 2 {
		v.Power = src.ReadU8()
		if vtxType != fc.VTXDevUnknown {
			pit := src.ReadU8()
			if dev.PitMode() != pit {
				dev.SetPitMode(pit)
			}
			if src.Remaining() > 0 {
				v.LowPowerDisarm = src.ReadU8()
			}
		}
	}
}
