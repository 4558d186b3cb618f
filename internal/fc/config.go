package fc

// Config 实时配置存储（EEPROM 镜像）
// 所有配置组集中在一个结构内，由命令引擎直接读写
type Config struct {
	Pilot        PilotConfig                                    `cbor:"pilot" yaml:"pilot" json:"pilot"`
	System       SystemConfig                                   `cbor:"system" yaml:"system" json:"system"`
	Board        BoardConfig                                    `cbor:"board" yaml:"board" json:"board"`
	Features     uint32                                         `cbor:"features" yaml:"features" json:"features"`
	Beeper       BeeperConfig                                   `cbor:"beeper" yaml:"beeper" json:"beeper"`
	Battery      BatteryConfig                                  `cbor:"battery" yaml:"battery" json:"battery"`
	VoltageADC   [MaxVoltageSensorADC]VoltageSensorADCConfig    `cbor:"voltageAdc" yaml:"voltageAdc" json:"voltageAdc"`
	CurrentADC   CurrentSensorConfig                            `cbor:"currentAdc" yaml:"currentAdc" json:"currentAdc"`
	CurrentVirt  CurrentSensorConfig                            `cbor:"currentVirtual" yaml:"currentVirtual" json:"currentVirtual"`
	Transponder  TransponderConfig                              `cbor:"transponder" yaml:"transponder" json:"transponder"`
	OSD          OSDConfig                                      `cbor:"osd" yaml:"osd" json:"osd"`
	PIDProfiles  [PIDProfileCount]PIDProfile                    `cbor:"pidProfiles" yaml:"pidProfiles" json:"pidProfiles"`
	RateProfiles [ControlRateProfileCount]RateProfile           `cbor:"rateProfiles" yaml:"rateProfiles" json:"rateProfiles"`
	Modes        [MaxModeActivationConditionCount]ModeCondition `cbor:"modes" yaml:"modes" json:"modes"`
	Adjustments  [MaxAdjustmentRangeCount]AdjustmentRange       `cbor:"adjustments" yaml:"adjustments" json:"adjustments"`
	Motor        MotorConfig                                    `cbor:"motor" yaml:"motor" json:"motor"`
	Mixer        MixerConfig                                    `cbor:"mixer" yaml:"mixer" json:"mixer"`
	Servos       [MaxSupportedServos]ServoParam                 `cbor:"servos" yaml:"servos" json:"servos"`
	ServoMixers  [MaxServoRules]ServoMixer                      `cbor:"servoMixers" yaml:"servoMixers" json:"servoMixers"`
	Rx           RxConfig                                       `cbor:"rx" yaml:"rx" json:"rx"`
	RxFail       [MaxSupportedRCChannel]RxFailChannel           `cbor:"rxFail" yaml:"rxFail" json:"rxFail"`
	Failsafe     FailsafeConfig                                 `cbor:"failsafe" yaml:"failsafe" json:"failsafe"`
	SerialPorts  []SerialPortConfig                             `cbor:"serialPorts" yaml:"serialPorts" json:"serialPorts"`
	Led          LedStripConfig                                 `cbor:"led" yaml:"led" json:"led"`
	Blackbox     BlackboxConfig                                 `cbor:"blackbox" yaml:"blackbox" json:"blackbox"`
	GPS          GPSConfig                                      `cbor:"gps" yaml:"gps" json:"gps"`
	GPSRescue    GPSRescueConfig                                `cbor:"gpsRescue" yaml:"gpsRescue" json:"gpsRescue"`
	Compass      CompassConfig                                  `cbor:"compass" yaml:"compass" json:"compass"`
	Acc          AccConfig                                      `cbor:"acc" yaml:"acc" json:"acc"`
	Baro         BaroConfig                                     `cbor:"baro" yaml:"baro" json:"baro"`
	Alignment    BoardAlignment                                 `cbor:"alignment" yaml:"alignment" json:"alignment"`
	Gyro         GyroConfig                                     `cbor:"gyro" yaml:"gyro" json:"gyro"`
	PID          PIDConfig                                      `cbor:"pid" yaml:"pid" json:"pid"`
	Flight3D     Flight3DConfig                                 `cbor:"flight3d" yaml:"flight3d" json:"flight3d"`
	RCControls   RCControlsConfig                               `cbor:"rcControls" yaml:"rcControls" json:"rcControls"`
	Arming       ArmingConfig                                   `cbor:"arming" yaml:"arming" json:"arming"`
	VTX          VTXSettings                                    `cbor:"vtx" yaml:"vtx" json:"vtx"`
	Time         TimeConfig                                     `cbor:"time" yaml:"time" json:"time"`
}

// PilotConfig 飞行器名称
type PilotConfig struct {
	Name string `cbor:"name" yaml:"name" json:"name"`
}

// SystemConfig 当前配置档位与调试模式
type SystemConfig struct {
	PIDProfileIndex   uint8 `cbor:"pidProfileIndex" yaml:"pidProfileIndex" json:"pidProfileIndex"`
	ActiveRateProfile uint8 `cbor:"activeRateProfile" yaml:"activeRateProfile" json:"activeRateProfile"`
	DebugMode         uint8 `cbor:"debugMode" yaml:"debugMode" json:"debugMode"`
}

// BoardConfig 一次性写入的板卡信息
type BoardConfig struct {
	BoardName      string `cbor:"boardName" yaml:"boardName" json:"boardName"`
	ManufacturerID string `cbor:"manufacturerId" yaml:"manufacturerId" json:"manufacturerId"`
	Signature      []byte `cbor:"signature" yaml:"signature" json:"signature"`
	InfoSet        bool   `cbor:"infoSet" yaml:"infoSet" json:"infoSet"`
	SignatureSet   bool   `cbor:"signatureSet" yaml:"signatureSet" json:"signatureSet"`
}

// BeeperConfig 蜂鸣器
type BeeperConfig struct {
	OffFlags            uint32 `cbor:"offFlags" yaml:"offFlags" json:"offFlags"`
	DshotBeaconTone     uint8  `cbor:"dshotBeaconTone" yaml:"dshotBeaconTone" json:"dshotBeaconTone"`
	DshotBeaconOffFlags uint32 `cbor:"dshotBeaconOffFlags" yaml:"dshotBeaconOffFlags" json:"dshotBeaconOffFlags"`
}

// BatteryConfig 电池（电压单位 0.01V）
type BatteryConfig struct {
	VbatMinCellVoltage     uint16 `cbor:"vbatMinCell" yaml:"vbatMinCell" json:"vbatMinCell"`
	VbatMaxCellVoltage     uint16 `cbor:"vbatMaxCell" yaml:"vbatMaxCell" json:"vbatMaxCell"`
	VbatWarningCellVoltage uint16 `cbor:"vbatWarningCell" yaml:"vbatWarningCell" json:"vbatWarningCell"`
	Capacity               uint16 `cbor:"capacity" yaml:"capacity" json:"capacity"`
	VoltageMeterSource     uint8  `cbor:"voltageMeterSource" yaml:"voltageMeterSource" json:"voltageMeterSource"`
	CurrentMeterSource     uint8  `cbor:"currentMeterSource" yaml:"currentMeterSource" json:"currentMeterSource"`
}

// VoltageSensorADCConfig 分压电阻参数
type VoltageSensorADCConfig struct {
	Scale            uint8 `cbor:"scale" yaml:"scale" json:"scale"`
	ResDivVal        uint8 `cbor:"resDivVal" yaml:"resDivVal" json:"resDivVal"`
	ResDivMultiplier uint8 `cbor:"resDivMultiplier" yaml:"resDivMultiplier" json:"resDivMultiplier"`
}

// CurrentSensorConfig 电流计刻度与偏移
type CurrentSensorConfig struct {
	Scale  int16 `cbor:"scale" yaml:"scale" json:"scale"`
	Offset int16 `cbor:"offset" yaml:"offset" json:"offset"`
}

// TransponderConfig 计圈器
type TransponderConfig struct {
	Provider uint8                        `cbor:"provider" yaml:"provider" json:"provider"`
	Data     [TransponderDataLength]uint8 `cbor:"data" yaml:"data" json:"data"`
}

// OSDConfig 屏显
type OSDConfig struct {
	VideoSystem      uint8                  `cbor:"videoSystem" yaml:"videoSystem" json:"videoSystem"`
	Units            uint8                  `cbor:"units" yaml:"units" json:"units"`
	RSSIAlarm        uint8                  `cbor:"rssiAlarm" yaml:"rssiAlarm" json:"rssiAlarm"`
	CapAlarm         uint16                 `cbor:"capAlarm" yaml:"capAlarm" json:"capAlarm"`
	AltAlarm         uint16                 `cbor:"altAlarm" yaml:"altAlarm" json:"altAlarm"`
	ItemPos          [OSDItemCount]uint16   `cbor:"itemPos" yaml:"itemPos" json:"itemPos"`
	StatEnabled      [OSDStatCount]bool     `cbor:"statEnabled" yaml:"statEnabled" json:"statEnabled"`
	Timers           [OSDTimerCount]uint16  `cbor:"timers" yaml:"timers" json:"timers"`
	EnabledWarnings  uint32                 `cbor:"enabledWarnings" yaml:"enabledWarnings" json:"enabledWarnings"`
	ProfileIndex     uint8                  `cbor:"profileIndex" yaml:"profileIndex" json:"profileIndex"`
	OverlayRadioMode uint8                  `cbor:"overlayRadioMode" yaml:"overlayRadioMode" json:"overlayRadioMode"`
}

// PIDGains 单轴增益
type PIDGains struct {
	P uint8  `cbor:"p" yaml:"p" json:"p"`
	I uint8  `cbor:"i" yaml:"i" json:"i"`
	D uint8  `cbor:"d" yaml:"d" json:"d"`
	F uint16 `cbor:"f" yaml:"f" json:"f"`
}

// PIDProfile PID 档位
type PIDProfile struct {
	PID                    [PIDItemCount]PIDGains `cbor:"pid" yaml:"pid" json:"pid"`
	DtermLowpassHz         uint16                 `cbor:"dtermLowpassHz" yaml:"dtermLowpassHz" json:"dtermLowpassHz"`
	DtermLowpass2Hz        uint16                 `cbor:"dtermLowpass2Hz" yaml:"dtermLowpass2Hz" json:"dtermLowpass2Hz"`
	YawLowpassHz           uint16                 `cbor:"yawLowpassHz" yaml:"yawLowpassHz" json:"yawLowpassHz"`
	DtermNotchHz           uint16                 `cbor:"dtermNotchHz" yaml:"dtermNotchHz" json:"dtermNotchHz"`
	DtermNotchCutoff       uint16                 `cbor:"dtermNotchCutoff" yaml:"dtermNotchCutoff" json:"dtermNotchCutoff"`
	DtermFilterType        uint8                  `cbor:"dtermFilterType" yaml:"dtermFilterType" json:"dtermFilterType"`
	DtermFilter2Type       uint8                  `cbor:"dtermFilter2Type" yaml:"dtermFilter2Type" json:"dtermFilter2Type"`
	DynLPFDtermMinHz       uint16                 `cbor:"dynLpfDtermMinHz" yaml:"dynLpfDtermMinHz" json:"dynLpfDtermMinHz"`
	DynLPFDtermMaxHz       uint16                 `cbor:"dynLpfDtermMaxHz" yaml:"dynLpfDtermMaxHz" json:"dynLpfDtermMaxHz"`
	VbatPIDCompensation    uint8                  `cbor:"vbatPidCompensation" yaml:"vbatPidCompensation" json:"vbatPidCompensation"`
	FeedForwardTransition  uint8                  `cbor:"feedForwardTransition" yaml:"feedForwardTransition" json:"feedForwardTransition"`
	RateAccelLimit         uint16                 `cbor:"rateAccelLimit" yaml:"rateAccelLimit" json:"rateAccelLimit"`
	YawRateAccelLimit      uint16                 `cbor:"yawRateAccelLimit" yaml:"yawRateAccelLimit" json:"yawRateAccelLimit"`
	LevelAngleLimit        uint8                  `cbor:"levelAngleLimit" yaml:"levelAngleLimit" json:"levelAngleLimit"`
	ItermThrottleThreshold uint16                 `cbor:"itermThrottleThreshold" yaml:"itermThrottleThreshold" json:"itermThrottleThreshold"`
	ItermAcceleratorGain   uint16                 `cbor:"itermAcceleratorGain" yaml:"itermAcceleratorGain" json:"itermAcceleratorGain"`
	ItermRotation          uint8                  `cbor:"itermRotation" yaml:"itermRotation" json:"itermRotation"`
	SmartFeedforward       uint8                  `cbor:"smartFeedforward" yaml:"smartFeedforward" json:"smartFeedforward"`
	ItermRelax             uint8                  `cbor:"itermRelax" yaml:"itermRelax" json:"itermRelax"`
	ItermRelaxType         uint8                  `cbor:"itermRelaxType" yaml:"itermRelaxType" json:"itermRelaxType"`
	AbsControlGain         uint8                  `cbor:"absControlGain" yaml:"absControlGain" json:"absControlGain"`
	ThrottleBoost          uint8                  `cbor:"throttleBoost" yaml:"throttleBoost" json:"throttleBoost"`
	AcroTrainerAngleLimit  uint8                  `cbor:"acroTrainerAngleLimit" yaml:"acroTrainerAngleLimit" json:"acroTrainerAngleLimit"`
	AntiGravityMode        uint8                  `cbor:"antiGravityMode" yaml:"antiGravityMode" json:"antiGravityMode"`
	DMin                   [3]uint8               `cbor:"dMin" yaml:"dMin" json:"dMin"`
	DMinGain               uint8                  `cbor:"dMinGain" yaml:"dMinGain" json:"dMinGain"`
	DMinAdvance            uint8                  `cbor:"dMinAdvance" yaml:"dMinAdvance" json:"dMinAdvance"`
	UseIntegratedYaw       uint8                  `cbor:"useIntegratedYaw" yaml:"useIntegratedYaw" json:"useIntegratedYaw"`
	IntegratedYawRelax     uint8                  `cbor:"integratedYawRelax" yaml:"integratedYawRelax" json:"integratedYawRelax"`
}

// 轴索引
const (
	AxisRoll  = 0
	AxisPitch = 1
	AxisYaw   = 2
)

// RateProfile 摇杆速率档位
type RateProfile struct {
	RCRates              [3]uint8 `cbor:"rcRates" yaml:"rcRates" json:"rcRates"`
	RCExpo               [3]uint8 `cbor:"rcExpo" yaml:"rcExpo" json:"rcExpo"`
	Rates                [3]uint8 `cbor:"rates" yaml:"rates" json:"rates"`
	DynThrPID            uint8    `cbor:"dynThrPid" yaml:"dynThrPid" json:"dynThrPid"`
	ThrMid8              uint8    `cbor:"thrMid8" yaml:"thrMid8" json:"thrMid8"`
	ThrExpo8             uint8    `cbor:"thrExpo8" yaml:"thrExpo8" json:"thrExpo8"`
	TPABreakpoint        uint16   `cbor:"tpaBreakpoint" yaml:"tpaBreakpoint" json:"tpaBreakpoint"`
	ThrottleLimitType    uint8    `cbor:"throttleLimitType" yaml:"throttleLimitType" json:"throttleLimitType"`
	ThrottleLimitPercent uint8    `cbor:"throttleLimitPercent" yaml:"throttleLimitPercent" json:"throttleLimitPercent"`
}

// ModeCondition 模式激活条件（ModeID/LinkedTo 为 box id）
type ModeCondition struct {
	ModeID          uint8 `cbor:"modeId" yaml:"modeId" json:"modeId"`
	AuxChannelIndex uint8 `cbor:"auxChannel" yaml:"auxChannel" json:"auxChannel"`
	StartStep       uint8 `cbor:"startStep" yaml:"startStep" json:"startStep"`
	EndStep         uint8 `cbor:"endStep" yaml:"endStep" json:"endStep"`
	ModeLogic       uint8 `cbor:"modeLogic" yaml:"modeLogic" json:"modeLogic"`
	LinkedTo        uint8 `cbor:"linkedTo" yaml:"linkedTo" json:"linkedTo"`
}

// AdjustmentRange 飞行中调参通道
type AdjustmentRange struct {
	AdjustmentIndex       uint8 `cbor:"adjustmentIndex" yaml:"adjustmentIndex" json:"adjustmentIndex"`
	AuxChannelIndex       uint8 `cbor:"auxChannel" yaml:"auxChannel" json:"auxChannel"`
	StartStep             uint8 `cbor:"startStep" yaml:"startStep" json:"startStep"`
	EndStep               uint8 `cbor:"endStep" yaml:"endStep" json:"endStep"`
	AdjustmentConfig      uint8 `cbor:"adjustmentConfig" yaml:"adjustmentConfig" json:"adjustmentConfig"`
	AuxSwitchChannelIndex uint8 `cbor:"auxSwitchChannel" yaml:"auxSwitchChannel" json:"auxSwitchChannel"`
}

// MotorConfig 电机
type MotorConfig struct {
	MinThrottle       uint16 `cbor:"minThrottle" yaml:"minThrottle" json:"minThrottle"`
	MaxThrottle       uint16 `cbor:"maxThrottle" yaml:"maxThrottle" json:"maxThrottle"`
	MinCommand        uint16 `cbor:"minCommand" yaml:"minCommand" json:"minCommand"`
	UseUnsyncedPWM    uint8  `cbor:"useUnsyncedPwm" yaml:"useUnsyncedPwm" json:"useUnsyncedPwm"`
	PWMProtocol       uint8  `cbor:"pwmProtocol" yaml:"pwmProtocol" json:"pwmProtocol"`
	PWMRate           uint16 `cbor:"pwmRate" yaml:"pwmRate" json:"pwmRate"`
	DigitalIdleOffset uint16 `cbor:"digitalIdleOffset" yaml:"digitalIdleOffset" json:"digitalIdleOffset"`
	PWMInversion      uint8  `cbor:"pwmInversion" yaml:"pwmInversion" json:"pwmInversion"`
}

// MixerConfig 混控
type MixerConfig struct {
	Mode              uint8 `cbor:"mode" yaml:"mode" json:"mode"`
	YawMotorsReversed uint8 `cbor:"yawMotorsReversed" yaml:"yawMotorsReversed" json:"yawMotorsReversed"`
}

// ServoParam 舵机参数
type ServoParam struct {
	Min                uint16 `cbor:"min" yaml:"min" json:"min"`
	Max                uint16 `cbor:"max" yaml:"max" json:"max"`
	Middle             uint16 `cbor:"middle" yaml:"middle" json:"middle"`
	Rate               uint8  `cbor:"rate" yaml:"rate" json:"rate"`
	ForwardFromChannel uint8  `cbor:"forwardFromChannel" yaml:"forwardFromChannel" json:"forwardFromChannel"`
	ReversedSources    uint32 `cbor:"reversedSources" yaml:"reversedSources" json:"reversedSources"`
}

// ServoMixer 舵机混控规则
type ServoMixer struct {
	TargetChannel uint8 `cbor:"targetChannel" yaml:"targetChannel" json:"targetChannel"`
	InputSource   uint8 `cbor:"inputSource" yaml:"inputSource" json:"inputSource"`
	Rate          uint8 `cbor:"rate" yaml:"rate" json:"rate"`
	Speed         uint8 `cbor:"speed" yaml:"speed" json:"speed"`
	Min           uint8 `cbor:"min" yaml:"min" json:"min"`
	Max           uint8 `cbor:"max" yaml:"max" json:"max"`
	Box           uint8 `cbor:"box" yaml:"box" json:"box"`
}

// RxConfig 接收机
type RxConfig struct {
	SerialRxProvider         uint8                    `cbor:"serialRxProvider" yaml:"serialRxProvider" json:"serialRxProvider"`
	MaxCheck                 uint16                   `cbor:"maxCheck" yaml:"maxCheck" json:"maxCheck"`
	MidRC                    uint16                   `cbor:"midRc" yaml:"midRc" json:"midRc"`
	MinCheck                 uint16                   `cbor:"minCheck" yaml:"minCheck" json:"minCheck"`
	SpektrumSatBind          uint8                    `cbor:"spektrumSatBind" yaml:"spektrumSatBind" json:"spektrumSatBind"`
	RxMinUsec                uint16                   `cbor:"rxMinUsec" yaml:"rxMinUsec" json:"rxMinUsec"`
	RxMaxUsec                uint16                   `cbor:"rxMaxUsec" yaml:"rxMaxUsec" json:"rxMaxUsec"`
	RCInterpolation          uint8                    `cbor:"rcInterpolation" yaml:"rcInterpolation" json:"rcInterpolation"`
	RCInterpolationInterval  uint8                    `cbor:"rcInterpolationInterval" yaml:"rcInterpolationInterval" json:"rcInterpolationInterval"`
	AirModeActivateThreshold uint8                    `cbor:"airModeActivateThreshold" yaml:"airModeActivateThreshold" json:"airModeActivateThreshold"`
	RxSPIProtocol            uint8                    `cbor:"rxSpiProtocol" yaml:"rxSpiProtocol" json:"rxSpiProtocol"`
	RxSPIID                  uint32                   `cbor:"rxSpiId" yaml:"rxSpiId" json:"rxSpiId"`
	RxSPIRFChannelCount      uint8                    `cbor:"rxSpiRfChannelCount" yaml:"rxSpiRfChannelCount" json:"rxSpiRfChannelCount"`
	FPVCamAngleDegrees       uint8                    `cbor:"fpvCamAngleDegrees" yaml:"fpvCamAngleDegrees" json:"fpvCamAngleDegrees"`
	RCInterpolationChannels  uint8                    `cbor:"rcInterpolationChannels" yaml:"rcInterpolationChannels" json:"rcInterpolationChannels"`
	RCSmoothingType          uint8                    `cbor:"rcSmoothingType" yaml:"rcSmoothingType" json:"rcSmoothingType"`
	RCSmoothingInputCutoff   uint8                    `cbor:"rcSmoothingInputCutoff" yaml:"rcSmoothingInputCutoff" json:"rcSmoothingInputCutoff"`
	RCSmoothingDerivCutoff   uint8                    `cbor:"rcSmoothingDerivCutoff" yaml:"rcSmoothingDerivCutoff" json:"rcSmoothingDerivCutoff"`
	RCSmoothingInputType     uint8                    `cbor:"rcSmoothingInputType" yaml:"rcSmoothingInputType" json:"rcSmoothingInputType"`
	RCSmoothingDerivType     uint8                    `cbor:"rcSmoothingDerivType" yaml:"rcSmoothingDerivType" json:"rcSmoothingDerivType"`
	USBType                  uint8                    `cbor:"usbType" yaml:"usbType" json:"usbType"`
	RSSIChannel              uint8                    `cbor:"rssiChannel" yaml:"rssiChannel" json:"rssiChannel"`
	RCMap                    [RxMappableChannels]uint8 `cbor:"rcMap" yaml:"rcMap" json:"rcMap"`
}

// RxFailChannel 单通道失控设置
type RxFailChannel struct {
	Mode uint8 `cbor:"mode" yaml:"mode" json:"mode"`
	Step uint8 `cbor:"step" yaml:"step" json:"step"`
}

// FailsafeConfig 失控保护
type FailsafeConfig struct {
	Delay            uint8  `cbor:"delay" yaml:"delay" json:"delay"`
	OffDelay         uint8  `cbor:"offDelay" yaml:"offDelay" json:"offDelay"`
	Throttle         uint16 `cbor:"throttle" yaml:"throttle" json:"throttle"`
	SwitchMode       uint8  `cbor:"switchMode" yaml:"switchMode" json:"switchMode"`
	ThrottleLowDelay uint16 `cbor:"throttleLowDelay" yaml:"throttleLowDelay" json:"throttleLowDelay"`
	Procedure        uint8  `cbor:"procedure" yaml:"procedure" json:"procedure"`
}

// SerialPortConfig 串口功能分配
type SerialPortConfig struct {
	Identifier    uint8  `cbor:"identifier" yaml:"identifier" json:"identifier"`
	FunctionMask  uint16 `cbor:"functionMask" yaml:"functionMask" json:"functionMask"`
	MSPBaud       uint8  `cbor:"mspBaud" yaml:"mspBaud" json:"mspBaud"`
	GPSBaud       uint8  `cbor:"gpsBaud" yaml:"gpsBaud" json:"gpsBaud"`
	TelemetryBaud uint8  `cbor:"telemetryBaud" yaml:"telemetryBaud" json:"telemetryBaud"`
	BlackboxBaud  uint8  `cbor:"blackboxBaud" yaml:"blackboxBaud" json:"blackboxBaud"`
}

// HSVColor 颜色
type HSVColor struct {
	H uint16 `cbor:"h" yaml:"h" json:"h"`
	S uint8  `cbor:"s" yaml:"s" json:"s"`
	V uint8  `cbor:"v" yaml:"v" json:"v"`
}

// LedStripConfig 灯带
type LedStripConfig struct {
	LedConfigs    [LedMaxStripLength]uint32                 `cbor:"ledConfigs" yaml:"ledConfigs" json:"ledConfigs"`
	Colors        [LedConfigurableColorCount]HSVColor       `cbor:"colors" yaml:"colors" json:"colors"`
	ModeColors    [LedModeCount][LedDirectionCount]uint8    `cbor:"modeColors" yaml:"modeColors" json:"modeColors"`
	SpecialColors [LedSpecialColorCount]uint8               `cbor:"specialColors" yaml:"specialColors" json:"specialColors"`
	AuxChannel    uint8                                     `cbor:"auxChannel" yaml:"auxChannel" json:"auxChannel"`
	Profile       uint8                                     `cbor:"profile" yaml:"profile" json:"profile"`
}

// SetModeColor 设置模式颜色，索引越界返回 false
func (l *LedStripConfig) SetModeColor(mode, fn, color int) bool {
	if color < 0 || color >= LedConfigurableColorCount {
		return false
	}
	switch {
	case mode >= 0 && mode < LedModeCount:
		if fn < 0 || fn >= LedDirectionCount {
			return false
		}
		l.ModeColors[mode][fn] = uint8(color)
	case mode == LedModeCount:
		if fn < 0 || fn >= LedSpecialColorCount {
			return false
		}
		l.SpecialColors[fn] = uint8(color)
	case mode == LedAuxChannel:
		if fn != 0 {
			return false
		}
		l.AuxChannel = uint8(color)
	default:
		return false
	}
	return true
}

// BlackboxConfig 黑匣子
type BlackboxConfig struct {
	Device uint8  `cbor:"device" yaml:"device" json:"device"`
	PRatio uint16 `cbor:"pRatio" yaml:"pRatio" json:"pRatio"`
}

// RateDenom 由 p_ratio 推导的采样分频
func (b BlackboxConfig) RateDenom() uint8 {
	if b.PRatio == 0 || b.PRatio > 255 {
		return 1
	}
	return uint8(b.PRatio)
}

// CalculatePDenom 旧协议 rate_num/rate_denom 换算 p_ratio
func CalculatePDenom(rateNum, rateDenom int) uint16 {
	if rateNum <= 0 {
		return 0
	}
	return uint16(rateDenom / rateNum)
}

// GPSConfig GPS
type GPSConfig struct {
	Provider   uint8 `cbor:"provider" yaml:"provider" json:"provider"`
	SBASMode   uint8 `cbor:"sbasMode" yaml:"sbasMode" json:"sbasMode"`
	AutoConfig uint8 `cbor:"autoConfig" yaml:"autoConfig" json:"autoConfig"`
	AutoBaud   uint8 `cbor:"autoBaud" yaml:"autoBaud" json:"autoBaud"`
}

// GPSRescueConfig GPS 救援
type GPSRescueConfig struct {
	Angle             uint16 `cbor:"angle" yaml:"angle" json:"angle"`
	InitialAltitudeM  uint16 `cbor:"initialAltitudeM" yaml:"initialAltitudeM" json:"initialAltitudeM"`
	DescentDistanceM  uint16 `cbor:"descentDistanceM" yaml:"descentDistanceM" json:"descentDistanceM"`
	RescueGroundspeed uint16 `cbor:"rescueGroundspeed" yaml:"rescueGroundspeed" json:"rescueGroundspeed"`
	ThrottleMin       uint16 `cbor:"throttleMin" yaml:"throttleMin" json:"throttleMin"`
	ThrottleMax       uint16 `cbor:"throttleMax" yaml:"throttleMax" json:"throttleMax"`
	ThrottleHover     uint16 `cbor:"throttleHover" yaml:"throttleHover" json:"throttleHover"`
	SanityChecks      uint8  `cbor:"sanityChecks" yaml:"sanityChecks" json:"sanityChecks"`
	MinSats           uint8  `cbor:"minSats" yaml:"minSats" json:"minSats"`
	ThrottleP         uint16 `cbor:"throttleP" yaml:"throttleP" json:"throttleP"`
	ThrottleI         uint16 `cbor:"throttleI" yaml:"throttleI" json:"throttleI"`
	ThrottleD         uint16 `cbor:"throttleD" yaml:"throttleD" json:"throttleD"`
	VelP              uint16 `cbor:"velP" yaml:"velP" json:"velP"`
	VelI              uint16 `cbor:"velI" yaml:"velI" json:"velI"`
	VelD              uint16 `cbor:"velD" yaml:"velD" json:"velD"`
	YawP              uint16 `cbor:"yawP" yaml:"yawP" json:"yawP"`
}

// CompassConfig 磁罗盘（磁偏角单位 0.1 分）
type CompassConfig struct {
	MagDeclination int16 `cbor:"magDeclination" yaml:"magDeclination" json:"magDeclination"`
	MagAlign       uint8 `cbor:"magAlign" yaml:"magAlign" json:"magAlign"`
	MagHardware    uint8 `cbor:"magHardware" yaml:"magHardware" json:"magHardware"`
}

// AccConfig 加速度计
type AccConfig struct {
	TrimPitch int16 `cbor:"trimPitch" yaml:"trimPitch" json:"trimPitch"`
	TrimRoll  int16 `cbor:"trimRoll" yaml:"trimRoll" json:"trimRoll"`
	Hardware  uint8 `cbor:"hardware" yaml:"hardware" json:"hardware"`
}

// BaroConfig 气压计
type BaroConfig struct {
	Hardware uint8 `cbor:"hardware" yaml:"hardware" json:"hardware"`
}

// BoardAlignment 板卡安装角
type BoardAlignment struct {
	RollDegrees  int16 `cbor:"roll" yaml:"roll" json:"roll"`
	PitchDegrees int16 `cbor:"pitch" yaml:"pitch" json:"pitch"`
	YawDegrees   int16 `cbor:"yaw" yaml:"yaw" json:"yaw"`
}

// GyroConfig 陀螺仪与滤波
type GyroConfig struct {
	SyncDenom                    uint8    `cbor:"syncDenom" yaml:"syncDenom" json:"syncDenom"`
	LowpassHz                    uint16   `cbor:"lowpassHz" yaml:"lowpassHz" json:"lowpassHz"`
	Lowpass2Hz                   uint16   `cbor:"lowpass2Hz" yaml:"lowpass2Hz" json:"lowpass2Hz"`
	LowpassType                  uint8    `cbor:"lowpassType" yaml:"lowpassType" json:"lowpassType"`
	Lowpass2Type                 uint8    `cbor:"lowpass2Type" yaml:"lowpass2Type" json:"lowpass2Type"`
	SoftNotchHz1                 uint16   `cbor:"softNotchHz1" yaml:"softNotchHz1" json:"softNotchHz1"`
	SoftNotchCutoff1             uint16   `cbor:"softNotchCutoff1" yaml:"softNotchCutoff1" json:"softNotchCutoff1"`
	SoftNotchHz2                 uint16   `cbor:"softNotchHz2" yaml:"softNotchHz2" json:"softNotchHz2"`
	SoftNotchCutoff2             uint16   `cbor:"softNotchCutoff2" yaml:"softNotchCutoff2" json:"softNotchCutoff2"`
	HardwareLPF                  uint8    `cbor:"hardwareLpf" yaml:"hardwareLpf" json:"hardwareLpf"`
	ToUse                        uint8    `cbor:"toUse" yaml:"toUse" json:"toUse"`
	HighFSR                      uint8    `cbor:"highFsr" yaml:"highFsr" json:"highFsr"`
	MovementCalibrationThreshold uint8    `cbor:"movementCalibrationThreshold" yaml:"movementCalibrationThreshold" json:"movementCalibrationThreshold"`
	CalibrationDuration          uint16   `cbor:"calibrationDuration" yaml:"calibrationDuration" json:"calibrationDuration"`
	OffsetYaw                    int16    `cbor:"offsetYaw" yaml:"offsetYaw" json:"offsetYaw"`
	CheckOverflow                uint8    `cbor:"checkOverflow" yaml:"checkOverflow" json:"checkOverflow"`
	DynLPFMinHz                  uint16   `cbor:"dynLpfMinHz" yaml:"dynLpfMinHz" json:"dynLpfMinHz"`
	DynLPFMaxHz                  uint16   `cbor:"dynLpfMaxHz" yaml:"dynLpfMaxHz" json:"dynLpfMaxHz"`
	Align                        [2]uint8 `cbor:"align" yaml:"align" json:"align"`
}

// PIDConfig PID 循环分频
type PIDConfig struct {
	ProcessDenom uint8 `cbor:"processDenom" yaml:"processDenom" json:"processDenom"`
}

// Flight3DConfig 3D 模式
type Flight3DConfig struct {
	DeadbandLow      uint16 `cbor:"deadbandLow" yaml:"deadbandLow" json:"deadbandLow"`
	DeadbandHigh     uint16 `cbor:"deadbandHigh" yaml:"deadbandHigh" json:"deadbandHigh"`
	Neutral          uint16 `cbor:"neutral" yaml:"neutral" json:"neutral"`
	DeadbandThrottle uint16 `cbor:"deadbandThrottle" yaml:"deadbandThrottle" json:"deadbandThrottle"`
}

// RCControlsConfig 摇杆死区
type RCControlsConfig struct {
	Deadband        uint8 `cbor:"deadband" yaml:"deadband" json:"deadband"`
	YawDeadband     uint8 `cbor:"yawDeadband" yaml:"yawDeadband" json:"yawDeadband"`
	AltHoldDeadband uint8 `cbor:"altHoldDeadband" yaml:"altHoldDeadband" json:"altHoldDeadband"`
}

// ArmingConfig 解锁
type ArmingConfig struct {
	AutoDisarmDelay uint8 `cbor:"autoDisarmDelay" yaml:"autoDisarmDelay" json:"autoDisarmDelay"`
	SmallAngle      uint8 `cbor:"smallAngle" yaml:"smallAngle" json:"smallAngle"`
}

// VTXSettings 图传
type VTXSettings struct {
	Band           uint8  `cbor:"band" yaml:"band" json:"band"`
	Channel        uint8  `cbor:"channel" yaml:"channel" json:"channel"`
	Power          uint8  `cbor:"power" yaml:"power" json:"power"`
	Freq           uint16 `cbor:"freq" yaml:"freq" json:"freq"`
	LowPowerDisarm uint8  `cbor:"lowPowerDisarm" yaml:"lowPowerDisarm" json:"lowPowerDisarm"`
}

// TimeConfig 时区
type TimeConfig struct {
	TZOffsetMinutes int16 `cbor:"tzOffsetMinutes" yaml:"tzOffsetMinutes" json:"tzOffsetMinutes"`
}

// Clone 深拷贝
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.SerialPorts = append([]SerialPortConfig(nil), c.SerialPorts...)
	cp.Board.Signature = append([]byte(nil), c.Board.Signature...)
	return &cp
}

// SerialPort 按标识查找串口配置
func (c *Config) SerialPort(id uint8) *SerialPortConfig {
	for i := range c.SerialPorts {
		if c.SerialPorts[i].Identifier == id {
			return &c.SerialPorts[i]
		}
	}
	return nil
}
