package fc

// BoxID 模式开关（内部编号，按声明顺序）
type BoxID uint8

const (
	BoxArm BoxID = iota
	BoxAngle
	BoxHorizon
	BoxMag
	BoxHeadFree
	BoxPassthru
	BoxFailsafe
	BoxGPSRescue
	BoxAntiGravity
	BoxHeadAdj
	BoxCamStab
	BoxBeeperOn
	BoxLedLow
	BoxCalib
	BoxOSD
	BoxTelemetry
	BoxServo1
	BoxServo2
	BoxServo3
	BoxBlackbox
	BoxAirMode
	Box3D
	BoxFPVAngleMix
	BoxBlackboxErase
	BoxCamera1
	BoxCamera2
	BoxCamera3
	BoxFlipOverAfterCrash
	BoxPrearm
	BoxBeepGPSCount
	BoxVTXPitMode
	BoxParalyze
	BoxUser1
	BoxUser2
	BoxUser3
	BoxUser4
	BoxPIDAudio
	BoxAcroTrainer
	BoxVTXControlDisable
	BoxLaunchControl
	BoxCount
)

// BoxInfo 模式名与对外永久编号
type BoxInfo struct {
	ID          BoxID
	Name        string
	PermanentID uint8
}

var boxTable = [BoxCount]BoxInfo{
	{BoxArm, "ARM", 0},
	{BoxAngle, "ANGLE", 1},
	{BoxHorizon, "HORIZON", 2},
	{BoxMag, "MAG", 5},
	{BoxHeadFree, "HEADFREE", 6},
	{BoxPassthru, "PASSTHRU", 12},
	{BoxFailsafe, "FAILSAFE", 27},
	{BoxGPSRescue, "GPS RESCUE", 46},
	{BoxAntiGravity, "ANTI GRAVITY", 4},
	{BoxHeadAdj, "HEADADJ", 7},
	{BoxCamStab, "CAMSTAB", 8},
	{BoxBeeperOn, "BEEPER", 13},
	{BoxLedLow, "LEDLOW", 15},
	{BoxCalib, "CALIB", 17},
	{BoxOSD, "OSD DISABLE SW", 19},
	{BoxTelemetry, "TELEMETRY", 20},
	{BoxServo1, "SERVO1", 23},
	{BoxServo2, "SERVO2", 24},
	{BoxServo3, "SERVO3", 25},
	{BoxBlackbox, "BLACKBOX", 26},
	{BoxAirMode, "AIR MODE", 28},
	{Box3D, "3D DISABLE / SWITCH", 29},
	{BoxFPVAngleMix, "FPV ANGLE MIX", 30},
	{BoxBlackboxErase, "BLACKBOX ERASE (>30s)", 31},
	{BoxCamera1, "CAMERA CONTROL 1", 32},
	{BoxCamera2, "CAMERA CONTROL 2", 33},
	{BoxCamera3, "CAMERA CONTROL 3", 34},
	{BoxFlipOverAfterCrash, "FLIP OVER AFTER CRASH", 35},
	{BoxPrearm, "PREARM", 36},
	{BoxBeepGPSCount, "BEEP GPS SATELLITE COUNT", 37},
	{BoxVTXPitMode, "VTX PIT MODE", 39},
	{BoxParalyze, "PARALYZE", 45},
	{BoxUser1, "USER1", 40},
	{BoxUser2, "USER2", 41},
	{BoxUser3, "USER3", 42},
	{BoxUser4, "USER4", 43},
	{BoxPIDAudio, "PID AUDIO", 44},
	{BoxAcroTrainer, "ACRO TRAINER", 47},
	{BoxVTXControlDisable, "DISABLE VTX CONTROL", 48},
	{BoxLaunchControl, "LAUNCH CONTROL", 49},
}

// Box 按内部编号查表
func Box(id BoxID) (BoxInfo, bool) {
	if id >= BoxCount {
		return BoxInfo{}, false
	}
	return boxTable[id], true
}

// BoxByPermanentID 按永久编号查表
func BoxByPermanentID(pid uint8) (BoxInfo, bool) {
	for _, b := range boxTable {
		if b.PermanentID == pid {
			return b, true
		}
	}
	return BoxInfo{}, false
}

// 特性位
const (
	FeatureRxPPM          = 1 << 0
	FeatureInflightAccCal = 1 << 2
	FeatureRxSerial       = 1 << 3
	FeatureMotorStop      = 1 << 4
	FeatureServoTilt      = 1 << 5
	FeatureSoftSerial     = 1 << 6
	FeatureGPS            = 1 << 7
	FeatureRangefinder    = 1 << 9
	FeatureTelemetry      = 1 << 10
	Feature3D             = 1 << 12
	FeatureRxParallelPWM  = 1 << 13
	FeatureRxMSP          = 1 << 14
	FeatureRSSIADC        = 1 << 15
	FeatureLedStrip       = 1 << 16
	FeatureDashboard      = 1 << 17
	FeatureOSD            = 1 << 18
	FeatureChannelForward = 1 << 20
	FeatureTransponder    = 1 << 21
	FeatureAirMode        = 1 << 22
	FeatureRxSPI          = 1 << 25
	FeatureESCSensor      = 1 << 27
	FeatureAntiGravity    = 1 << 28
	FeatureDynamicFilter  = 1 << 29
)

// ActiveBoxes 按当前能力/特性/传感器计算可用模式（按内部编号升序）
func (c *Context) ActiveBoxes() []BoxID {
	var ena [BoxCount]bool
	caps := c.Caps
	features := c.Config.Features
	sensors := c.State.Sensors

	ena[BoxArm] = true
	ena[BoxPrearm] = true
	ena[BoxAirMode] = true
	ena[BoxAntiGravity] = features&FeatureAntiGravity == 0
	if sensors.Acc {
		ena[BoxAngle] = true
		ena[BoxHorizon] = true
		ena[BoxHeadFree] = true
	}
	if caps.Mag && sensors.Mag {
		ena[BoxMag] = true
		ena[BoxHeadAdj] = true
	}
	if caps.GPS && features&FeatureGPS != 0 {
		ena[BoxGPSRescue] = caps.GPSRescue
		ena[BoxBeepGPSCount] = true
	}
	ena[BoxFailsafe] = true
	if c.Config.Mixer.Mode == MixerFlyingWing || c.Config.Mixer.Mode == MixerAirplane {
		ena[BoxPassthru] = true
	}
	ena[BoxFPVAngleMix] = true
	if features&Feature3D != 0 {
		ena[Box3D] = true
	}
	if caps.Beeper {
		ena[BoxBeeperOn] = true
	}
	if caps.LedStrip && features&FeatureLedStrip != 0 {
		ena[BoxLedLow] = true
	}
	if caps.Blackbox {
		ena[BoxBlackbox] = true
		ena[BoxBlackboxErase] = caps.Flash
	}
	if caps.OSD && features&FeatureOSD != 0 {
		ena[BoxOSD] = true
	}
	if features&FeatureTelemetry != 0 {
		ena[BoxTelemetry] = true
	}
	if caps.Servos && features&FeatureServoTilt != 0 {
		ena[BoxCamStab] = true
	}
	if caps.Servos && c.Config.Mixer.Mode == MixerCustomAirplane {
		ena[BoxServo1] = true
		ena[BoxServo2] = true
		ena[BoxServo3] = true
	}
	if caps.CameraControl {
		ena[BoxCamera1] = true
		ena[BoxCamera2] = true
		ena[BoxCamera3] = true
	}
	if caps.Dshot && caps.FlipOverCrash {
		ena[BoxFlipOverAfterCrash] = true
	}
	if caps.VTX {
		ena[BoxVTXPitMode] = true
		ena[BoxVTXControlDisable] = true
	}
	ena[BoxParalyze] = true
	if caps.Pinio {
		ena[BoxUser1] = true
		ena[BoxUser2] = true
		ena[BoxUser3] = true
		ena[BoxUser4] = true
	}
	ena[BoxPIDAudio] = caps.PIDAudio
	ena[BoxAcroTrainer] = caps.AcroTrainer
	ena[BoxLaunchControl] = caps.LaunchControl

	out := make([]BoxID, 0, BoxCount)
	for i := BoxID(0); i < BoxCount; i++ {
		if ena[i] {
			out = append(out, i)
		}
	}
	return out
}

// IsBoxActive 模式是否在当前可用集合内
func (c *Context) IsBoxActive(id BoxID) bool {
	for _, b := range c.ActiveBoxes() {
		if b == id {
			return true
		}
	}
	return false
}

// FlightModeFlags 按可用模式顺序打包当前开启的模式位，返回位图与有效位数
func (c *Context) FlightModeFlags() ([]byte, int) {
	active := c.ActiveBoxes()
	bits := make([]byte, (len(active)+7)/8)
	for j, id := range active {
		on := c.State.ModeActive[id]
		if id == BoxArm {
			on = c.State.Armed
		}
		if on {
			bits[j/8] |= 1 << uint(j%8)
		}
	}
	return bits, len(active)
}

// 混控类型
const (
	MixerTri            = 1
	MixerQuadP          = 2
	MixerQuadX          = 3
	MixerFlyingWing     = 8
	MixerAirplane       = 14
	MixerCustomAirplane = 24
)
