package fc

import "fmt"

// Identity 固件与板卡的只读标识
type Identity struct {
	BoardIdentifier  string    `mapstructure:"boardIdentifier" yaml:"boardIdentifier" json:"boardIdentifier"`
	TargetName       string    `mapstructure:"targetName" yaml:"targetName" json:"targetName"`
	HardwareRevision uint16    `mapstructure:"hardwareRevision" yaml:"hardwareRevision" json:"hardwareRevision"`
	BuildDate        string    `mapstructure:"buildDate" yaml:"buildDate" json:"buildDate"`
	BuildTime        string    `mapstructure:"buildTime" yaml:"buildTime" json:"buildTime"`
	GitRevision      string    `mapstructure:"gitRevision" yaml:"gitRevision" json:"gitRevision"`
	MCUTypeID        uint8     `mapstructure:"mcuTypeId" yaml:"mcuTypeId" json:"mcuTypeId"`
	UID              [3]uint32 `mapstructure:"uid" yaml:"uid" json:"uid"`
}

// DefaultIdentity 默认标识
func DefaultIdentity() Identity {
	return Identity{
		BoardIdentifier: "S405",
		TargetName:      "STM32F405",
		BuildDate:       "Oct 19 2026",
		BuildTime:       "12:00:00",
		GitRevision:     "0000000",
		MCUTypeID:       2,
		UID:             [3]uint32{0x00300031, 0x34375111, 0x32383935},
	}
}

// UIDString MCU UID 的十六进制表示，用作板卡持久化主键
func (id Identity) UIDString() string {
	return fmt.Sprintf("%08x%08x%08x", id.UID[0], id.UID[1], id.UID[2])
}

// Attitude 姿态（角度单位 0.1°）
type Attitude struct {
	Roll  int16 `json:"roll"`
	Pitch int16 `json:"pitch"`
	Yaw   int16 `json:"yaw"`
}

// GPSSVInfo 卫星信息
type GPSSVInfo struct {
	Channel uint8 `json:"channel"`
	SVID    uint8 `json:"svid"`
	Quality uint8 `json:"quality"`
	CNO     uint8 `json:"cno"`
}

// GPSState GPS 实时数据
type GPSState struct {
	Fix             bool        `json:"fix"`
	NumSat          uint8       `json:"numSat"`
	Lat             int32       `json:"lat"`
	Lon             int32       `json:"lon"`
	AltitudeCm      int32       `json:"altitudeCm"`
	GroundSpeed     uint16      `json:"groundSpeed"`
	GroundCourse    uint16      `json:"groundCourse"`
	DistanceToHome  uint16      `json:"distanceToHome"`
	DirectionToHome int16       `json:"directionToHome"`
	Update          uint8       `json:"update"`
	SVs             []GPSSVInfo `json:"svs"`
}

// BatteryState 电池实时数据
type BatteryState struct {
	CellCount  uint8  `json:"cellCount"`
	VoltageCV  uint16 `json:"voltageCv"`
	MAhDrawn   int32  `json:"mahDrawn"`
	AmperageCA int32  `json:"amperageCa"`
	State      uint8  `json:"state"`
}

// VoltageMeter 电压计读数（0.01V）
type VoltageMeter struct {
	ID       uint8  `json:"id"`
	Filtered uint16 `json:"filtered"`
}

// CurrentMeter 电流计读数（0.01A）
type CurrentMeter struct {
	ID       uint8 `json:"id"`
	MAhDrawn int32 `json:"mahDrawn"`
	Amperage int32 `json:"amperage"`
}

// ESCTelemetry 电调遥测
type ESCTelemetry struct {
	Temperature uint8  `json:"temperature"`
	RPM         uint16 `json:"rpm"`
}

// SensorSet 已检测到的传感器
type SensorSet struct {
	Acc         bool `json:"acc"`
	Baro        bool `json:"baro"`
	Mag         bool `json:"mag"`
	GPS         bool `json:"gps"`
	Rangefinder bool `json:"rangefinder"`
	Gyro        bool `json:"gyro"`
}

// Bits 按 STATUS 应答的位序打包
func (s SensorSet) Bits() uint16 {
	var v uint16
	for i, on := range []bool{s.Acc, s.Baro, s.Mag, s.GPS, s.Rangefinder, s.Gyro} {
		if on {
			v |= 1 << uint(i)
		}
	}
	return v
}

// State 运行时状态（不持久化）
type State struct {
	Armed              bool                         `json:"armed"`
	ArmingDisableFlags uint32                       `json:"armingDisableFlags"`
	Sensors            SensorSet                    `json:"sensors"`
	CycleTime          uint16                       `json:"cycleTime"`
	I2CErrors          uint16                       `json:"i2cErrors"`
	SystemLoad         uint16                       `json:"systemLoad"`
	GyroDetection      uint8                        `json:"gyroDetection"`
	ModeActive         [BoxCount]bool               `json:"-"`
	Acc                [3]int16                     `json:"acc"`
	Gyro               [3]int16                     `json:"gyro"`
	Mag                [3]int16                     `json:"mag"`
	Attitude           Attitude                     `json:"attitude"`
	AltitudeCm         int32                        `json:"altitudeCm"`
	Vario              int16                        `json:"vario"`
	RangefinderCm      int32                        `json:"rangefinderCm"`
	MagHold            int16                        `json:"magHold"`
	MotorCount         int                          `json:"motorCount"`
	Motors             [MaxSupportedMotors]uint16   `json:"motors"`
	MotorsDisarmed     [MaxSupportedMotors]uint16   `json:"motorsDisarmed"`
	Servos             [MaxSupportedServos]uint16   `json:"servos"`
	RC                 [MaxSupportedRCChannel]uint16 `json:"rc"`
	RCChannelCount     int                          `json:"rcChannelCount"`
	RSSI               uint16                       `json:"rssi"`
	RSSISource         uint8                        `json:"rssiSource"`
	GPS                GPSState                     `json:"gps"`
	Battery            BatteryState                 `json:"battery"`
	VoltageMeters      []VoltageMeter               `json:"voltageMeters"`
	CurrentMeters      []CurrentMeter               `json:"currentMeters"`
	ESC                []ESCTelemetry               `json:"esc"`
	Debug              [Debug16ValueCount]int16     `json:"debug"`
	MSPCurrent         MSPCurrent                   `json:"mspCurrent"`
	CalibratingAcc     bool                         `json:"calibratingAcc"`
	CalibratingMag     bool                         `json:"calibratingMag"`
	BlackboxLogging    bool                         `json:"blackboxLogging"`
	TxInfoRSSIDbm      uint8                        `json:"txInfoRssiDbm"`
	RawRCFrames        uint64                       `json:"rawRcFrames"`
}

// MSPCurrent 经 MSP 上报的电流计
type MSPCurrent struct {
	Amperage uint16 `json:"amperage"`
	MAhDrawn uint16 `json:"mahDrawn"`
}

// NewState 上电初始状态
func NewState() *State {
	s := &State{
		Sensors:        SensorSet{Acc: true, Gyro: true},
		CycleTime:      125,
		MotorCount:     4,
		RCChannelCount: 8,
	}
	for i := range s.Motors {
		s.Motors[i] = 1000
		s.MotorsDisarmed[i] = 1000
	}
	for i := range s.Servos {
		s.Servos[i] = 1500
	}
	for i := range s.RC {
		s.RC[i] = 1500
	}
	s.VoltageMeters = []VoltageMeter{{ID: VoltageMeterIDBattery1}}
	s.CurrentMeters = []CurrentMeter{{ID: CurrentMeterIDBattery1}, {ID: CurrentMeterIDVirtual1}}
	return s
}

// Clone 拷贝（切片深拷贝）
func (s *State) Clone() State {
	cp := *s
	cp.GPS.SVs = append([]GPSSVInfo(nil), s.GPS.SVs...)
	cp.VoltageMeters = append([]VoltageMeter(nil), s.VoltageMeters...)
	cp.CurrentMeters = append([]CurrentMeter(nil), s.CurrentMeters...)
	cp.ESC = append([]ESCTelemetry(nil), s.ESC...)
	return cp
}
