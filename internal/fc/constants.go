package fc

// 固件标识与尺寸常量
const (
	FlightControllerIdentifier = "BTFL"
	FCVersionMajor             = 4
	FCVersionMinor             = 1
	FCVersionPatch             = 0

	BoardIdentifierLength   = 4
	BuildDateLength         = 11
	BuildTimeLength         = 8
	GitShortRevisionLength  = 7
	MaxNameLength           = 16
	MaxBoardNameLength      = 20
	MaxManufacturerIDLength = 4
	SignatureLength         = 32
)

// 数组上限（应答按固定步长输出，数量由这些上限隐含）
const (
	PIDProfileCount         = 3
	ControlRateProfileCount = 6
	PIDItemCount            = 10

	MaxModeActivationConditionCount = 20
	MaxAdjustmentRangeCount         = 15
	MaxSimultaneousAdjustmentCount  = 4

	MaxSupportedMotors    = 8
	MaxSupportedServos    = 8
	MaxServoRules         = 2 * MaxSupportedServos
	MaxSupportedRCChannel = 18
	RxMappableChannels    = 8
	Debug16ValueCount     = 4

	LedMaxStripLength         = 32
	LedConfigurableColorCount = 16
	LedModeCount              = 6
	LedDirectionCount         = 6
	LedSpecialColorCount      = 11
	LedAuxChannel             = 255

	OSDItemCount    = 56
	OSDStatCount    = 24
	OSDTimerCount   = 2
	OSDWarningCount = 16
	OSDProfileCount = 3

	TransponderDataLength = 9
	MaxGPSChannels        = 16
	ArmingDisableFlagsCnt = 20
)

// PIDNames PID 项名称，分号分隔
const PIDNames = "ROLL;PITCH;YAW;ALT;Pos;PosR;NavR;LEVEL;MAG;VEL;"

// PIDControllerBetaflight 唯一支持的 PID 控制器
const PIDControllerBetaflight = 1

// ControlRateTPAMax TPA 上限
const ControlRateTPAMax = 100

// 电压计 ID / 传感器类型
const (
	VoltageMeterIDBattery1 = 10
	VoltageMeterID12V1     = 20
	VoltageMeterID9V1      = 30
	VoltageMeterID5V1      = 40
	VoltageMeterIDESCBase  = 60

	VoltageSensorTypeADCResistorDivider = 0
	MaxVoltageSensorADC                 = 4
)

// VoltageMeterADCToID ADC 电压计索引到 ID 的映射
var VoltageMeterADCToID = [MaxVoltageSensorADC]uint8{
	VoltageMeterIDBattery1, VoltageMeterID12V1, VoltageMeterID9V1, VoltageMeterID5V1,
}

// 电流计 ID / 传感器类型
const (
	CurrentMeterIDBattery1   = 10
	CurrentMeterIDESCCombine = 50
	CurrentMeterIDVirtual1   = 80
	CurrentMeterIDMSP1       = 90

	CurrentSensorVirtual = 0
	CurrentSensorADC     = 1
)

// 图传（transponder）提供商
const (
	TransponderNone      = 0
	TransponderILap      = 1
	TransponderArcitimer = 2
	TransponderERLT      = 3
)

// TransponderRequirement 提供商与其数据长度
type TransponderRequirement struct {
	Provider   uint8
	DataLength uint8
}

// TransponderRequirements 按提供商编号-1 索引
var TransponderRequirements = []TransponderRequirement{
	{Provider: TransponderILap, DataLength: 6},
	{Provider: TransponderArcitimer, DataLength: 9},
	{Provider: TransponderERLT, DataLength: 1},
}

// 串口标识
const (
	SerialPortUART1       = 0
	SerialPortUART2       = 1
	SerialPortUART3       = 2
	SerialPortUART4       = 3
	SerialPortUSBVCP      = 20
	SerialPortSoftSerial1 = 30
	SerialPortSoftSerial2 = 31
)

// 陀螺选择
const (
	GyroUse1    = 0
	GyroUse2    = 1
	GyroUseBoth = 2
	AlignDefault = 0
)

// 电调协议（4way 透传模式）
const (
	EscProtocolSimonK  = 0
	EscProtocolBLHeli  = 1
	EscProtocolKiss    = 2
	EscProtocolKissAll = 3
	EscProtocolCastle  = 4
	EscAllMotors       = 255
)

// PWM 协议
const (
	PWMTypeStandard = 0
	PWMTypeBrushed  = 5
	PWMTypeMax      = 11
)

// 无线电失控步进换算
const (
	rxfailPulseMin = 750
	rxfailPulseMax = 2250
	rxfailStep     = 25
)

// RxfailStepToChannelValue 步进转通道值
func RxfailStepToChannelValue(step uint8) uint16 {
	return uint16(rxfailPulseMin + rxfailStep*int(step))
}

// ChannelValueToRxfailStep 通道值转步进
func ChannelValueToRxfailStep(v uint16) uint8 {
	c := int(v)
	if c < rxfailPulseMin {
		c = rxfailPulseMin
	}
	if c > rxfailPulseMax {
		c = rxfailPulseMax
	}
	return uint8((c - rxfailPulseMin) / rxfailStep)
}

// VTX 频段/频点编码
const (
	VTXBandChanCheckValue = 63
	VTXMaxFrequencyMHz    = 5999
	VTXDevUnknown         = 0xFF
)
