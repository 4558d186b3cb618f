package fc

// Capabilities 构建能力集
// 对应固件编译期开关，运行期由配置文件决定，未开启的能力在命令层表现为未知命令
type Capabilities struct {
	USBVCP          bool `mapstructure:"usbVcp" yaml:"usbVcp" json:"usbVcp"`
	SoftSerial      bool `mapstructure:"softSerial" yaml:"softSerial" json:"softSerial"`
	UnifiedTarget   bool `mapstructure:"unifiedTarget" yaml:"unifiedTarget" json:"unifiedTarget"`
	USBMSC          bool `mapstructure:"usbMsc" yaml:"usbMsc" json:"usbMsc"`
	Flash           bool `mapstructure:"flash" yaml:"flash" json:"flash"`
	SDCard          bool `mapstructure:"sdcard" yaml:"sdcard" json:"sdcard"`
	HuffmanFlash    bool `mapstructure:"huffmanFlash" yaml:"huffmanFlash" json:"huffmanFlash"`
	Blackbox        bool `mapstructure:"blackbox" yaml:"blackbox" json:"blackbox"`
	OSD             bool `mapstructure:"osd" yaml:"osd" json:"osd"`
	MAX7456         bool `mapstructure:"max7456" yaml:"max7456" json:"max7456"`
	OSDProfiles     bool `mapstructure:"osdProfiles" yaml:"osdProfiles" json:"osdProfiles"`
	GPS             bool `mapstructure:"gps" yaml:"gps" json:"gps"`
	GPSRescue       bool `mapstructure:"gpsRescue" yaml:"gpsRescue" json:"gpsRescue"`
	Mag             bool `mapstructure:"mag" yaml:"mag" json:"mag"`
	Baro            bool `mapstructure:"baro" yaml:"baro" json:"baro"`
	Rangefinder     bool `mapstructure:"rangefinder" yaml:"rangefinder" json:"rangefinder"`
	Servos          bool `mapstructure:"servos" yaml:"servos" json:"servos"`
	LedStrip        bool `mapstructure:"ledStrip" yaml:"ledStrip" json:"ledStrip"`
	Transponder     bool `mapstructure:"transponder" yaml:"transponder" json:"transponder"`
	VTX             bool `mapstructure:"vtx" yaml:"vtx" json:"vtx"`
	CameraControl   bool `mapstructure:"cameraControl" yaml:"cameraControl" json:"cameraControl"`
	SerialPassthru  bool `mapstructure:"serial4way" yaml:"serial4way" json:"serial4way"`
	EscSensor       bool `mapstructure:"escSensor" yaml:"escSensor" json:"escSensor"`
	DshotTelemetry  bool `mapstructure:"dshotTelemetry" yaml:"dshotTelemetry" json:"dshotTelemetry"`
	RxSPI           bool `mapstructure:"rxSpi" yaml:"rxSpi" json:"rxSpi"`
	RTC             bool `mapstructure:"rtc" yaml:"rtc" json:"rtc"`
	MultiGyro       bool `mapstructure:"multiGyro" yaml:"multiGyro" json:"multiGyro"`
	VirtualCurrent  bool `mapstructure:"virtualCurrent" yaml:"virtualCurrent" json:"virtualCurrent"`
	ADCCurrent      bool `mapstructure:"adcCurrent" yaml:"adcCurrent" json:"adcCurrent"`
	BoardInfo       bool `mapstructure:"boardInfo" yaml:"boardInfo" json:"boardInfo"`
	Signature       bool `mapstructure:"signature" yaml:"signature" json:"signature"`
	ThrottleLimit   bool `mapstructure:"throttleLimit" yaml:"throttleLimit" json:"throttleLimit"`
	PIDAudio        bool `mapstructure:"pidAudio" yaml:"pidAudio" json:"pidAudio"`
	LaunchControl   bool `mapstructure:"launchControl" yaml:"launchControl" json:"launchControl"`
	AcroTrainer     bool `mapstructure:"acroTrainer" yaml:"acroTrainer" json:"acroTrainer"`
	RCSmoothing     bool `mapstructure:"rcSmoothing" yaml:"rcSmoothing" json:"rcSmoothing"`
	DynLPF          bool `mapstructure:"dynLpf" yaml:"dynLpf" json:"dynLpf"`
	IntegratedYaw   bool `mapstructure:"integratedYaw" yaml:"integratedYaw" json:"integratedYaw"`
	DMin            bool `mapstructure:"dMin" yaml:"dMin" json:"dMin"`
	FlipOverCrash   bool `mapstructure:"flipOverCrash" yaml:"flipOverCrash" json:"flipOverCrash"`
	Beeper          bool `mapstructure:"beeper" yaml:"beeper" json:"beeper"`
	Dshot           bool `mapstructure:"dshot" yaml:"dshot" json:"dshot"`
	Pinio           bool `mapstructure:"pinio" yaml:"pinio" json:"pinio"`
}

// DefaultCapabilities 常见 F4 飞控的能力集
func DefaultCapabilities() Capabilities {
	return Capabilities{
		USBVCP:         true,
		USBMSC:         true,
		Flash:          true,
		HuffmanFlash:   true,
		Blackbox:       true,
		OSD:            true,
		MAX7456:        true,
		OSDProfiles:    true,
		GPS:            true,
		GPSRescue:      true,
		Mag:            true,
		Baro:           true,
		LedStrip:       true,
		Transponder:    true,
		VTX:            true,
		CameraControl:  true,
		SerialPassthru: true,
		EscSensor:      true,
		DshotTelemetry: true,
		RTC:            true,
		VirtualCurrent: true,
		ADCCurrent:     true,
		BoardInfo:      true,
		Signature:      true,
		ThrottleLimit:  true,
		PIDAudio:       true,
		LaunchControl:  true,
		AcroTrainer:    true,
		RCSmoothing:    true,
		DynLPF:         true,
		IntegratedYaw:  true,
		DMin:           true,
		FlipOverCrash:  true,
		Beeper:         true,
		Dshot:          true,
	}
}
