package fc

// Defaults 出厂默认配置
func Defaults() *Config {
	c := &Config{
		Pilot:    PilotConfig{},
		Features: FeatureRxSerial | FeatureOSD | FeatureAirMode | FeatureAntiGravity | FeatureDynamicFilter,
		Beeper:   BeeperConfig{DshotBeaconTone: 1},
		Battery: BatteryConfig{
			VbatMinCellVoltage:     330,
			VbatMaxCellVoltage:     430,
			VbatWarningCellVoltage: 350,
			VoltageMeterSource:     1,
			CurrentMeterSource:     1,
		},
		CurrentADC:  CurrentSensorConfig{Scale: 400},
		CurrentVirt: CurrentSensorConfig{},
		OSD: OSDConfig{
			Units:            1,
			RSSIAlarm:        20,
			CapAlarm:         2200,
			AltAlarm:         100,
			EnabledWarnings:  0xFFFFFFFF,
			ProfileIndex:     1,
			OverlayRadioMode: 0,
		},
		Motor: MotorConfig{
			MinThrottle:       1070,
			MaxThrottle:       2000,
			MinCommand:        1000,
			PWMProtocol:       6,
			PWMRate:           480,
			DigitalIdleOffset: 550,
		},
		Mixer: MixerConfig{Mode: MixerQuadX},
		Rx: RxConfig{
			SerialRxProvider:         2,
			MaxCheck:                 1900,
			MidRC:                    1500,
			MinCheck:                 1050,
			RxMinUsec:                885,
			RxMaxUsec:                2115,
			RCInterpolation:          2,
			RCInterpolationInterval:  19,
			AirModeActivateThreshold: 25,
			FPVCamAngleDegrees:       0,
			RCInterpolationChannels:  2,
			RCSmoothingType:          1,
			RSSIChannel:              0,
			RCMap:                    [RxMappableChannels]uint8{0, 1, 3, 2, 4, 5, 6, 7},
		},
		Failsafe: FailsafeConfig{
			Delay:            4,
			OffDelay:         10,
			Throttle:         1000,
			ThrottleLowDelay: 100,
			Procedure:        1,
		},
		SerialPorts: []SerialPortConfig{
			{Identifier: SerialPortUSBVCP, FunctionMask: 1, MSPBaud: 5, GPSBaud: 4, TelemetryBaud: 0, BlackboxBaud: 5},
			{Identifier: SerialPortUART1, MSPBaud: 5, GPSBaud: 4, BlackboxBaud: 5},
			{Identifier: SerialPortUART2, MSPBaud: 5, GPSBaud: 4, BlackboxBaud: 5},
			{Identifier: SerialPortUART3, MSPBaud: 5, GPSBaud: 4, BlackboxBaud: 5},
		},
		Blackbox: BlackboxConfig{Device: 1, PRatio: 32},
		GPS:      GPSConfig{Provider: 1, AutoConfig: 1},
		GPSRescue: GPSRescueConfig{
			Angle: 32, InitialAltitudeM: 50, DescentDistanceM: 200, RescueGroundspeed: 2000,
			ThrottleMin: 1200, ThrottleMax: 1600, ThrottleHover: 1280, SanityChecks: 1, MinSats: 8,
			ThrottleP: 150, ThrottleI: 20, ThrottleD: 50, VelP: 80, VelI: 20, VelD: 15, YawP: 40,
		},
		Gyro: GyroConfig{
			SyncDenom:                    1,
			LowpassHz:                    200,
			Lowpass2Hz:                   250,
			SoftNotchHz1:                 0,
			SoftNotchCutoff1:             0,
			SoftNotchHz2:                 0,
			SoftNotchCutoff2:             0,
			MovementCalibrationThreshold: 48,
			CalibrationDuration:          125,
			CheckOverflow:                1,
			DynLPFMinHz:                  200,
			DynLPFMaxHz:                  500,
		},
		PID:        PIDConfig{ProcessDenom: 2},
		Flight3D:   Flight3DConfig{DeadbandLow: 1406, DeadbandHigh: 1514, Neutral: 1460, DeadbandThrottle: 50},
		RCControls: RCControlsConfig{Deadband: 0, YawDeadband: 0, AltHoldDeadband: 40},
		Arming:     ArmingConfig{AutoDisarmDelay: 5, SmallAngle: 25},
		VTX:        VTXSettings{Band: 4, Channel: 1, Power: 1, Freq: 5740},
	}
	for i := range c.VoltageADC {
		c.VoltageADC[i] = VoltageSensorADCConfig{Scale: 110, ResDivVal: 10, ResDivMultiplier: 1}
	}
	for i := range c.OSD.StatEnabled {
		c.OSD.StatEnabled[i] = i < 8
	}
	c.OSD.Timers[0] = 0x0101
	c.OSD.Timers[1] = 0x0100
	for i := range c.PIDProfiles {
		c.PIDProfiles[i] = DefaultPIDProfile()
	}
	for i := range c.RateProfiles {
		c.RateProfiles[i] = DefaultRateProfile()
	}
	for i := range c.Servos {
		c.Servos[i] = ServoParam{Min: 1000, Max: 2000, Middle: 1500, Rate: 100, ForwardFromChannel: 0xFF}
	}
	for i := range c.RxFail {
		c.RxFail[i] = RxFailChannel{Mode: 0, Step: ChannelValueToRxfailStep(1500)}
	}
	c.RxFail[3].Step = ChannelValueToRxfailStep(885)
	c.Led.Colors = defaultLedColors
	c.Led.AuxChannel = 0xFF
	return c
}

// DefaultPIDProfile 默认 PID 档位
func DefaultPIDProfile() PIDProfile {
	return PIDProfile{
		PID: [PIDItemCount]PIDGains{
			{P: 46, I: 65, D: 30, F: 60},
			{P: 50, I: 75, D: 32, F: 60},
			{P: 45, I: 100, D: 0, F: 100},
			{P: 0},
			{P: 0},
			{P: 0},
			{P: 0},
			{P: 50, I: 50, D: 75},
			{P: 40},
			{P: 0},
		},
		DtermLowpassHz:         100,
		DtermLowpass2Hz:        200,
		YawLowpassHz:           0,
		DtermNotchHz:           0,
		DtermNotchCutoff:       0,
		DynLPFDtermMinHz:       70,
		DynLPFDtermMaxHz:       170,
		FeedForwardTransition:  0,
		LevelAngleLimit:        55,
		ItermThrottleThreshold: 250,
		ItermAcceleratorGain:   5000,
		ItermRotation:          0,
		SmartFeedforward:       0,
		ItermRelax:             1,
		ItermRelaxType:         1,
		ThrottleBoost:          5,
		AcroTrainerAngleLimit:  20,
		DMin:                   [3]uint8{20, 22, 0},
		DMinGain:               27,
		DMinAdvance:            20,
		IntegratedYawRelax:     200,
	}
}

// DefaultRateProfile 默认速率档位
func DefaultRateProfile() RateProfile {
	return RateProfile{
		RCRates:              [3]uint8{100, 100, 100},
		Rates:                [3]uint8{70, 70, 70},
		DynThrPID:            65,
		ThrMid8:              50,
		TPABreakpoint:        1350,
		ThrottleLimitPercent: 100,
	}
}

var defaultLedColors = [LedConfigurableColorCount]HSVColor{
	{0, 0, 0},
	{0, 255, 255},
	{0, 0, 255},
	{30, 0, 255},
	{60, 0, 255},
	{90, 0, 255},
	{120, 0, 255},
	{150, 0, 255},
	{180, 0, 255},
	{210, 0, 255},
	{240, 0, 255},
	{270, 0, 255},
	{300, 0, 255},
	{330, 0, 255},
	{0, 0, 0},
	{0, 0, 0},
}
