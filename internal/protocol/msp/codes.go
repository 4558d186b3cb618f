package msp

import "fmt"

// 协议与 API 版本
const (
	ProtocolVersion = 0
	APIVersionMajor = 1
	APIVersionMinor = 41
)

// 命令码（一字节空间，查询码与设置码逐项列出，不做算术推导）
const (
	CmdAPIVersion = 1
	CmdFCVariant  = 2
	CmdFCVersion  = 3
	CmdBoardInfo  = 4
	CmdBuildInfo  = 5

	CmdName    = 10
	CmdSetName = 11

	CmdBatteryConfig           = 32
	CmdSetBatteryConfig        = 33
	CmdModeRanges              = 34
	CmdSetModeRange            = 35
	CmdFeatureConfig           = 36
	CmdSetFeatureConfig        = 37
	CmdBoardAlignmentConfig    = 38
	CmdSetBoardAlignmentConfig = 39
	CmdCurrentMeterConfig      = 40
	CmdSetCurrentMeterConfig   = 41
	CmdMixerConfig             = 42
	CmdSetMixerConfig          = 43
	CmdRxConfig                = 44
	CmdSetRxConfig             = 45
	CmdLedColors               = 46
	CmdSetLedColors            = 47
	CmdLedStripConfig          = 48
	CmdSetLedStripConfig       = 49
	CmdRssiConfig              = 50
	CmdSetRssiConfig           = 51
	CmdAdjustmentRanges        = 52
	CmdSetAdjustmentRange      = 53
	CmdCfSerialConfig          = 54
	CmdSetCfSerialConfig       = 55
	CmdVoltageMeterConfig      = 56
	CmdSetVoltageMeterConfig   = 57
	CmdSonarAltitude           = 58
	CmdPIDController           = 59
	CmdSetPIDController        = 60
	CmdArmingConfig            = 61
	CmdSetArmingConfig         = 62
	CmdRxMap                   = 64
	CmdSetRxMap                = 65
	CmdReboot                  = 68
	CmdDataflashSummary        = 70
	CmdDataflashRead           = 71
	CmdDataflashErase          = 72
	CmdFailsafeConfig          = 75
	CmdSetFailsafeConfig       = 76
	CmdRxfailConfig            = 77
	CmdSetRxfailConfig         = 78
	CmdSdcardSummary           = 79
	CmdBlackboxConfig          = 80
	CmdSetBlackboxConfig       = 81
	CmdTransponderConfig       = 82
	CmdSetTransponderConfig    = 83
	CmdOSDConfig               = 84
	CmdSetOSDConfig            = 85
	CmdOSDCharRead             = 86
	CmdOSDCharWrite            = 87
	CmdVtxConfig               = 88
	CmdSetVtxConfig            = 89
	CmdAdvancedConfig          = 90
	CmdSetAdvancedConfig       = 91
	CmdFilterConfig            = 92
	CmdSetFilterConfig         = 93
	CmdPIDAdvanced             = 94
	CmdSetPIDAdvanced          = 95
	CmdSensorConfig            = 96
	CmdSetSensorConfig         = 97
	CmdCameraControl           = 98
	CmdSetArmingDisabled       = 99

	CmdStatus              = 101
	CmdRawIMU              = 102
	CmdServo               = 103
	CmdMotor               = 104
	CmdRC                  = 105
	CmdRawGPS              = 106
	CmdCompGPS             = 107
	CmdAttitude            = 108
	CmdAltitude            = 109
	CmdAnalog              = 110
	CmdRCTuning            = 111
	CmdPID                 = 112
	CmdBoxNames            = 116
	CmdPIDNames            = 117
	CmdBoxIDs              = 119
	CmdServoConfigurations = 120
	CmdMotor3DConfig       = 124
	CmdRCDeadband          = 125
	CmdSensorAlignment     = 126
	CmdLedStripModeColor   = 127
	CmdVoltageMeters       = 128
	CmdCurrentMeters       = 129
	CmdBatteryState        = 130
	CmdMotorConfig         = 131
	CmdGPSConfig           = 132
	CmdCompassConfig       = 133
	CmdEscSensorData       = 134
	CmdGPSRescue           = 135
	CmdGPSRescuePIDs       = 136
	CmdStatusEx            = 150
	CmdUID                 = 160
	CmdGPSSVInfo           = 164
	CmdCopyProfile         = 183
	CmdBeeperConfig        = 184
	CmdSetBeeperConfig     = 185
	CmdSetTxInfo           = 186
	CmdTxInfo              = 187

	CmdSetRawRC                = 200
	CmdSetRawGPS               = 201
	CmdSetPID                  = 202
	CmdSetRCTuning             = 204
	CmdAccCalibration          = 205
	CmdMagCalibration          = 206
	CmdResetConf               = 208
	CmdSelectSetting           = 210
	CmdSetHeading              = 211
	CmdSetServoConfiguration   = 212
	CmdSetMotor                = 214
	CmdSetMotor3DConfig        = 217
	CmdSetRCDeadband           = 218
	CmdSetResetCurrPID         = 219
	CmdSetSensorAlignment      = 220
	CmdSetLedStripModeColor    = 221
	CmdSetMotorConfig          = 222
	CmdSetGPSConfig            = 223
	CmdSetCompassConfig        = 224
	CmdSetGPSRescue            = 225
	CmdSetGPSRescuePIDs        = 226
	CmdMultipleMSP             = 230
	CmdModeRangesExtra         = 238
	CmdSetAccTrim              = 239
	CmdAccTrim                 = 240
	CmdServoMixRules           = 241
	CmdSetServoMixRule         = 242
	CmdSet4WayIF               = 245
	CmdSetRTC                  = 246
	CmdRTC                     = 247
	CmdSetBoardInfo            = 248
	CmdSetSignature            = 249
	CmdEEPROMWrite             = 250
	CmdDebug                   = 254
)

// CommandNames 命令码到名称的映射（日志与指标标签）
var CommandNames = map[uint8]string{
	CmdAPIVersion: "API_VERSION", CmdFCVariant: "FC_VARIANT", CmdFCVersion: "FC_VERSION",
	CmdBoardInfo: "BOARD_INFO", CmdBuildInfo: "BUILD_INFO",
	CmdName: "NAME", CmdSetName: "SET_NAME",
	CmdBatteryConfig: "BATTERY_CONFIG", CmdSetBatteryConfig: "SET_BATTERY_CONFIG",
	CmdModeRanges: "MODE_RANGES", CmdSetModeRange: "SET_MODE_RANGE",
	CmdFeatureConfig: "FEATURE_CONFIG", CmdSetFeatureConfig: "SET_FEATURE_CONFIG",
	CmdBoardAlignmentConfig: "BOARD_ALIGNMENT_CONFIG", CmdSetBoardAlignmentConfig: "SET_BOARD_ALIGNMENT_CONFIG",
	CmdCurrentMeterConfig: "CURRENT_METER_CONFIG", CmdSetCurrentMeterConfig: "SET_CURRENT_METER_CONFIG",
	CmdMixerConfig: "MIXER_CONFIG", CmdSetMixerConfig: "SET_MIXER_CONFIG",
	CmdRxConfig: "RX_CONFIG", CmdSetRxConfig: "SET_RX_CONFIG",
	CmdLedColors: "LED_COLORS", CmdSetLedColors: "SET_LED_COLORS",
	CmdLedStripConfig: "LED_STRIP_CONFIG", CmdSetLedStripConfig: "SET_LED_STRIP_CONFIG",
	CmdRssiConfig: "RSSI_CONFIG", CmdSetRssiConfig: "SET_RSSI_CONFIG",
	CmdAdjustmentRanges: "ADJUSTMENT_RANGES", CmdSetAdjustmentRange: "SET_ADJUSTMENT_RANGE",
	CmdCfSerialConfig: "CF_SERIAL_CONFIG", CmdSetCfSerialConfig: "SET_CF_SERIAL_CONFIG",
	CmdVoltageMeterConfig: "VOLTAGE_METER_CONFIG", CmdSetVoltageMeterConfig: "SET_VOLTAGE_METER_CONFIG",
	CmdSonarAltitude: "SONAR_ALTITUDE", CmdPIDController: "PID_CONTROLLER", CmdSetPIDController: "SET_PID_CONTROLLER",
	CmdArmingConfig: "ARMING_CONFIG", CmdSetArmingConfig: "SET_ARMING_CONFIG",
	CmdRxMap: "RX_MAP", CmdSetRxMap: "SET_RX_MAP", CmdReboot: "REBOOT",
	CmdDataflashSummary: "DATAFLASH_SUMMARY", CmdDataflashRead: "DATAFLASH_READ", CmdDataflashErase: "DATAFLASH_ERASE",
	CmdFailsafeConfig: "FAILSAFE_CONFIG", CmdSetFailsafeConfig: "SET_FAILSAFE_CONFIG",
	CmdRxfailConfig: "RXFAIL_CONFIG", CmdSetRxfailConfig: "SET_RXFAIL_CONFIG",
	CmdSdcardSummary: "SDCARD_SUMMARY", CmdBlackboxConfig: "BLACKBOX_CONFIG", CmdSetBlackboxConfig: "SET_BLACKBOX_CONFIG",
	CmdTransponderConfig: "TRANSPONDER_CONFIG", CmdSetTransponderConfig: "SET_TRANSPONDER_CONFIG",
	CmdOSDConfig: "OSD_CONFIG", CmdSetOSDConfig: "SET_OSD_CONFIG", CmdOSDCharRead: "OSD_CHAR_READ", CmdOSDCharWrite: "OSD_CHAR_WRITE",
	CmdVtxConfig: "VTX_CONFIG", CmdSetVtxConfig: "SET_VTX_CONFIG",
	CmdAdvancedConfig: "ADVANCED_CONFIG", CmdSetAdvancedConfig: "SET_ADVANCED_CONFIG",
	CmdFilterConfig: "FILTER_CONFIG", CmdSetFilterConfig: "SET_FILTER_CONFIG",
	CmdPIDAdvanced: "PID_ADVANCED", CmdSetPIDAdvanced: "SET_PID_ADVANCED",
	CmdSensorConfig: "SENSOR_CONFIG", CmdSetSensorConfig: "SET_SENSOR_CONFIG",
	CmdCameraControl: "CAMERA_CONTROL", CmdSetArmingDisabled: "SET_ARMING_DISABLED",
	CmdStatus: "STATUS", CmdRawIMU: "RAW_IMU", CmdServo: "SERVO", CmdMotor: "MOTOR", CmdRC: "RC",
	CmdRawGPS: "RAW_GPS", CmdCompGPS: "COMP_GPS", CmdAttitude: "ATTITUDE", CmdAltitude: "ALTITUDE",
	CmdAnalog: "ANALOG", CmdRCTuning: "RC_TUNING", CmdPID: "PID", CmdBoxNames: "BOXNAMES",
	CmdPIDNames: "PIDNAMES", CmdBoxIDs: "BOXIDS", CmdServoConfigurations: "SERVO_CONFIGURATIONS",
	CmdMotor3DConfig: "MOTOR_3D_CONFIG", CmdRCDeadband: "RC_DEADBAND", CmdSensorAlignment: "SENSOR_ALIGNMENT",
	CmdLedStripModeColor: "LED_STRIP_MODECOLOR", CmdVoltageMeters: "VOLTAGE_METERS", CmdCurrentMeters: "CURRENT_METERS",
	CmdBatteryState: "BATTERY_STATE", CmdMotorConfig: "MOTOR_CONFIG", CmdGPSConfig: "GPS_CONFIG",
	CmdCompassConfig: "COMPASS_CONFIG", CmdEscSensorData: "ESC_SENSOR_DATA", CmdGPSRescue: "GPS_RESCUE",
	CmdGPSRescuePIDs: "GPS_RESCUE_PIDS", CmdStatusEx: "STATUS_EX", CmdUID: "UID", CmdGPSSVInfo: "GPSSVINFO",
	CmdCopyProfile: "COPY_PROFILE", CmdBeeperConfig: "BEEPER_CONFIG", CmdSetBeeperConfig: "SET_BEEPER_CONFIG",
	CmdSetTxInfo: "SET_TX_INFO", CmdTxInfo: "TX_INFO",
	CmdSetRawRC: "SET_RAW_RC", CmdSetRawGPS: "SET_RAW_GPS", CmdSetPID: "SET_PID", CmdSetRCTuning: "SET_RC_TUNING",
	CmdAccCalibration: "ACC_CALIBRATION", CmdMagCalibration: "MAG_CALIBRATION", CmdResetConf: "RESET_CONF",
	CmdSelectSetting: "SELECT_SETTING", CmdSetHeading: "SET_HEADING",
	CmdSetServoConfiguration: "SET_SERVO_CONFIGURATION", CmdSetMotor: "SET_MOTOR",
	CmdSetMotor3DConfig: "SET_MOTOR_3D_CONFIG", CmdSetRCDeadband: "SET_RC_DEADBAND",
	CmdSetResetCurrPID: "SET_RESET_CURR_PID", CmdSetSensorAlignment: "SET_SENSOR_ALIGNMENT",
	CmdSetLedStripModeColor: "SET_LED_STRIP_MODECOLOR", CmdSetMotorConfig: "SET_MOTOR_CONFIG",
	CmdSetGPSConfig: "SET_GPS_CONFIG", CmdSetCompassConfig: "SET_COMPASS_CONFIG",
	CmdSetGPSRescue: "SET_GPS_RESCUE", CmdSetGPSRescuePIDs: "SET_GPS_RESCUE_PIDS",
	CmdMultipleMSP: "MULTIPLE_MSP", CmdModeRangesExtra: "MODE_RANGES_EXTRA",
	CmdSetAccTrim: "SET_ACC_TRIM", CmdAccTrim: "ACC_TRIM", CmdServoMixRules: "SERVO_MIX_RULES",
	CmdSetServoMixRule: "SET_SERVO_MIX_RULE", CmdSet4WayIF: "SET_4WAY_IF", CmdSetRTC: "SET_RTC", CmdRTC: "RTC",
	CmdSetBoardInfo: "SET_BOARD_INFO", CmdSetSignature: "SET_SIGNATURE", CmdEEPROMWrite: "EEPROM_WRITE",
	CmdDebug: "DEBUG",
}

// CommandName 返回命令名称，未知命令返回十六进制表示
func CommandName(cmd uint8) string {
	if n, ok := CommandNames[cmd]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", cmd)
}

// mutating 会修改配置或触发动作的命令（审计记录用）
var mutating = map[uint8]bool{
	CmdSetName: true, CmdSetBatteryConfig: true, CmdSetModeRange: true, CmdSetFeatureConfig: true,
	CmdSetBoardAlignmentConfig: true, CmdSetCurrentMeterConfig: true, CmdSetMixerConfig: true,
	CmdSetRxConfig: true, CmdSetLedColors: true, CmdSetLedStripConfig: true, CmdSetRssiConfig: true,
	CmdSetAdjustmentRange: true, CmdSetCfSerialConfig: true, CmdSetVoltageMeterConfig: true,
	CmdSetPIDController: true, CmdSetArmingConfig: true, CmdSetRxMap: true, CmdReboot: true,
	CmdDataflashErase: true, CmdSetFailsafeConfig: true, CmdSetRxfailConfig: true,
	CmdSetBlackboxConfig: true, CmdSetTransponderConfig: true, CmdSetOSDConfig: true,
	CmdOSDCharWrite: true, CmdSetVtxConfig: true, CmdSetAdvancedConfig: true, CmdSetFilterConfig: true,
	CmdSetPIDAdvanced: true, CmdSetSensorConfig: true, CmdCameraControl: true, CmdSetArmingDisabled: true,
	CmdCopyProfile: true, CmdSetBeeperConfig: true, CmdSetTxInfo: true, CmdSetRawGPS: true, CmdSetPID: true,
	CmdSetRCTuning: true, CmdAccCalibration: true, CmdMagCalibration: true, CmdResetConf: true,
	CmdSelectSetting: true, CmdSetHeading: true, CmdSetServoConfiguration: true, CmdSetMotor: true,
	CmdSetMotor3DConfig: true, CmdSetRCDeadband: true, CmdSetResetCurrPID: true,
	CmdSetSensorAlignment: true, CmdSetLedStripModeColor: true, CmdSetMotorConfig: true,
	CmdSetGPSConfig: true, CmdSetCompassConfig: true, CmdSetGPSRescue: true, CmdSetGPSRescuePIDs: true,
	CmdSetAccTrim: true, CmdSetServoMixRule: true, CmdSet4WayIF: true, CmdSetRTC: true,
	CmdSetBoardInfo: true, CmdSetSignature: true, CmdEEPROMWrite: true,
}

// IsMutating 命令是否修改状态（SET_RAW_RC 高频遥控帧不计入）
func IsMutating(cmd uint8) bool { return mutating[cmd] }
