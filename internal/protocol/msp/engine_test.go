package msp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/fc"
)

func TestAPIVersion(t *testing.T) {
	r := newRig(t, nil)
	out := r.mustAck(t, CmdAPIVersion, nil)
	assert.Equal(t, []byte{ProtocolVersion, APIVersionMajor, APIVersionMinor}, out)
}

func TestUnknownCommand(t *testing.T) {
	r := newRig(t, nil)
	res, out, slot := r.call(0x07, nil, 64)
	assert.Equal(t, ResultError, res)
	assert.Empty(t, out)
	assert.False(t, slot.Pending())
}

func TestSelectSetting(t *testing.T) {
	r := newRig(t, nil)
	tests := []struct {
		name    string
		value   uint8
		wantPID uint8
		wantRat uint8
	}{
		{"速率档位 5", 0x85, 0, 5},
		{"速率档位越界归零", 0x88, 0, 0},
		{"PID 档位 2", 0x02, 2, 0},
		{"PID 档位越界归零", 0x07, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.ctx.Config.System.PIDProfileIndex = 0
			r.ctx.Config.System.ActiveRateProfile = 0
			r.mustAck(t, CmdSelectSetting, []byte{tt.value})
			assert.Equal(t, tt.wantPID, r.ctx.Config.System.PIDProfileIndex)
			assert.Equal(t, tt.wantRat, r.ctx.Config.System.ActiveRateProfile)
		})
	}

	t.Run("解锁时拒绝切换 PID 档位，速率档位不受限", func(t *testing.T) {
		r.ctx.State.Armed = true
		defer func() { r.ctx.State.Armed = false }()
		res, _, _ := r.call(CmdSelectSetting, []byte{0x01}, 16)
		assert.Equal(t, ResultError, res)
		r.mustAck(t, CmdSelectSetting, []byte{0x83})
		assert.Equal(t, uint8(3), r.ctx.Config.System.ActiveRateProfile)
	})
}

func TestArmingGate(t *testing.T) {
	r := newRig(t, nil)
	r.ctx.State.Armed = true
	before := r.snapshot(t)

	tests := []struct {
		name    string
		cmd     uint8
		payload []byte
	}{
		{"恢复默认", CmdResetConf, nil},
		{"加速度计校准", CmdAccCalibration, nil},
		{"磁罗盘校准", CmdMagCalibration, nil},
		{"保存 EEPROM", CmdEEPROMWrite, nil},
		{"相机控制", CmdCameraControl, []byte{1}},
		{"擦除数据闪存", CmdDataflashErase, nil},
		{"电机测试", CmdSetMotor, cat(le16(1200), le16(1200), le16(1200), le16(1200))},
		{"电调透传", CmdSet4WayIF, nil},
		{"切换 PID 档位", CmdSelectSetting, []byte{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, slot := r.call(tt.cmd, tt.payload, 64)
			assert.Equal(t, ResultError, res)
			assert.False(t, slot.Pending())
			assert.Equal(t, before, r.snapshot(t))
		})
	}
	assert.False(t, r.ctx.State.CalibratingAcc)
	assert.Equal(t, uint16(1000), r.ctx.State.MotorsDisarmed[0])
	assert.Empty(t, r.sim.Calls.CameraKeys)
}

func TestFeatureShadowRoundTrip(t *testing.T) {
	r := newRig(t, nil)
	live := r.ctx.Config.Features

	r.mustAck(t, CmdSetFeatureConfig, le32(fc.FeatureGPS|fc.FeatureOSD))
	out := r.mustAck(t, CmdFeatureConfig, nil)
	assert.Equal(t, le32(fc.FeatureGPS|fc.FeatureOSD), out)
	assert.Equal(t, live, r.ctx.Config.Features)

	r.mustAck(t, CmdEEPROMWrite, nil)
	assert.Equal(t, uint32(fc.FeatureGPS|fc.FeatureOSD), r.ctx.Config.Features)
	_, staged := r.ctx.FeatureShadow()
	assert.False(t, staged)
}

func TestRCTuningRoundTrip(t *testing.T) {
	r := newRig(t, nil)

	t.Run("长度不足拒绝", func(t *testing.T) {
		res, _, _ := r.call(CmdSetRCTuning, make([]byte, 9), 16)
		assert.Equal(t, ResultError, res)
	})

	t.Run("旧格式同步俯仰", func(t *testing.T) {
		payload := cat([]byte{120, 10, 70, 71, 72, 200, 50, 0}, le16(1500))
		r.mustAck(t, CmdSetRCTuning, payload)
		p := r.ctx.RateProfile()
		assert.Equal(t, uint8(120), p.RCRates[fc.AxisPitch])
		assert.Equal(t, uint8(10), p.RCExpo[fc.AxisPitch])
		assert.Equal(t, uint8(fc.ControlRateTPAMax), p.DynThrPID)
	})

	t.Run("完整格式往返", func(t *testing.T) {
		payload := cat([]byte{110, 5, 60, 61, 62, 40, 50, 0}, le16(1400), []byte{7, 90, 95, 8, 1, 80})
		r.mustAck(t, CmdSetRCTuning, payload)
		out := r.mustAck(t, CmdRCTuning, nil)
		want := cat([]byte{110, 5, 60, 61, 62, 40, 50, 0}, le16(1400), []byte{7, 90, 95, 8, 1, 80})
		assert.Equal(t, want, out)
	})
}

func TestPIDRoundTrip(t *testing.T) {
	r := newRig(t, nil)
	payload := make([]byte, fc.PIDItemCount*3)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	r.mustAck(t, CmdSetPID, payload)
	assert.Equal(t, payload, r.mustAck(t, CmdPID, nil))

	r.mustAck(t, CmdSetResetCurrPID, nil)
	assert.Equal(t, fc.DefaultPIDProfile(), *r.ctx.PIDProfile())
}

func TestModeRange(t *testing.T) {
	r := newRig(t, nil)

	t.Run("按永久编号写入并以永久编号读回", func(t *testing.T) {
		r.mustAck(t, CmdSetModeRange, []byte{0, 1, 0, 32, 48, 1, 46})
		m := r.ctx.Config.Modes[0]
		assert.Equal(t, uint8(fc.BoxAngle), m.ModeID)
		assert.Equal(t, uint8(fc.BoxGPSRescue), m.LinkedTo)

		out := r.mustAck(t, CmdModeRanges, nil)
		assert.Equal(t, []byte{1, 0, 32, 48}, out[:4])
		extra := r.mustAck(t, CmdModeRangesExtra, nil)
		assert.Equal(t, []byte{fc.MaxModeActivationConditionCount, 1, 1, 46}, extra[:4])
	})

	t.Run("索引越界", func(t *testing.T) {
		res, _, _ := r.call(CmdSetModeRange, []byte{fc.MaxModeActivationConditionCount, 1, 0, 0, 0}, 16)
		assert.Equal(t, ResultError, res)
	})

	t.Run("未知模式不修改配置", func(t *testing.T) {
		before := r.snapshot(t)
		res, _, _ := r.call(CmdSetModeRange, []byte{1, 200, 0, 10, 20}, 16)
		assert.Equal(t, ResultError, res)
		res, _, _ = r.call(CmdSetModeRange, []byte{1, 1, 0, 10, 20, 0, 200}, 16)
		assert.Equal(t, ResultError, res)
		assert.Equal(t, before, r.snapshot(t))
	})
}

func TestSerialConfig(t *testing.T) {
	r := newRig(t, nil)
	port := func(id uint8, mask uint16) []byte {
		return cat([]byte{id}, le16(mask), []byte{1, 2, 3, 4})
	}

	t.Run("长度不是 7 的倍数", func(t *testing.T) {
		res, _, _ := r.call(CmdSetCfSerialConfig, port(0, 1)[:6], 16)
		assert.Equal(t, ResultError, res)
	})

	t.Run("存在未知串口时整体拒绝", func(t *testing.T) {
		before := r.snapshot(t)
		res, _, _ := r.call(CmdSetCfSerialConfig, cat(port(fc.SerialPortUART1, 0x40), port(99, 1)), 16)
		assert.Equal(t, ResultError, res)
		assert.Equal(t, before, r.snapshot(t))
	})

	t.Run("更新并读回", func(t *testing.T) {
		r.mustAck(t, CmdSetCfSerialConfig, port(fc.SerialPortUART2, 0x40))
		p := r.ctx.Config.SerialPort(fc.SerialPortUART2)
		require.NotNil(t, p)
		assert.Equal(t, uint16(0x40), p.FunctionMask)
		out := r.mustAck(t, CmdCfSerialConfig, nil)
		assert.Contains(t, string(out), string(port(fc.SerialPortUART2, 0x40)))
	})
}

func TestOSDConfig(t *testing.T) {
	r := newRig(t, nil)

	t.Run("通用设置与 32 位告警", func(t *testing.T) {
		payload := cat([]byte{0xFF, 2, 1, 80}, le16(1500), le16(0), le16(120), le16(0x00FF), le32(0x12345), []byte{2, 1})
		r.mustAck(t, CmdSetOSDConfig, payload)
		osd := r.ctx.Config.OSD
		assert.Equal(t, uint8(2), osd.VideoSystem)
		assert.Equal(t, uint16(1500), osd.CapAlarm)
		assert.Equal(t, uint32(0x12345), osd.EnabledWarnings)
		assert.Equal(t, uint8(2), osd.ProfileIndex)
	})

	t.Run("计时器分支返回错误", func(t *testing.T) {
		res, _, _ := r.call(CmdSetOSDConfig, cat([]byte{0xFE, 0}, le16(10)), 16)
		assert.Equal(t, ResultError, res)
	})

	t.Run("统计项与元素位置", func(t *testing.T) {
		r.mustAck(t, CmdSetOSDConfig, cat([]byte{3}, le16(1), []byte{0}))
		assert.True(t, r.ctx.Config.OSD.StatEnabled[3])
		r.mustAck(t, CmdSetOSDConfig, cat([]byte{3}, le16(0x0801)))
		assert.Equal(t, uint16(0x0801), r.ctx.Config.OSD.ItemPos[3])

		res, _, _ := r.call(CmdSetOSDConfig, cat([]byte{fc.OSDItemCount}, le16(1)), 16)
		assert.Equal(t, ResultError, res)
	})
}

func TestBoardInfoWriteOnce(t *testing.T) {
	r := newRig(t, nil)
	payload := cat([]byte{5}, []byte("MYFC1"), []byte{4}, []byte("ACME"))

	r.mustAck(t, CmdSetBoardInfo, payload)
	assert.Equal(t, "MYFC1", r.ctx.Config.Board.BoardName)
	assert.Equal(t, "ACME", r.ctx.Config.Board.ManufacturerID)

	res, _, _ := r.call(CmdSetBoardInfo, payload, 16)
	assert.Equal(t, ResultError, res)

	sig := make([]byte, fc.SignatureLength)
	sig[0] = 0xAB
	r.mustAck(t, CmdSetSignature, sig)
	res, _, _ = r.call(CmdSetSignature, sig, 16)
	assert.Equal(t, ResultError, res)
	assert.Equal(t, byte(0xAB), r.ctx.Config.Board.Signature[0])
}

func TestVTXConfig(t *testing.T) {
	r := newRig(t, nil)

	t.Run("频段频点编码", func(t *testing.T) {
		r.mustAck(t, CmdSetVtxConfig, le16(4*8+0))
		v := r.ctx.Config.VTX
		assert.Equal(t, uint8(5), v.Band)
		assert.Equal(t, uint8(1), v.Channel)
	})

	t.Run("直接频率", func(t *testing.T) {
		r.mustAck(t, CmdSetVtxConfig, le16(5800))
		assert.Equal(t, uint8(0), r.ctx.Config.VTX.Band)
		assert.Equal(t, uint16(5800), r.ctx.Config.VTX.Freq)
	})
}

func TestLedStripConfig(t *testing.T) {
	r := newRig(t, nil)
	r.mustAck(t, CmdSetLedStripConfig, cat([]byte{3}, le32(0xDEADBEEF)))
	assert.Equal(t, uint32(0xDEADBEEF), r.ctx.Config.Led.LedConfigs[3])

	res, _, _ := r.call(CmdSetLedStripConfig, cat([]byte{3}, le32(1), []byte{0, 0}), 16)
	assert.Equal(t, ResultError, res)

	res, _, _ = r.call(CmdSetLedStripModeColor, []byte{fc.LedModeCount + 1, 0, 1}, 16)
	assert.Equal(t, ResultError, res)
}

func TestReplyNeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{0, 1, 8, 33} {
		r := newRig(t, nil)
		for cmd := 0; cmd < 256; cmd++ {
			var slot Action
			dst := NewWriter(capacity)
			r.engine.Process(uint8(cmd), NewReader([]byte{1, 2, 3, 4, 5, 6, 7}), dst, &slot)
			assert.LessOrEqual(t, dst.Len(), capacity, "cmd %s", CommandName(uint8(cmd)))
		}
	}
}

func TestProcessReplyAnalog(t *testing.T) {
	r := newRig(t, nil)
	payload := cat([]byte{120}, le16(350), le16(0), le16(1234))
	r.engine.ProcessReply(CmdAnalog, NewReader(payload))
	assert.Equal(t, fc.MSPCurrent{Amperage: 1234, MAhDrawn: 350}, r.ctx.State.MSPCurrent)
}
