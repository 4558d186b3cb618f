package fc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved *Config
	err   error
	saves int
}

func (m *memStore) Load(context.Context) (*Config, error) {
	if m.saved == nil {
		return Defaults(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memStore) Save(_ context.Context, cfg *Config) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.saved = cfg.Clone()
	return nil
}

func TestFeatureShadow(t *testing.T) {
	store := &memStore{}
	c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{Store: store})
	live := c.Config.Features

	t.Run("无暂存时返回实时值", func(t *testing.T) {
		_, ok := c.FeatureShadow()
		assert.False(t, ok)
		assert.Equal(t, live, c.FeatureMask())
	})

	t.Run("暂存后查询返回暂存值，实时值不变", func(t *testing.T) {
		c.StageFeatureMask(0x1234)
		assert.Equal(t, uint32(0x1234), c.FeatureMask())
		assert.Equal(t, live, c.Config.Features)
	})

	t.Run("保存时合并并清除暂存", func(t *testing.T) {
		require.NoError(t, c.WriteEEPROM())
		_, ok := c.FeatureShadow()
		assert.False(t, ok)
		assert.Equal(t, uint32(0x1234), c.Config.Features)
		assert.Equal(t, uint32(0x1234), store.saved.Features)
	})
}

func TestWriteEEPROMError(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{Store: store})
	err := c.WriteEEPROM()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEEPROMSaveFailureKeepsMemory(t *testing.T) {
	t.Run("保存失败时暂存特性位保留", func(t *testing.T) {
		store := &memStore{err: errors.New("disk full")}
		c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{Store: store})
		live := c.Config.Features
		c.StageFeatureMask(0x55)

		require.Error(t, c.WriteEEPROM())
		v, ok := c.FeatureShadow()
		assert.True(t, ok)
		assert.Equal(t, uint32(0x55), v)
		assert.Equal(t, live, c.Config.Features)

		store.err = nil
		require.NoError(t, c.WriteEEPROM())
		_, ok = c.FeatureShadow()
		assert.False(t, ok)
		assert.Equal(t, uint32(0x55), c.Config.Features)
		assert.Equal(t, uint32(0x55), store.saved.Features)
	})

	t.Run("恢复默认保存失败时配置不变", func(t *testing.T) {
		store := &memStore{err: errors.New("disk full")}
		c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{Store: store})
		c.Config.Pilot.Name = "quad"
		c.StageFeatureMask(0x55)
		before := c.Config

		require.Error(t, c.ResetEEPROM())
		assert.Same(t, before, c.Config)
		assert.Equal(t, "quad", c.Config.Pilot.Name)
		_, ok := c.FeatureShadow()
		assert.True(t, ok)
		assert.Equal(t, 0, store.saves)
	})
}

func TestResetEEPROMKeepsBoard(t *testing.T) {
	store := &memStore{}
	c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{Store: store})
	c.Config.Board = BoardConfig{BoardName: "MATEKF405", InfoSet: true}
	c.Config.Pilot.Name = "quad"

	require.NoError(t, c.ResetEEPROM())
	assert.Equal(t, "", c.Config.Pilot.Name)
	assert.True(t, c.Config.Board.InfoSet)
	assert.Equal(t, 1, store.saves)
}

func TestSelectProfiles(t *testing.T) {
	c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{})

	c.SelectRateProfile(5)
	assert.Equal(t, uint8(5), c.Config.System.ActiveRateProfile)
	c.SelectRateProfile(6)
	assert.Equal(t, uint8(5), c.Config.System.ActiveRateProfile)

	c.SelectPIDProfile(2)
	assert.Equal(t, uint8(2), c.Config.System.PIDProfileIndex)
	c.SelectPIDProfile(3)
	assert.Equal(t, uint8(2), c.Config.System.PIDProfileIndex)
	assert.Same(t, &c.Config.PIDProfiles[2], c.PIDProfile())
}

func TestConfigClone(t *testing.T) {
	cfg := Defaults()
	cp := cfg.Clone()
	cp.SerialPorts[0].FunctionMask = 0xFF
	cp.PIDProfiles[0].PID[0].P = 1
	assert.NotEqual(t, cfg.SerialPorts[0].FunctionMask, cp.SerialPorts[0].FunctionMask)
	assert.NotEqual(t, cfg.PIDProfiles[0].PID[0].P, cp.PIDProfiles[0].PID[0].P)
}

func TestActiveBoxes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Context)
		want   BoxID
		active bool
	}{
		{"ARM 总是可用", func(*Context) {}, BoxArm, true},
		{"有加速度计时 ANGLE 可用", func(*Context) {}, BoxAngle, true},
		{"无加速度计时 ANGLE 不可用", func(c *Context) { c.State.Sensors.Acc = false }, BoxAngle, false},
		{"未开启 GPS 特性时无 GPS RESCUE", func(*Context) {}, BoxGPSRescue, false},
		{"开启 GPS 特性后有 GPS RESCUE", func(c *Context) { c.Config.Features |= FeatureGPS }, BoxGPSRescue, true},
		{"四轴无 PASSTHRU", func(*Context) {}, BoxPassthru, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{})
			tt.mutate(c)
			assert.Equal(t, tt.active, c.IsBoxActive(tt.want))
		})
	}
}

func TestBoxPermanentIDs(t *testing.T) {
	seen := map[uint8]bool{}
	for id := BoxID(0); id < BoxCount; id++ {
		b, ok := Box(id)
		require.True(t, ok)
		assert.Equal(t, id, b.ID)
		assert.False(t, seen[b.PermanentID], "duplicate permanent id %d", b.PermanentID)
		seen[b.PermanentID] = true
	}
	b, ok := BoxByPermanentID(46)
	require.True(t, ok)
	assert.Equal(t, "GPS RESCUE", b.Name)
	_, ok = BoxByPermanentID(3)
	assert.False(t, ok)
}

func TestFlightModeFlags(t *testing.T) {
	c := NewContext(DefaultCapabilities(), DefaultIdentity(), nil, Services{})
	c.State.Armed = true
	flags, n := c.FlightModeFlags()
	assert.Equal(t, len(c.ActiveBoxes()), n)
	assert.Equal(t, byte(1), flags[0]&1)
}

func TestRxfailStep(t *testing.T) {
	assert.Equal(t, uint8(30), ChannelValueToRxfailStep(1500))
	assert.Equal(t, uint16(1500), RxfailStepToChannelValue(30))
	assert.Equal(t, uint8(0), ChannelValueToRxfailStep(100))
	assert.Equal(t, uint8(60), ChannelValueToRxfailStep(3000))
}

func TestProfileYAML(t *testing.T) {
	cfg := Defaults()
	cfg.Pilot.Name = "whoop"
	cfg.RateProfiles[1].RCRates[0] = 120

	data, err := MarshalProfile(cfg)
	require.NoError(t, err)

	back, err := ParseProfile(data)
	require.NoError(t, err)
	assert.Equal(t, "whoop", back.Pilot.Name)
	assert.Equal(t, uint8(120), back.RateProfiles[1].RCRates[0])

	_, err = ParseProfile([]byte("pilot:\n  name: a-name-that-is-far-too-long\n"))
	assert.Error(t, err)

	partial, err := ParseProfile([]byte("pilot:\n  name: mini\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Motor, partial.Motor)
}

func TestSimulatorVTXTable(t *testing.T) {
	s := NewSimulator(nil)
	assert.Equal(t, uint16(5740), s.LookupFrequency(4, 1))
	assert.Equal(t, uint16(0), s.LookupFrequency(0, 1))
	assert.Equal(t, uint16(0), s.LookupFrequency(4, 9))
}
