package eeprom

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/fc"
)

func TestCodec(t *testing.T) {
	cfg := fc.Defaults()
	cfg.Pilot.Name = "quad"
	cfg.PIDProfiles[1].PID[0].P = 77
	cfg.SerialPorts = cfg.SerialPorts[:1]

	a, err := Encode(cfg)
	require.NoError(t, err)
	b, err := Encode(cfg.Clone())
	require.NoError(t, err)
	assert.Equal(t, a, b, "相同配置编码一致")

	got, err := Decode(a)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	t.Run("版本不符", func(t *testing.T) {
		raw, err := cbor.Marshal(snapshot{Version: 9, Config: cfg})
		require.NoError(t, err)
		_, err = Decode(raw)
		assert.ErrorIs(t, err, ErrVersion)
	})

	t.Run("损坏数据", func(t *testing.T) {
		_, err := Decode([]byte{0xFF, 0x00})
		assert.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend Backend
	}{
		{"内存", NewMemoryBackend()},
		{"文件", FileBackend{Path: filepath.Join(t.TempDir(), "eeprom", "config.cbor")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.backend, nil)

			cfg, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, fc.Defaults(), cfg, "空存储返回默认")

			cfg.Features |= fc.FeatureGPS
			require.NoError(t, s.Save(ctx, cfg))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, cfg.Features, got.Features)
		})
	}
}

func TestContextPersists(t *testing.T) {
	backend := NewMemoryBackend()
	boards := NewMemoryBoardStore()
	c := fc.NewContext(fc.DefaultCapabilities(), fc.DefaultIdentity(), nil,
		fc.Services{Store: NewStore(backend, nil), Board: boards})

	c.StageFeatureMask(fc.FeatureGPS)
	require.NoError(t, c.WriteEEPROM())
	assert.Equal(t, 1, backend.Writes())

	c.Config.Features = 0
	require.NoError(t, c.ReadEEPROM())
	assert.Equal(t, uint32(fc.FeatureGPS), c.Config.Features)

	t.Run("板卡信息只写一次", func(t *testing.T) {
		require.NoError(t, c.SetBoardInfo("SIM", "TAOY"))
		cfg := fc.Defaults()
		boards.Apply(cfg)
		assert.Equal(t, "SIM", cfg.Board.BoardName)
		assert.True(t, cfg.Board.InfoSet)

		assert.ErrorIs(t, boards.PersistBoardInfo(context.Background(), fc.BoardConfig{BoardName: "X"}), fc.ErrImmutable)
	})
}
