package app

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/eeprom"
	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/gateway"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/protocol/mspwire"
)

func testConfig() *cfgpkg.Config {
	return &cfgpkg.Config{
		MSP:          cfgpkg.MSPConfig{ReplyCapacity: 4096, EnableV2: true, MaxRequestSize: 1024, StoreTimeout: time.Second},
		Flash:        cfgpkg.FlashConfig{Backend: "memory", PageSize: 16, SectorSize: 64, Sectors: 4},
		Compression:  cfgpkg.CompressionConfig{Enabled: true, Model: "blackbox"},
		Board:        fc.DefaultIdentity(),
		Capabilities: fc.DefaultCapabilities(),
	}
}

func TestNewEEPROMBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     cfgpkg.EEPROMConfig
		wantErr bool
	}{
		{"内存", cfgpkg.EEPROMConfig{Backend: "memory"}, false},
		{"文件", cfgpkg.EEPROMConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "e.cbor")}, false},
		{"postgres 无数据库", cfgpkg.EEPROMConfig{Backend: "postgres"}, true},
		{"未知后端", cfgpkg.EEPROMConfig{Backend: "nvram"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewEEPROMBackend(tt.cfg, nil, "uid")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, b)
		})
	}
}

func TestLoadInitialConfig(t *testing.T) {
	ctx := context.Background()
	prof := fc.Defaults()
	prof.Pilot.Name = "from-profile"
	data, err := fc.MarshalProfile(prof)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Run("空存储使用 profile 并写回", func(t *testing.T) {
		backend := eeprom.NewMemoryBackend()
		store := eeprom.NewStore(backend, nil)
		cfg, err := LoadInitialConfig(ctx, backend, store, path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "from-profile", cfg.Pilot.Name)
		assert.Equal(t, 1, backend.Writes())
	})

	t.Run("已有快照时忽略 profile", func(t *testing.T) {
		backend := eeprom.NewMemoryBackend()
		store := eeprom.NewStore(backend, nil)
		saved := fc.Defaults()
		saved.Pilot.Name = "saved"
		require.NoError(t, store.Save(ctx, saved))

		cfg, err := LoadInitialConfig(ctx, backend, store, path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "saved", cfg.Pilot.Name)
	})

	t.Run("无 profile 使用出厂默认", func(t *testing.T) {
		backend := eeprom.NewMemoryBackend()
		cfg, err := LoadInitialConfig(ctx, backend, eeprom.NewStore(backend, nil), "", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, fc.Defaults().Pilot.Name, cfg.Pilot.Name)
		assert.Zero(t, backend.Writes())
	})
}

func TestMemoryBoardStore(t *testing.T) {
	ctx := context.Background()
	board := NewBoardStore(nil, "uid")
	require.NoError(t, board.PersistBoardInfo(ctx, fc.BoardConfig{BoardName: "QUAD", ManufacturerID: "ABCD"}))

	cfg := fc.Defaults()
	require.NoError(t, board.ApplyTo(ctx, cfg))
	assert.Equal(t, "QUAD", cfg.Board.BoardName)
	assert.True(t, cfg.Board.InfoSet)
}

func TestNewFlashChip(t *testing.T) {
	ctx := context.Background()
	seed := filepath.Join(t.TempDir(), "bb.log")
	require.NoError(t, os.WriteFile(seed, bytes.Repeat([]byte("H"), 300), 0o644))

	cfg := testConfig().Flash
	cfg.SeedFile = seed
	chip, err := NewFlashChip(ctx, cfg, nil, "uid", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, uint32(256), chip.Offset(), "写满后停止预置")

	t.Run("redis 后端缺少客户端", func(t *testing.T) {
		cfg := testConfig().Flash
		cfg.Backend = "redis"
		_, err := NewFlashChip(ctx, cfg, nil, "uid", zap.NewNop())
		assert.Error(t, err)
	})
}

func TestNewEngine(t *testing.T) {
	cfg := testConfig()

	t.Run("无闪存时关闭相关能力", func(t *testing.T) {
		engine, _, err := NewEngine(cfg, EngineDeps{}, zap.NewNop())
		require.NoError(t, err)
		engine.Locked(func(c *fc.Context) {
			assert.False(t, c.Caps.Flash)
			assert.False(t, c.Caps.HuffmanFlash)
		})
	})

	t.Run("未知压缩模型", func(t *testing.T) {
		bad := testConfig()
		bad.Compression.Model = "lz4"
		chip, err := NewFlashChip(context.Background(), bad.Flash, nil, "uid", zap.NewNop())
		require.NoError(t, err)
		_, _, err = NewEngine(bad, EngineDeps{Chip: chip}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestTCPServerServesMSP(t *testing.T) {
	cfg := testConfig()
	engine, _, err := NewEngine(cfg, EngineDeps{}, zap.NewNop())
	require.NoError(t, err)
	gw := gateway.New(engine, gateway.Options{ReplyCapacity: 4096, EnableV2: true}, nil, nil, nil)

	srv := NewTCPServer(cfgpkg.TCPConfig{Addr: "127.0.0.1:0", MaxConnections: 4, AcceptRate: 100, AcceptBurst: 10,
		ReadTimeout: time.Minute, WriteTimeout: time.Second}, gw, zap.NewNop(), nil)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	req, err := mspwire.Encode(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdAPIVersion})
	require.NoError(t, err)
	_, err = conn.Write(req)
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	dec := mspwire.NewStreamDecoder(0, true)
	buf := make([]byte, 64)
	var frames []*mspwire.Frame
	for len(frames) == 0 {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		fs, _ := dec.Feed(buf[:n])
		frames = append(frames, fs...)
	}
	assert.Equal(t, byte(mspwire.DirReply), frames[0].Direction)
	assert.Equal(t, []byte{0, msp.APIVersionMajor, msp.APIVersionMinor}, frames[0].Payload)
}

func TestNewMetrics(t *testing.T) {
	_, m, h := NewMetrics(cfgpkg.MetricsConfig{Enable: false})
	assert.NotNil(t, m)
	assert.Nil(t, h)

	_, _, h = NewMetrics(cfgpkg.MetricsConfig{Enable: true, Path: "/metrics"})
	assert.NotNil(t, h)
}
