package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/fc"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "msp.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeFile(t, `
tcp:
  addr: ":6000"
board:
  targetName: "SIMF7"
capabilities:
  osd: false
flash:
  sectors: 4
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.TCP.Addr)
	assert.Equal(t, 4096, cfg.MSP.ReplyCapacity)
	assert.Equal(t, 4, cfg.Flash.Sectors)

	t.Run("未出现的字段保留默认", func(t *testing.T) {
		assert.Equal(t, "SIMF7", cfg.Board.TargetName)
		assert.Equal(t, fc.DefaultIdentity().BoardIdentifier, cfg.Board.BoardIdentifier)
		assert.False(t, cfg.Capabilities.OSD)
		assert.Equal(t, fc.DefaultCapabilities().Flash, cfg.Capabilities.Flash)
	})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MSP_TCP_ADDR", ":7001")
	t.Setenv("MSP_MSP_REPLYCAPACITY", "1024")
	cfg, err := Load(writeFile(t, "app:\n  env: test\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.TCP.Addr)
	assert.Equal(t, 1024, cfg.MSP.ReplyCapacity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"应答容量过小", "msp:\n  replyCapacity: 8\n"},
		{"未知配置后端", "eeprom:\n  backend: sqlite\n"},
		{"postgres 后端需要数据库", "eeprom:\n  backend: postgres\n"},
		{"redis 闪存需要 redis", "flash:\n  backend: redis\n"},
		{"串口缺少设备", "serial:\n  enable: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}
