package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesBoth(t *testing.T) {
	var console, file bytes.Buffer
	l := New(cfgpkg.LoggingConfig{Level: "info", Format: "json"}, &console, &file)
	l.Debug("hidden")
	l.Info("msp session opened", zap.String("transport", "tcp"))
	require.NoError(t, l.Sync())

	assert.Equal(t, console.String(), file.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(console.Bytes()), &rec))
	assert.Equal(t, "msp session opened", rec["msg"])
	assert.Equal(t, "tcp", rec["transport"])

	t.Run("空日志器", func(t *testing.T) {
		assert.NotNil(t, Or(nil))
		assert.Same(t, l, Or(l))
	})
}
