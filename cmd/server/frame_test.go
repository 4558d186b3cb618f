package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		cmd     uint16
		payload string
		v2      bool
		dir     string
		want    string
		wantErr bool
	}{
		{"API_VERSION 请求", 1, "", false, "<", "244d3c000101", false},
		{"v1 命令码越界", 0x1001, "", false, "<", "", true},
		{"非法载荷", 1, "xyz", false, "<", "", true},
		{"非法方向", 1, "", false, "<>", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeFrame(tt.cmd, tt.payload, tt.v2, tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeFrames(t *testing.T) {
	v2, err := encodeFrame(0x1001, "0102", true, ">")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, decodeFrames(&out, "244d3c000101"+v2))
	assert.Contains(t, out.String(), "v1 < cmd=1 (API_VERSION)")
	assert.Contains(t, out.String(), "v2 > cmd=4097 (-) flags=0 len=2 payload=0102")

	assert.Error(t, decodeFrames(&out, "244d"))
}
