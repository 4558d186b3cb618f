package msp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	r := newRig(t, nil)
	apiVersion := r.mustAck(t, CmdAPIVersion, nil)
	require.Len(t, apiVersion, 3)

	tests := []struct {
		name     string
		capacity int
		payload  []byte
		want     int
	}{
		{"容量只够两个子应答", 10, []byte{CmdAPIVersion, CmdAPIVersion, CmdAPIVersion}, 2},
		{"容量充足", 64, []byte{CmdAPIVersion, CmdAPIVersion, CmdAPIVersion}, 3},
		{"容量不足一个", 4, []byte{CmdAPIVersion}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out, _ := r.call(CmdMultipleMSP, tt.payload, tt.capacity)
			require.Equal(t, ResultAck, res)
			require.Len(t, out, tt.want*4)
			for i := 0; i < tt.want; i++ {
				assert.Equal(t, uint8(3), out[i*4])
				assert.Equal(t, apiVersion, out[i*4+1:i*4+4])
			}
		})
	}

	t.Run("空载荷", func(t *testing.T) {
		res, _, _ := r.call(CmdMultipleMSP, nil, 64)
		assert.Equal(t, ResultError, res)
	})

	t.Run("未知子命令以空应答占位", func(t *testing.T) {
		res, out, _ := r.call(CmdMultipleMSP, []byte{199, CmdAPIVersion}, 64)
		require.Equal(t, ResultAck, res)
		assert.Equal(t, []byte{0, 3}, out[:2])
	})

	t.Run("子命令不登记动作", func(t *testing.T) {
		_, _, slot := r.call(CmdMultipleMSP, []byte{CmdReboot}, 64)
		assert.False(t, slot.Pending())
	})
}
