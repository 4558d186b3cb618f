package mspwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeV1(t *testing.T) {
	// MSP_API_VERSION 请求：$M< 00 01 01
	b, err := Encode(Frame{Version: V1, Direction: DirRequest, Cmd: 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{'$', 'M', '<', 0, 1, 1}, b)

	t.Run("巨帧", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0xAB}, 300)
		b, err := Encode(Frame{Version: V1, Direction: DirReply, Cmd: 71, Payload: payload})
		require.NoError(t, err)
		assert.Equal(t, byte(255), b[3])
		assert.Equal(t, byte(71), b[4])
		assert.Equal(t, []byte{0x2C, 0x01}, b[5:7])
		assert.Len(t, b, 3+1+1+2+300+1)
	})

	t.Run("命令码超出 v1", func(t *testing.T) {
		_, err := Encode(Frame{Version: V1, Direction: DirReply, Cmd: 0x1001})
		assert.Error(t, err)
	})
}

func TestCRC8DVBS2(t *testing.T) {
	// 参考值：crc8_dvb_s2 对 "123456789" 为 0xBC
	assert.Equal(t, byte(0xBC), CRC8DVBS2Bytes(0, []byte("123456789")))
}

func TestDecoder(t *testing.T) {
	frames := []Frame{
		{Version: V1, Direction: DirRequest, Cmd: 1},
		{Version: V2, Direction: DirRequest, Cmd: 0x1001, Payload: []byte{1, 2, 3}},
		{Version: V1, Direction: DirRequest, Cmd: 71, Payload: bytes.Repeat([]byte{7}, 400)},
		{Version: V1, Direction: DirReply, Cmd: 110, Payload: []byte{9, 8}},
	}
	var stream []byte
	stream = append(stream, 0x00, '$', 0x11)
	for _, f := range frames {
		var err error
		stream, err = Append(stream, f)
		require.NoError(t, err)
	}

	t.Run("一次输入", func(t *testing.T) {
		d := NewStreamDecoder(1024, true)
		got, err := d.Feed(stream)
		require.NoError(t, err)
		require.Len(t, got, len(frames))
		for i := range frames {
			assert.Equal(t, frames[i].Cmd, got[i].Cmd)
			assert.Equal(t, frames[i].Version, got[i].Version)
			assert.Equal(t, frames[i].Direction, got[i].Direction)
			assert.Equal(t, len(frames[i].Payload), len(got[i].Payload))
		}
	})

	t.Run("逐字节输入", func(t *testing.T) {
		d := NewStreamDecoder(1024, true)
		var got []*Frame
		for _, b := range stream {
			fs, err := d.Feed([]byte{b})
			require.NoError(t, err)
			got = append(got, fs...)
		}
		assert.Len(t, got, len(frames))
	})

	t.Run("关闭 v2", func(t *testing.T) {
		d := NewStreamDecoder(1024, false)
		got, err := d.Feed(stream)
		require.NoError(t, err)
		assert.Len(t, got, len(frames)-1)
	})
}

func TestDecoderErrors(t *testing.T) {
	good, _ := Encode(Frame{Version: V1, Direction: DirRequest, Cmd: 2})
	bad := append([]byte(nil), good...)
	bad[len(bad)-1] ^= 0xFF

	d := NewStreamDecoder(16, true)
	got, err := d.Feed(append(bad, good...))
	assert.ErrorIs(t, err, ErrChecksum)
	assert.Equal(t, "checksum", Reason(err))
	require.Len(t, got, 1, "损坏帧之后的帧仍被解出")
	assert.Equal(t, uint16(2), got[0].Cmd)

	t.Run("载荷超限", func(t *testing.T) {
		big, _ := Encode(Frame{Version: V1, Direction: DirRequest, Cmd: 3, Payload: make([]byte, 17)})
		_, err := d.Feed(big)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("非法方向", func(t *testing.T) {
		_, err := d.Feed([]byte{'$', 'M', '?'})
		assert.ErrorIs(t, err, ErrDirection)
	})
}

func TestAdapter(t *testing.T) {
	var (
		cmds []uint16
		errs int
	)
	a := NewAdapter(NewStreamDecoder(64, true), func(f *Frame) error {
		cmds = append(cmds, f.Cmd)
		return nil
	}, func(error) { errs++ })

	assert.True(t, a.Sniff([]byte("\r\n$M<")))
	assert.True(t, a.Sniff([]byte("$X<")))
	assert.False(t, a.Sniff([]byte("#\r\n")))

	req1, _ := Encode(Frame{Version: V1, Direction: DirRequest, Cmd: 1})
	req2, _ := Encode(Frame{Version: V2, Direction: DirRequest, Cmd: 2})
	bad := append([]byte(nil), req1...)
	bad[len(bad)-1]++

	require.NoError(t, a.ProcessBytes(append(append([]byte(nil), req1...), bad...)))
	require.NoError(t, a.ProcessBytes(req2))
	assert.Equal(t, []uint16{1, 2}, cmds)
	assert.Equal(t, 1, errs)
}
