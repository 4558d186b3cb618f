package msp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/compress/huffman"
	"github.com/taoyao-code/msp-server/internal/fc"
)

func flashRequest(addr uint32, size uint16, compress bool) []byte {
	req := cat(le32(addr), le16(size))
	if compress {
		req = append(req, 1)
	}
	return req
}

func TestDataflashRead(t *testing.T) {
	r := newRig(t, nil)

	t.Run("读取被截断到闪存末尾", func(t *testing.T) {
		res, out, _ := r.call(CmdDataflashRead, flashRequest(900, 200, false), 512)
		require.Equal(t, ResultAck, res)
		require.Len(t, out, 4+2+1+100)
		assert.Equal(t, uint32(900), binary.LittleEndian.Uint32(out))
		assert.Equal(t, uint16(100), binary.LittleEndian.Uint16(out[4:]))
		assert.Equal(t, uint8(CompressionNone), out[6])
		assert.Equal(t, r.flash.data[900:], out[7:])
	})

	t.Run("越界地址返回空数据", func(t *testing.T) {
		_, out, _ := r.call(CmdDataflashRead, flashRequest(2000, 10, false), 512)
		require.Len(t, out, 7)
		assert.Equal(t, uint32(2000), binary.LittleEndian.Uint32(out))
		assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(out[4:]))
	})

	t.Run("应答容量限制读取长度", func(t *testing.T) {
		_, out, _ := r.call(CmdDataflashRead, flashRequest(0, 200, false), 50)
		require.Len(t, out, 4+3+50-DataflashInfoSize)
		assert.Equal(t, uint16(50-DataflashInfoSize), binary.LittleEndian.Uint16(out[4:]))
	})

	t.Run("旧格式补零到128字节", func(t *testing.T) {
		_, out, _ := r.call(CmdDataflashRead, le32(990), 512)
		require.Len(t, out, 4+dataflashLegacyReadLen)
		assert.Equal(t, r.flash.data[990:], out[4:14])
		for _, b := range out[14:] {
			assert.Zero(t, b)
		}
	})

	t.Run("未声明闪存能力", func(t *testing.T) {
		r := newRig(t, func(c *fc.Capabilities) { c.Flash = false })
		res, _, _ := r.call(CmdDataflashRead, flashRequest(0, 10, false), 512)
		assert.Equal(t, ResultError, res)
	})
}

func TestDataflashReadCompressed(t *testing.T) {
	tbl := huffman.DefaultTable()
	r := newRig(t, nil, WithEncoder(func(out []byte) StreamEncoder {
		return huffman.NewEncoder(tbl, out)
	}))
	for i := range r.flash.data[:512] {
		r.flash.data[i] = 0
	}

	res, out, _ := r.call(CmdDataflashRead, flashRequest(0, 200, true), 512)
	require.Equal(t, ResultAck, res)
	require.GreaterOrEqual(t, len(out), 9)

	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out))
	encodedLen := int(binary.LittleEndian.Uint16(out[4:])) - huffmanInfoSize
	assert.Equal(t, uint8(CompressionHuffman), out[6])
	total := int(binary.LittleEndian.Uint16(out[7:]))
	require.Len(t, out, 9+encodedLen)
	assert.LessOrEqual(t, encodedLen, 200)

	// 只计入完整编码的块
	require.Positive(t, total)
	assert.Zero(t, total%dataflashChunkSize)

	got, err := huffman.Decode(tbl, out[9:], total)
	require.NoError(t, err)
	assert.Equal(t, r.flash.data[:total], got)

	t.Run("未请求压缩时按原样返回", func(t *testing.T) {
		_, out, _ := r.call(CmdDataflashRead, flashRequest(0, 16, false), 512)
		assert.Equal(t, uint8(CompressionNone), out[6])
		assert.Len(t, out, 7+16)
	})
}

func TestDataflashSummary(t *testing.T) {
	r := newRig(t, nil)
	out := r.mustAck(t, CmdDataflashSummary, nil)
	require.Len(t, out, 13)
	assert.Equal(t, uint8(flashFlagSupported|flashFlagReady), out[0])
	assert.Equal(t, uint32(1000), binary.LittleEndian.Uint32(out[5:]))

	t.Run("擦除在应答之后执行", func(t *testing.T) {
		res, _, slot := r.call(CmdDataflashErase, nil, 16)
		require.Equal(t, ResultAck, res)
		assert.Equal(t, ActionFlashErase, slot.Kind)
		assert.Zero(t, r.flash.erased)

		ok, err := r.engine.Executor().Run(&slot, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, r.flash.erased)
		assert.Equal(t, byte(0xFF), r.flash.data[0])
	})
}
