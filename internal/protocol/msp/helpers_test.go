package msp

import (
	"encoding/binary"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// memFlash 内存数据闪存
type memFlash struct {
	data   []byte
	erased int
}

func newMemFlash(size int) *memFlash {
	f := &memFlash{data: make([]byte, size)}
	for i := range f.data {
		f.data[i] = byte(i)
	}
	return f
}

func (f *memFlash) Supported() bool { return true }
func (f *memFlash) Ready() bool     { return true }
func (f *memFlash) Geometry() fc.FlashGeometry {
	return fc.FlashGeometry{Sectors: 1, TotalSize: uint32(len(f.data)), PageSize: 256, SectorSize: uint32(len(f.data))}
}
func (f *memFlash) Offset() uint32 { return uint32(len(f.data)) }
func (f *memFlash) ReadAt(p []byte, addr uint32) int {
	if int(addr) >= len(f.data) {
		return 0
	}
	return copy(p, f.data[addr:])
}
func (f *memFlash) EraseAll() error {
	f.erased++
	for i := range f.data {
		f.data[i] = 0xFF
	}
	return nil
}

type testRig struct {
	engine *Engine
	ctx    *fc.Context
	sim    *fc.Simulator
	flash  *memFlash
}

func newRig(t *testing.T, mutate func(*fc.Capabilities), opts ...Option) *testRig {
	t.Helper()
	caps := fc.DefaultCapabilities()
	if mutate != nil {
		mutate(&caps)
	}
	sim := fc.NewSimulator(zap.NewNop())
	flash := newMemFlash(1000)
	svc := sim.Services(fc.Services{Flash: flash})
	c := fc.NewContext(caps, fc.DefaultIdentity(), nil, svc)
	sim.Bind(c)
	return &testRig{engine: New(c, opts...), ctx: c, sim: sim, flash: flash}
}

// call 以给定应答容量执行一条命令
func (r *testRig) call(cmd uint8, payload []byte, capacity int) (Result, []byte, Action) {
	var slot Action
	dst := NewWriter(capacity)
	res := r.engine.Process(cmd, NewReader(payload), dst, &slot)
	return res, dst.Bytes(), slot
}

func (r *testRig) mustAck(t *testing.T, cmd uint8, payload []byte) []byte {
	t.Helper()
	res, out, _ := r.call(cmd, payload, 512)
	require.Equal(t, ResultAck, res, "cmd %s", CommandName(cmd))
	return out
}

func (r *testRig) snapshot(t *testing.T) []byte {
	t.Helper()
	b, err := cbor.Marshal(r.ctx.Config)
	require.NoError(t, err)
	return b
}

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
