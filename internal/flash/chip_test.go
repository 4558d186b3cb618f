package flash

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var small = Geometry{PageSize: 256, SectorSize: 1024, Sectors: 4}

type memImage struct {
	data    []byte
	cleared int
}

func (m *memImage) LoadImage(context.Context) ([]byte, error) { return m.data, nil }
func (m *memImage) AppendImage(_ context.Context, off uint32, p []byte) error {
	if need := int(off) + len(p); need > len(m.data) {
		m.data = append(m.data, make([]byte, need-len(m.data))...)
	}
	copy(m.data[off:], p)
	return nil
}
func (m *memImage) ClearImage(context.Context) error {
	m.data = nil
	m.cleared++
	return nil
}

func TestChip(t *testing.T) {
	ctx := context.Background()
	img := &memImage{}
	c, err := New(small, WithImageStore(img))
	require.NoError(t, err)

	g := c.Geometry()
	assert.Equal(t, uint32(4096), g.TotalSize)
	assert.Equal(t, uint32(4), g.Sectors)
	assert.True(t, c.Ready())

	n, err := c.Append(ctx, []byte("blackbox"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, uint32(8), c.Offset())

	buf := make([]byte, 8)
	assert.Equal(t, 8, c.ReadAt(buf, 0))
	assert.Equal(t, "blackbox", string(buf))
	assert.Equal(t, []byte("blackbox"), img.data)

	t.Run("读取截断到芯片末尾", func(t *testing.T) {
		assert.Equal(t, 6, c.ReadAt(make([]byte, 100), 4090))
		assert.Zero(t, c.ReadAt(make([]byte, 10), 5000))
	})

	t.Run("写满返回已写入部分", func(t *testing.T) {
		n, err := c.Append(ctx, bytes.Repeat([]byte{1}, 5000))
		assert.ErrorIs(t, err, ErrFull)
		assert.Equal(t, 4096-8, n)
		assert.Equal(t, uint32(4096), c.Offset())
	})

	t.Run("擦除", func(t *testing.T) {
		require.NoError(t, c.EraseAll())
		assert.Zero(t, c.Offset())
		assert.Equal(t, 1, img.cleared)
	})
}

func TestChipRestore(t *testing.T) {
	img := &memImage{data: []byte("persisted log")}
	c, err := New(small, WithImageStore(img))
	require.NoError(t, err)
	require.NoError(t, c.Restore(context.Background()))

	assert.Equal(t, uint32(13), c.Offset())
	buf := make([]byte, 13)
	c.ReadAt(buf, 0)
	assert.Equal(t, "persisted log", string(buf))

	t.Run("从数据源追加", func(t *testing.T) {
		n, err := c.Seed(context.Background(), bytes.NewReader(bytes.Repeat([]byte{7}, 600)))
		require.NoError(t, err)
		assert.Equal(t, 600, n)
		assert.Equal(t, uint32(613), c.Offset())
	})
}

func TestInvalidGeometry(t *testing.T) {
	_, err := New(Geometry{PageSize: 256, SectorSize: 100, Sectors: 1})
	assert.Error(t, err)
}
