package redis

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/flash"
)

// 需要 Redis：TEST_REDIS_ADDR 未设置或连接失败时跳过
func testClient(t *testing.T) *Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR 未设置，跳过测试")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis 不可用: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return Wrap(rdb, "msp-test:")
}

func TestKey(t *testing.T) {
	c := Wrap(nil, "msp:")
	assert.Equal(t, "msp:flash:abc", c.Key("flash", "abc"))
}

func TestFlashStore(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	s := NewFlashStore(c, "board-1")
	require.NoError(t, s.ClearImage(ctx))

	chip, err := flash.New(flash.Geometry{PageSize: 256, SectorSize: 1024, Sectors: 2}, flash.WithImageStore(s))
	require.NoError(t, err)
	_, err = chip.Append(ctx, []byte("hello "))
	require.NoError(t, err)
	_, err = chip.Append(ctx, []byte("world"))
	require.NoError(t, err)

	img, err := s.LoadImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(img))

	t.Run("新芯片从镜像恢复", func(t *testing.T) {
		other, err := flash.New(flash.Geometry{PageSize: 256, SectorSize: 1024, Sectors: 2}, flash.WithImageStore(s))
		require.NoError(t, err)
		require.NoError(t, other.Restore(ctx))
		assert.Equal(t, uint32(11), other.Offset())
	})

	t.Run("擦除清空镜像", func(t *testing.T) {
		require.NoError(t, chip.EraseAll())
		n, err := s.Size(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
