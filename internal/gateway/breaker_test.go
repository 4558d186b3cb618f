package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker(t *testing.T) {
	now := time.Unix(0, 0)
	b := NewBreaker(3, time.Second)
	b.now = func() time.Time { return now }
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Call(func() error { return boom }), boom)
	}
	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Call(func() error { return nil }), ErrBreakerOpen)

	t.Run("冷却后半开并恢复", func(t *testing.T) {
		now = now.Add(2 * time.Second)
		assert.NoError(t, b.Call(func() error { return nil }))
		assert.Equal(t, BreakerHalfOpen, b.State())
		assert.NoError(t, b.Call(func() error { return nil }))
		assert.Equal(t, BreakerClosed, b.State())
	})

	t.Run("半开失败立即熔断", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_ = b.Call(func() error { return boom })
		}
		now = now.Add(2 * time.Second)
		_ = b.Call(func() error { return boom })
		assert.Equal(t, BreakerOpen, b.State())
		assert.Equal(t, int64(3), b.Trips())
	})

	t.Run("成功清零失败计数", func(t *testing.T) {
		c := NewBreaker(2, time.Second)
		_ = c.Call(func() error { return boom })
		_ = c.Call(func() error { return nil })
		_ = c.Call(func() error { return boom })
		assert.Equal(t, BreakerClosed, c.State())
	})
}
