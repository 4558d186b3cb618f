package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// FlashStore 数据闪存镜像，按板卡 UID 存放为一个字符串值
// 追加通过 SETRANGE 写入指定偏移，镜像长度即日志末尾
type FlashStore struct {
	client *Client
	key    string
}

// NewFlashStore 创建
func NewFlashStore(client *Client, boardUID string) *FlashStore {
	return &FlashStore{client: client, key: client.Key("flash", boardUID)}
}

// LoadImage 读取镜像，不存在时返回空
func (s *FlashStore) LoadImage(ctx context.Context) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	return b, nil
}

// AppendImage 写入 offset 处的数据
func (s *FlashStore) AppendImage(ctx context.Context, offset uint32, data []byte) error {
	if err := s.client.SetRange(ctx, s.key, int64(offset), string(data)).Err(); err != nil {
		return fmt.Errorf("setrange %s: %w", s.key, err)
	}
	return nil
}

// ClearImage 删除镜像
func (s *FlashStore) ClearImage(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Size 镜像长度
func (s *FlashStore) Size(ctx context.Context) (int64, error) {
	return s.client.StrLen(ctx, s.key).Result()
}
