package storage

import (
	"context"
	"errors"

	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("storage: not found")

// BoardRepo 板卡身份的存储抽象
// 约束：
// - 名称/厂商编号与签名各自只能写入一次，重复写入返回 fc.ErrImmutable
// - 实现需要提供事务封装 WithTx，保证读-判-写原子
type BoardRepo interface {
	// WithTx 在单个事务中执行 fn，嵌套调用复用当前事务
	WithTx(ctx context.Context, fn func(repo BoardRepo) error) error

	// GetBoard 查询板卡，不存在返回 ErrNotFound
	GetBoard(ctx context.Context, uid string) (*models.BoardIdentity, error)
	// EnsureBoard 若不存在则创建空记录
	EnsureBoard(ctx context.Context, uid string) (*models.BoardIdentity, error)
	// SetBoardInfo 一次性写入名称与厂商编号
	SetBoardInfo(ctx context.Context, uid, boardName, manufacturerID string) error
	// SetSignature 一次性写入签名
	SetSignature(ctx context.Context, uid string, signature []byte) error
}
