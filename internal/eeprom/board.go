package eeprom

import (
	"context"
	"sync"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// MemoryBoardStore 进程内的一次性板卡信息存储
type MemoryBoardStore struct {
	mu        sync.Mutex
	board     fc.BoardConfig
	infoSet   bool
	signature []byte
}

// NewMemoryBoardStore 创建
func NewMemoryBoardStore() *MemoryBoardStore { return &MemoryBoardStore{} }

// PersistBoardInfo 写入板卡名称与厂商编号，重复写入返回 fc.ErrImmutable
func (m *MemoryBoardStore) PersistBoardInfo(_ context.Context, board fc.BoardConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.infoSet {
		return fc.ErrImmutable
	}
	m.board.BoardName = board.BoardName
	m.board.ManufacturerID = board.ManufacturerID
	m.infoSet = true
	return nil
}

// PersistSignature 写入签名，重复写入返回 fc.ErrImmutable
func (m *MemoryBoardStore) PersistSignature(_ context.Context, sig []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signature != nil {
		return fc.ErrImmutable
	}
	m.signature = append([]byte{}, sig...)
	return nil
}

// Apply 将已持久化的板卡信息覆盖到配置
func (m *MemoryBoardStore) Apply(cfg *fc.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.infoSet {
		cfg.Board.BoardName = m.board.BoardName
		cfg.Board.ManufacturerID = m.board.ManufacturerID
		cfg.Board.InfoSet = true
	}
	if m.signature != nil {
		cfg.Board.Signature = append([]byte(nil), m.signature...)
		cfg.Board.SignatureSet = true
	}
}
