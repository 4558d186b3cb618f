package gormrepo

import (
	"context"
	"errors"

	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/storage"
)

// BoardStore 以 BoardRepo 实现 fc.BoardStore，绑定到一块板卡
type BoardStore struct {
	Repo storage.BoardRepo
	UID  string
}

// PersistBoardInfo 写入名称与厂商编号
func (s BoardStore) PersistBoardInfo(ctx context.Context, board fc.BoardConfig) error {
	return s.Repo.SetBoardInfo(ctx, s.UID, board.BoardName, board.ManufacturerID)
}

// PersistSignature 写入签名
func (s BoardStore) PersistSignature(ctx context.Context, sig []byte) error {
	return s.Repo.SetSignature(ctx, s.UID, sig)
}

// Apply 读取已持久化的身份覆盖到配置，板卡不存在时不做修改
func (s BoardStore) Apply(ctx context.Context, cfg *fc.Config) error {
	b, err := s.Repo.GetBoard(ctx, s.UID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if b.InfoSetAt != nil {
		if b.BoardName != nil {
			cfg.Board.BoardName = *b.BoardName
		}
		if b.ManufacturerID != nil {
			cfg.Board.ManufacturerID = *b.ManufacturerID
		}
		cfg.Board.InfoSet = true
	}
	if b.SignatureSetAt != nil {
		cfg.Board.Signature = append([]byte(nil), b.Signature...)
		cfg.Board.SignatureSet = true
	}
	return nil
}
