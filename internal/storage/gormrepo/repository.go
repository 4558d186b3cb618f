package gormrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/storage"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// Repository 基于 GORM 的 BoardRepo 实现。
// 使用 isTx 标记区分事务上下文，避免嵌套事务重复 Begin/Commit。
type Repository struct {
	db   *gorm.DB
	isTx bool
}

// New 返回一个使用给定 *gorm.DB 的 BoardRepo 实例。
func New(db *gorm.DB) storage.BoardRepo {
	return &Repository{db: db}
}

// WithTx 复用现有事务或开启新事务执行 fn。
func (r *Repository) WithTx(ctx context.Context, fn func(storage.BoardRepo) error) error {
	if r.isTx {
		return fn(r)
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	child := &Repository{db: tx, isTx: true}
	if err := fn(child); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// GetBoard 通过 UID 查询板卡。
func (r *Repository) GetBoard(ctx context.Context, uid string) (*models.BoardIdentity, error) {
	var b models.BoardIdentity
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// EnsureBoard 若板卡不存在则插入空记录。
func (r *Repository) EnsureBoard(ctx context.Context, uid string) (*models.BoardIdentity, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, DoNothing: true}).
		Create(&models.BoardIdentity{UID: uid}).Error
	if err != nil {
		return nil, err
	}
	return r.GetBoard(ctx, uid)
}

// SetBoardInfo 行锁后判定是否已写入。
func (r *Repository) SetBoardInfo(ctx context.Context, uid, boardName, manufacturerID string) error {
	return r.WithTx(ctx, func(repo storage.BoardRepo) error {
		tx := repo.(*Repository)
		b, err := tx.lockBoard(ctx, uid)
		if err != nil {
			return err
		}
		if b.InfoSetAt != nil {
			return fc.ErrImmutable
		}
		now := time.Now()
		return tx.db.WithContext(ctx).Model(&models.BoardIdentity{}).
			Where("uid = ?", uid).
			Updates(map[string]interface{}{
				"board_name":      boardName,
				"manufacturer_id": manufacturerID,
				"info_set_at":     now,
				"updated_at":      now,
			}).Error
	})
}

// SetSignature 行锁后判定是否已写入。
func (r *Repository) SetSignature(ctx context.Context, uid string, signature []byte) error {
	return r.WithTx(ctx, func(repo storage.BoardRepo) error {
		tx := repo.(*Repository)
		b, err := tx.lockBoard(ctx, uid)
		if err != nil {
			return err
		}
		if b.SignatureSetAt != nil {
			return fc.ErrImmutable
		}
		now := time.Now()
		return tx.db.WithContext(ctx).Model(&models.BoardIdentity{}).
			Where("uid = ?", uid).
			Updates(map[string]interface{}{
				"signature":        signature,
				"signature_set_at": now,
				"updated_at":       now,
			}).Error
	})
}

func (r *Repository) lockBoard(ctx context.Context, uid string) (*models.BoardIdentity, error) {
	if _, err := r.EnsureBoard(ctx, uid); err != nil {
		return nil, err
	}
	var b models.BoardIdentity
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uid = ?", uid).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}
