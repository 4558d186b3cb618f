package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/storage"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// fakeRepo 内存 BoardRepo
type fakeRepo struct {
	boards map[string]*models.BoardIdentity
}

func (f *fakeRepo) WithTx(_ context.Context, fn func(storage.BoardRepo) error) error { return fn(f) }

func (f *fakeRepo) GetBoard(_ context.Context, uid string) (*models.BoardIdentity, error) {
	b, ok := f.boards[uid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

func (f *fakeRepo) EnsureBoard(ctx context.Context, uid string) (*models.BoardIdentity, error) {
	if _, ok := f.boards[uid]; !ok {
		f.boards[uid] = &models.BoardIdentity{UID: uid}
	}
	return f.GetBoard(ctx, uid)
}

func (f *fakeRepo) SetBoardInfo(ctx context.Context, uid, name, manufacturer string) error {
	b, _ := f.EnsureBoard(ctx, uid)
	if b.InfoSetAt != nil {
		return fc.ErrImmutable
	}
	now := time.Now()
	b.BoardName, b.ManufacturerID, b.InfoSetAt = &name, &manufacturer, &now
	return nil
}

func (f *fakeRepo) SetSignature(ctx context.Context, uid string, sig []byte) error {
	b, _ := f.EnsureBoard(ctx, uid)
	if b.SignatureSetAt != nil {
		return fc.ErrImmutable
	}
	now := time.Now()
	b.Signature, b.SignatureSetAt = sig, &now
	return nil
}

func TestBoardStore(t *testing.T) {
	ctx := context.Background()
	s := BoardStore{Repo: &fakeRepo{boards: map[string]*models.BoardIdentity{}}, UID: "0011aa"}

	t.Run("未写入时不修改配置", func(t *testing.T) {
		cfg := fc.Defaults()
		require.NoError(t, s.Apply(ctx, cfg))
		assert.False(t, cfg.Board.InfoSet)
	})

	require.NoError(t, s.PersistBoardInfo(ctx, fc.BoardConfig{BoardName: "SIMF4", ManufacturerID: "TAOY"}))
	require.NoError(t, s.PersistSignature(ctx, []byte{1, 2, 3}))

	t.Run("重复写入被拒绝", func(t *testing.T) {
		assert.ErrorIs(t, s.PersistBoardInfo(ctx, fc.BoardConfig{BoardName: "X"}), fc.ErrImmutable)
		assert.ErrorIs(t, s.PersistSignature(ctx, []byte{9}), fc.ErrImmutable)
	})

	t.Run("启动时覆盖到配置", func(t *testing.T) {
		cfg := fc.Defaults()
		require.NoError(t, s.Apply(ctx, cfg))
		assert.Equal(t, "SIMF4", cfg.Board.BoardName)
		assert.Equal(t, "TAOY", cfg.Board.ManufacturerID)
		assert.Equal(t, []byte{1, 2, 3}, cfg.Board.Signature)
		assert.True(t, cfg.Board.InfoSet && cfg.Board.SignatureSet)
	})
}
