package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/eeprom"
	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/storage/gormrepo"
	pgstorage "github.com/taoyao-code/msp-server/internal/storage/pg"
)

// NewEEPROMBackend 按配置选择快照后端；postgres 需要 repo
func NewEEPROMBackend(cfg cfgpkg.EEPROMConfig, repo *pgstorage.Repository, boardUID string) (eeprom.Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return eeprom.NewMemoryBackend(), nil
	case "file":
		return eeprom.FileBackend{Path: cfg.Path}, nil
	case "postgres":
		if repo == nil {
			return nil, errors.New("eeprom: postgres backend without database")
		}
		return repo.SnapshotBackend(boardUID, cfg.Keep), nil
	default:
		return nil, fmt.Errorf("eeprom: unknown backend %q", cfg.Backend)
	}
}

// LoadInitialConfig 读取启动配置
// 后端为空且给定 profile 时以 profile 为准并立即写回，保证重启后一致
func LoadInitialConfig(ctx context.Context, backend eeprom.Backend, store *eeprom.Store, profile string, log *zap.Logger) (*fc.Config, error) {
	_, err := backend.ReadSnapshot(ctx)
	switch {
	case errors.Is(err, eeprom.ErrEmpty) && profile != "":
		cfg, perr := fc.LoadProfile(profile)
		if perr != nil {
			return nil, perr
		}
		if serr := store.Save(ctx, cfg); serr != nil {
			return nil, serr
		}
		log.Info("eeprom seeded from profile", zap.String("profile", profile))
		return cfg, nil
	case err != nil && !errors.Is(err, eeprom.ErrEmpty):
		return nil, err
	}
	return store.Load(ctx)
}

// BoardIdentityStore 板卡身份存储，启动时把已持久化的名称/签名覆盖到配置
type BoardIdentityStore interface {
	fc.BoardStore
	ApplyTo(ctx context.Context, cfg *fc.Config) error
}

type memoryBoard struct{ *eeprom.MemoryBoardStore }

func (m memoryBoard) ApplyTo(_ context.Context, cfg *fc.Config) error {
	m.Apply(cfg)
	return nil
}

type gormBoard struct{ gormrepo.BoardStore }

func (g gormBoard) ApplyTo(ctx context.Context, cfg *fc.Config) error { return g.Apply(ctx, cfg) }

// NewBoardStore gdb 为 nil 时使用进程内存储
func NewBoardStore(gdb *gorm.DB, boardUID string) BoardIdentityStore {
	if gdb == nil {
		return memoryBoard{eeprom.NewMemoryBoardStore()}
	}
	return gormBoard{gormrepo.BoardStore{Repo: gormrepo.New(gdb), UID: boardUID}}
}
