package app

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/flash"
	redisstorage "github.com/taoyao-code/msp-server/internal/storage/redis"
)

// NewFlashChip 创建数据闪存；redis 后端先从镜像恢复，空芯片再按 SeedFile 预置日志
func NewFlashChip(ctx context.Context, cfg cfgpkg.FlashConfig, rc *redisstorage.Client, boardUID string, log *zap.Logger) (*flash.Chip, error) {
	opts := []flash.Option{flash.WithLogger(log)}
	if cfg.Backend == "redis" {
		if rc == nil {
			return nil, errors.New("flash: redis backend without redis client")
		}
		opts = append(opts, flash.WithImageStore(redisstorage.NewFlashStore(rc, boardUID)))
	}
	chip, err := flash.New(flash.Geometry{PageSize: cfg.PageSize, SectorSize: cfg.SectorSize, Sectors: cfg.Sectors}, opts...)
	if err != nil {
		return nil, err
	}
	if err := chip.Restore(ctx); err != nil {
		return nil, err
	}

	if cfg.SeedFile != "" && chip.Offset() == 0 {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		n, err := chip.Seed(ctx, f)
		if err != nil && !errors.Is(err, flash.ErrFull) {
			return nil, err
		}
		log.Info("flash seeded", zap.String("file", cfg.SeedFile), zap.Int("bytes", n))
	}
	log.Info("flash ready", zap.String("backend", cfg.Backend), zap.Uint32("used", chip.Offset()))
	return chip, nil
}
