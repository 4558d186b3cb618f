package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/migrate"
	pgstorage "github.com/taoyao-code/msp-server/internal/storage/pg"

	"github.com/taoyao-code/msp-server/db"
)

// ConnectDBAndMigrate 建立数据库连接并按需执行迁移
// cfg.MigrationsDir 为空时使用内置脚本
func ConnectDBAndMigrate(ctx context.Context, cfg cfgpkg.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgstorage.NewPool(ctx, cfg.DSN, pgstorage.PoolOptions{
		MaxOpen:     cfg.MaxOpenConns,
		MaxIdle:     cfg.MaxIdleConns,
		MaxLifetime: cfg.ConnMaxLifetime,
		TraceSQL:    cfg.TraceSQL,
	}, log)
	if err != nil {
		log.Error("db connect error", zap.Error(err))
		return nil, err
	}
	if cfg.AutoMigrate {
		n, err := Migrator(cfg, log).Up(ctx, dbpool)
		if err != nil {
			log.Error("db migrate error", zap.Error(err))
			return dbpool, err
		}
		log.Info("db migrations applied", zap.Int("count", n))
	}
	return dbpool, nil
}

// Migrator 迁移执行器
func Migrator(cfg cfgpkg.DatabaseConfig, log *zap.Logger) migrate.Runner {
	return migrate.Runner{Dir: cfg.MigrationsDir, FS: db.Migrations, Logger: log}
}

// OpenGorm 打开 GORM 连接（板卡身份表）
func OpenGorm(cfg cfgpkg.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Silent
	if cfg.TraceSQL {
		level = gormlogger.Info
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	log.Info("gorm connected")
	return gdb, nil
}
