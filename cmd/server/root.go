package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "msp-server",
	Short: "MSP flight controller command engine",
	Long: `msp-server - 以 MSP v1/v2 协议对外提供飞控配置与遥测接口。

同一引擎可经 TCP、WebSocket 与串口访问，配置持久化到文件或 PostgreSQL，
黑匣子数据闪存可镜像到 Redis。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 $MSP_CONFIG 或 configs/example.yaml）")
}

// loadConfig 加载配置并初始化全局日志
func loadConfig() (*cfgpkg.Config, *zap.Logger, error) {
	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}
