package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/msp-server/internal/app/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 MSP 服务（TCP / WebSocket / 串口 / HTTP）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return bootstrap.Run(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
