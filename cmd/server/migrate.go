package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/msp-server/internal/app"
	"github.com/taoyao-code/msp-server/internal/migrate"
	pgstorage "github.com/taoyao-code/msp-server/internal/storage/pg"
)

var migrateStatusOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		pool, err := pgstorage.NewPool(ctx, cfg.Database.DSN, pgstorage.PoolOptions{MaxOpen: 1}, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		runner := app.Migrator(cfg.Database, logger)
		if migrateStatusOnly {
			fsys := runner.FS
			if runner.Dir != "" {
				fsys = os.DirFS(runner.Dir)
			}
			all, err := migrate.Discover(fsys)
			if err != nil {
				return err
			}
			if err := migrate.EnsureTable(ctx, pool); err != nil {
				return err
			}
			applied, err := migrate.AppliedVersions(ctx, pool)
			if err != nil {
				return err
			}
			for _, m := range all {
				state := "pending"
				if applied[m.Version] {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%04d  %-8s %s\n", m.Version, state, m.Path)
			}
			return nil
		}

		n, err := runner.Up(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatusOnly, "status", false, "只列出迁移状态")
	rootCmd.AddCommand(migrateCmd)
}
