package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qsoreplay/internal/catalog"
	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index all configured contests into the search database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			reg := session.BuildRegistry(cfg, logger)
			if reg.Len() == 0 {
				return fmt.Errorf("no contests could be loaded")
			}

			db, err := catalog.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			stats, err := catalog.IndexRegistry(db, reg)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			fmt.Println(stats)
			return nil
		},
	}
}
