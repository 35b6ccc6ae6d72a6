package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
	"qsoreplay/internal/web"
)

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve contests over HTTP (QSO lists, exports, raw audio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if listen != "" {
				cfg.Listen = listen
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			reg := session.BuildRegistry(cfg, logger)
			if reg.Len() == 0 {
				return fmt.Errorf("no contests could be loaded")
			}

			srv := web.New(cfg, reg, logger)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
