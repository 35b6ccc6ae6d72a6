package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
	"qsoreplay/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <contest>",
		Short: "Browse a contest's QSOs, jump into the recording, export ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ct, err := cfg.Contest(args[0])
			if err != nil {
				return err
			}

			s, err := session.Build(*ct)
			if err != nil {
				return fmt.Errorf("build session: %w", err)
			}
			return tui.Run(s, cfg.Player)
		},
	}
}
