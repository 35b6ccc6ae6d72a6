package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qsoreplay/internal/config"
	"qsoreplay/internal/open"
	"qsoreplay/internal/session"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <contest> <qso>",
		Short: "Play the recording at a QSO's position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ct, err := cfg.Contest(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid QSO number %q", args[1])
			}

			s, err := session.Build(*ct)
			if err != nil {
				return fmt.Errorf("build session: %w", err)
			}
			return open.QSO(s, index, cfg.Player)
		},
	}
}
