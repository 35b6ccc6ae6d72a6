package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured contests and whether they build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(cfg.Contests) == 0 {
				fmt.Fprintln(os.Stderr, "No contests configured.")
				return nil
			}

			for _, ct := range cfg.Contests {
				s, err := session.Build(ct)
				if err != nil {
					fmt.Printf("%-16s ERROR  %v\n", ct.Name, err)
					continue
				}
				fmt.Printf("%-16s OK     %4d QSOs  %6.0fs audio  pre-roll %gs\n",
					s.Name, len(s.QSOs()), s.Timeline.TotalDuration(), s.PreRoll)
			}
			return nil
		},
	}
}
