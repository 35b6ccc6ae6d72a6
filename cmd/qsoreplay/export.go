package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"qsoreplay/internal/config"
	"qsoreplay/internal/session"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <contest> <first> <last>",
		Short: "Export a QSO range as a zip of audio and log excerpt",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ct, err := cfg.Contest(args[0])
			if err != nil {
				return err
			}
			first, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid QSO number %q", args[1])
			}
			last, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid QSO number %q", args[2])
			}

			s, err := session.Build(*ct)
			if err != nil {
				return fmt.Errorf("build session: %w", err)
			}
			selected, err := s.SelectRange(first, last)
			if err != nil {
				return err
			}
			bundle, err := s.ExportBundle(selected)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			path := output
			if path == "" {
				path = bundle.Name
			}
			if err := os.WriteFile(path, bundle.Zip, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("wrote %s (%d QSOs, %d bytes)\n", path, len(selected), len(bundle.Zip))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output zip path (default: derived from contest and range)")
	return cmd
}
