package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qsoreplay/internal/audiodir"
	"qsoreplay/internal/cabrillo"
	"qsoreplay/internal/catalog"
	"qsoreplay/internal/config"
	"qsoreplay/internal/mapping"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify contest configs, audio, logs, and show DB stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Contests ===")
			if len(cfg.Contests) == 0 {
				fmt.Println("  none configured")
			}
			for _, ct := range cfg.Contests {
				fmt.Printf("  [%s]\n", ct.Name)
				checkAudioDir(ct.AudioDir)
				checkLogFile(ct.LogFile)
				checkAnchor("recording_start", ct.RecordingStart)
				checkAnchor("contest_start", ct.ContestStart)
				if _, err := mapping.ParsePolicy(ct.Clamp); err != nil {
					fmt.Printf("    clamp: %v\n", err)
				}
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'qsoreplay index' first)")
				return nil
			}

			db, err := catalog.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			contestCount, err := db.ContestCount()
			if err != nil {
				return fmt.Errorf("count contests: %w", err)
			}
			qsoCount, err := db.QSOCount()
			if err != nil {
				return fmt.Errorf("count QSOs: %w", err)
			}
			fmt.Printf("  Contests: %d\n", contestCount)
			fmt.Printf("  QSOs:     %d\n", qsoCount)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkAudioDir(dir string) {
	if info, err := os.Stat(dir); err != nil {
		fmt.Printf("    audio: %s (NOT FOUND)\n", dir)
		return
	} else if !info.IsDir() {
		fmt.Printf("    audio: %s (NOT A DIRECTORY)\n", dir)
		return
	}
	names, err := audiodir.List(dir)
	if err != nil {
		fmt.Printf("    audio: %s (%v)\n", dir, err)
		return
	}
	fmt.Printf("    audio: %s (%d mp3 files)\n", dir, len(names))
}

func checkLogFile(path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("    log: %s (NOT FOUND)\n", path)
		return
	}
	doc, err := cabrillo.ParseFile(path, cabrillo.ParseOptions{})
	if err != nil {
		fmt.Printf("    log: %s (parse error: %v)\n", path, err)
		return
	}
	fmt.Printf("    log: %s (%d QSOs)\n", path, len(doc.QSOs))
}

func checkAnchor(name, value string) {
	if _, err := config.ParseAnchor(value); err != nil {
		fmt.Printf("    %s: %v\n", name, err)
	}
}
