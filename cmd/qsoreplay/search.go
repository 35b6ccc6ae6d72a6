package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qsoreplay/internal/catalog"
	"qsoreplay/internal/config"
)

const (
	sColorReset = "\033[0m"
	sColorBold  = "\033[1m"
	sColorCyan  = "\033[1;36m"
	sColorGreen = "\033[1;32m"
	sColorDim   = "\033[2m"
)

func colorizeMode(mode string) string {
	switch mode {
	case "CW":
		return sColorCyan + mode + sColorReset
	case "PH", "SSB":
		return sColorGreen + mode + sColorReset
	default:
		return mode
	}
}

func searchCmd() *cobra.Command {
	var contest, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <call>",
		Short: "Search indexed QSOs by callsign substring",
		Long: `Search the QSO database for worked callsigns containing the query,
newest first. Output is an aligned table on a terminal and TSV when piped:
  contest, qso, ts, freq, mode, call, sent, rcvd, file, offset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := catalog.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := catalog.Search(db, catalog.Options{
				Call:    args[0],
				Contest: contest,
				Since:   since,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				for _, r := range results {
					fmt.Printf("%s%-12s%s #%-4d %s%s%s %6s %s %s%-12s%s %s/%s -> %s/%s  %s @ %.1fs\n",
						sColorDim, r.Contest, sColorReset,
						r.Index,
						sColorDim, r.Ts, sColorReset,
						r.Freq,
						colorizeMode(r.Mode),
						sColorBold, r.HisCall, sColorReset,
						r.RstSent, r.ExchSent,
						r.RstRcvd, r.ExchRcvd,
						r.File, r.FileOffset,
					)
				}
				return nil
			}

			for _, r := range results {
				fmt.Printf("%s\t%d\t%s\t%s\t%s\t%s\t%s %s\t%s %s\t%s\t%.1f\n",
					r.Contest, r.Index, r.Ts, r.Freq, r.Mode, r.HisCall,
					r.RstSent, r.ExchSent, r.RstRcvd, r.ExchRcvd,
					r.File, r.FileOffset,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contest, "contest", "", "Filter by contest name")
	cmd.Flags().StringVar(&since, "since", "", "Filter QSOs since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
