package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "qsoreplay",
		Short:   "Replay contest QSOs against the recording of the contest",
		Version: version,
	}

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
