package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "report-consensus",
	Short: "A CLI for managing the report consensus services",
	Long:  `Report Consensus ingests equity analyst reports, resolves their referenced entities and serves per-stock consensus summaries.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
