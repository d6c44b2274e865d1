package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "councilvotes",
	Short: "Extract city council voting data from Legistar",
	Long: `councilvotes extracts municipal legislative records (agenda items,
roll-call votes, attendance, matter metadata, and full legislative text)
from a city council's Legistar API and website, and writes normalized
CSV output for downstream analysis.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
