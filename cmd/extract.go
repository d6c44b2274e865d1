package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencivic/councilvotes/internal/config"
	"github.com/opencivic/councilvotes/internal/service"
	"github.com/opencivic/councilvotes/internal/store"
)

var (
	extractYear      int
	extractQuarter   int
	extractSkipText  bool
	extractVotesOnly bool
	extractOutputDir string
	extractConfig    string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract council voting data for a year and quarter",
	Long: `Extract downloads one quarter of city council records from the
Legistar API, enriches agenda items with matter detail and attachments,
assigns per-member votes (explicit roll calls, with attendance-based
inference for consent and voice votes), optionally scrapes the full
legislative text from the public web UI, and writes three CSV files:
all items, voted items only, and persons.

Examples:
  # Extract Q2 2023 data
  councilvotes extract --year 2023 --quarter 2

  # Extract without full text scraping (faster); text from a prior
  # run's output is carried forward
  councilvotes extract --year 2024 --quarter 4 --skip-text

  # Only output items with a recorded vote outcome
  councilvotes extract --year 2023 --quarter 1 --votes-only`,
	Run: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().IntVarP(&extractYear, "year", "y", 0, "Year to extract (e.g., 2023)")
	extractCmd.Flags().IntVarP(&extractQuarter, "quarter", "q", 0, "Quarter to extract (1-4)")
	extractCmd.Flags().BoolVar(&extractSkipText, "skip-text", false, "Skip full text scraping")
	extractCmd.Flags().BoolVar(&extractVotesOnly, "votes-only", false, "Only output items with a vote outcome")
	extractCmd.Flags().StringVar(&extractOutputDir, "output-dir", "", "Override the configured output directory")
	extractCmd.Flags().StringVar(&extractConfig, "config", "", "Path to config file")

	extractCmd.MarkFlagRequired("year")
	extractCmd.MarkFlagRequired("quarter")
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg, resolved, exists, err := config.Load(extractConfig)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if exists {
		log.Printf("Using config file: %s", resolved)
	}
	if extractOutputDir != "" {
		cfg.Output.Dir = extractOutputDir
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	client := service.NewLegistarClient(cfg.API)
	scraper := service.NewPageScraper(cfg.Web, cfg.API)
	csvStore := store.NewCSVStore(cfg.Output.Dir, cfg.Output.Prefix)

	extractor, err := service.NewExtractor(cfg, client, scraper, csvStore, service.Options{
		Year:      extractYear,
		Quarter:   extractQuarter,
		SkipText:  extractSkipText,
		VotesOnly: extractVotesOnly,
	})
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
	}

	stats, err := extractor.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Extraction cancelled")
			printSummary(stats)
			os.Exit(1)
		}
		log.Fatalf("Extraction failed: %v", err)
	}

	printSummary(stats)

	if stats.FetchErrors > 0 {
		os.Exit(1)
	}
}
