// Command sundland runs the Sundland/Gulskogen urban-development data
// pipeline: normalizing Plaace analytics exports, geocoding stores and
// development properties, enriching stores with business-register data, and
// verifying the resulting coordinates.
//
// Each subcommand is one batch stage reading and writing JSON files under
// DATA_DIR. Stages are rerunnable; outputs are only written when a stage
// finishes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Artifact file names under DATA_DIR.
const (
	storesFile         = "stores.json"
	storeLocationsFile = "storeLocations.json"
	propertiesFile     = "properties.json"
	manualFile         = "manual_enrichment.json"
	reportFile         = "verification_report.json"

	demographicsFile     = "demographics.json"
	visitorsFile         = "visitors.json"
	commerceFile         = "commerce.json"
	cardTransactionsFile = "cardTransactions.json"
	growthFile           = "growth.json"
	keyMetricsFile       = "keyMetrics.json"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "sundland",
		Short:         "Sundland/Gulskogen urban development data pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		createNormalizeCmd(),
		createGeocodeCmd(),
		createEnrichCmd(),
		createVerifyCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errVerificationIssues) {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
