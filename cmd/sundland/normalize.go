package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/justaride/sundland-pipeline/internal/adapter/jsonfile"
	"github.com/justaride/sundland-pipeline/internal/plaace"
)

func createNormalizeCmd() *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a Plaace CSV export into the JSON datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			ds, err := plaace.NewNormalizer(exportDir, rt.logger).Run()
			if err != nil {
				return err
			}

			outputs := []struct {
				name string
				data any
			}{
				{demographicsFile, ds.Demographics},
				{visitorsFile, ds.Visitors},
				{commerceFile, ds.Commerce},
				{cardTransactionsFile, ds.CardTransactions},
				{growthFile, ds.Growth},
				{keyMetricsFile, ds.KeyMetrics},
				// The store list is also written standalone as the
				// geocoder's input.
				{storesFile, ds.Commerce.Stores},
			}
			for _, out := range outputs {
				path := filepath.Join(rt.cfg.DataDir, out.name)
				if err := jsonfile.Write(path, out.data); err != nil {
					return err
				}
				rt.logger.Info("wrote dataset", "path", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exportDir, "export-dir", "plaace-export",
		"directory containing the Plaace CSV export files")
	return cmd
}
