package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/justaride/sundland-pipeline/internal/adapter/brreg"
	"github.com/justaride/sundland-pipeline/internal/adapter/jsonfile"
	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/enrich"
)

func createEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Attach business-register and hand-curated data to store locations",
	}
	cmd.AddCommand(createEnrichRegistryCmd(), createManualTemplateCmd())
	return cmd
}

func createEnrichRegistryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Match store locations against the business register",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			path := filepath.Join(rt.cfg.DataDir, storeLocationsFile)
			locations, err := jsonfile.Read[[]domain.StoreLocation](path)
			if err != nil {
				return err
			}

			client := brreg.NewClient(brreg.Config{
				BaseURL:  rt.cfg.BrregBaseURL,
				PageSize: rt.cfg.RegistryPageSize,
				Timeout:  rt.cfg.HTTPTimeout,
				Delay:    rt.cfg.RegistryDelay,
				Clock:    clockwork.NewRealClock(),
			}, rt.metrics, rt.logger)

			matcher := enrich.NewMatcher(client, rt.cfg.MatchThreshold, rt.metrics, rt.logger)
			if _, err := matcher.Run(cmd.Context(), locations); err != nil {
				return err
			}

			// Hand-curated values win over whatever the register returned.
			entries, err := readManualEntries(rt)
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				applied := enrich.ApplyManual(locations, entries)
				rt.logger.Info("applied manual enrichment", "stores", applied)
			}

			return jsonfile.Write(path, locations)
		},
	}
}

func createManualTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manual-template",
		Short: "Regenerate the manual enrichment file, keeping filled-in research",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			locations, err := jsonfile.Read[[]domain.StoreLocation](filepath.Join(rt.cfg.DataDir, storeLocationsFile))
			if err != nil {
				return err
			}
			existing, err := readManualEntries(rt)
			if err != nil {
				return err
			}

			entries := enrich.BuildManualTemplate(locations, existing)
			rt.logger.Info("manual template built",
				"entries", len(entries), "carried_over", len(existing))
			return jsonfile.Write(filepath.Join(rt.cfg.DataDir, manualFile), entries)
		},
	}
}

// readManualEntries loads the manual enrichment file; a missing file just
// means nobody has researched anything yet.
func readManualEntries(rt *runtime) ([]enrich.ManualEntry, error) {
	entries, err := jsonfile.Read[[]enrich.ManualEntry](filepath.Join(rt.cfg.DataDir, manualFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}
