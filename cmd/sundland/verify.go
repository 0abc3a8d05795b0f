package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/justaride/sundland-pipeline/internal/adapter/jsonfile"
	"github.com/justaride/sundland-pipeline/internal/adapter/nominatim"
	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/verify"
)

// errVerificationIssues signals a completed run that flagged records; the
// report file has the details, so no further error output is needed.
var errVerificationIssues = errors.New("verification found issues")

func createVerifyCmd() *cobra.Command {
	var skipProperties bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check pipeline coordinates against an independent geocoder",
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

			var properties []domain.Property
			if !skipProperties {
				properties, err = jsonfile.Read[[]domain.Property](filepath.Join(rt.cfg.DataDir, propertiesFile))
				if err != nil {
					return err
				}
			}

			client := nominatim.NewClient(nominatim.Config{
				BaseURL:      rt.cfg.NominatimBaseURL,
				UserAgent:    rt.cfg.UserAgent,
				QuerySuffix:  fmt.Sprintf(", %s, Norway", rt.cfg.Municipality),
				CountryCodes: "no",
				Timeout:      rt.cfg.HTTPTimeout,
				Delay:        rt.cfg.VerifyDelay,
				Clock:        clockwork.NewRealClock(),
			}, rt.metrics, rt.logger)

			v := verify.NewVerifier(client, clockwork.NewRealClock(), rt.metrics, rt.logger)
			report, err := v.Run(cmd.Context(), properties, locations)
			if err != nil {
				return err
			}

			if err := jsonfile.Write(filepath.Join(rt.cfg.DataDir, reportFile), report); err != nil {
				return err
			}
			if report.HasIssues() {
				return errVerificationIssues
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipProperties, "skip-properties", false,
		"verify only store locations")
	return cmd
}
