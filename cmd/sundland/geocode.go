package main

import (
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/justaride/sundland-pipeline/internal/adapter/geonorge"
	"github.com/justaride/sundland-pipeline/internal/adapter/jsonfile"
	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/geocode"
)

func createGeocodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Resolve map coordinates for stores or development properties",
	}
	cmd.AddCommand(createGeocodeStoresCmd(), createGeocodePropertiesCmd())
	return cmd
}

func createGeocodeStoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "Geocode the normalized store list into store locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			stores, err := jsonfile.Read[[]domain.Store](filepath.Join(rt.cfg.DataDir, storesFile))
			if err != nil {
				return err
			}
			overrides, err := geocode.LoadOverrides(rt.cfg.OverridesPath, rt.logger)
			if err != nil {
				return err
			}

			client := kartverketClient(rt, rt.cfg.GeocodeDelay)
			g := geocode.NewStoreGeocoder(client, client, overrides, rt.metrics, rt.logger)

			locations, _, err := g.Run(cmd.Context(), stores)
			if err != nil {
				return err
			}
			return jsonfile.Write(filepath.Join(rt.cfg.DataDir, storeLocationsFile), locations)
		},
	}
}

func createGeocodePropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "Geocode the development property list in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			path := filepath.Join(rt.cfg.DataDir, propertiesFile)
			properties, err := jsonfile.ReadObjects(path)
			if err != nil {
				return err
			}
			overrides, err := geocode.LoadOverrides(rt.cfg.OverridesPath, rt.logger)
			if err != nil {
				return err
			}

			client := kartverketClient(rt, rt.cfg.PropertyGeocodeDelay)
			g := geocode.NewPropertyGeocoder(client, client, overrides, rt.metrics, rt.logger)

			if _, err := g.Run(cmd.Context(), properties); err != nil {
				return err
			}
			return jsonfile.Write(path, properties)
		},
	}
}

func kartverketClient(rt *runtime, delay time.Duration) *geonorge.Client {
	return geonorge.NewClient(geonorge.Config{
		AddressURL:   rt.cfg.AddressAPIURL,
		PlaceURL:     rt.cfg.PlaceAPIURL,
		Municipality: rt.cfg.Municipality,
		Timeout:      rt.cfg.HTTPTimeout,
		Delay:        delay,
		Clock:        clockwork.NewRealClock(),
	}, rt.metrics, rt.logger)
}
