package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/catalog"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/services"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/storage"
)

var mergeBrand string

func init() {
	mergeCmd.Flags().StringVar(&mergeBrand, "brand", "", "merge only this brand (default: every brand found in the results directory)")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Combine per-site result files into one deduplicated dataset per brand",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store := setup()

		brands := []string{mergeBrand}
		if mergeBrand == "" {
			var err error
			brands, err = store.DiscoverBrands()
			if err != nil {
				return err
			}
			if len(brands) == 0 {
				return errors.New("no per-site result files found; run scrape first")
			}
		}

		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		normalizer := services.NewNormalizer(logger, cat)
		merger := services.NewMerger(logger, normalizer)
		insights := services.NewInsightService(logger)

		var sinks []storage.DatasetWriter
		if cfg.PostgresDSN != "" {
			pg, err := storage.NewPostgresWriter(cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pg.Close()
			sinks = append(sinks, pg)
		}

		total := 0
		for _, brand := range brands {
			dataset, err := merger.Merge(store.RawPaths(brand), brand)
			if err != nil {
				logger.Warn("[merge] Brand %q: %v", brand, err)
				continue
			}
			total += dataset.Total

			path, err := store.WriteCombined(dataset)
			if err != nil {
				return err
			}
			logger.Info("[merge] Combined dataset saved to %s", path)

			csvWriter, err := storage.NewCSVWriter(cfg.CombinedCSVPath(brand))
			if err != nil {
				return err
			}
			if err := csvWriter.WriteDataset(dataset); err != nil {
				_ = csvWriter.Close()
				return err
			}
			if err := csvWriter.Close(); err != nil {
				return err
			}

			for _, sink := range sinks {
				if err := sink.WriteDataset(dataset); err != nil {
					logger.Warn("[merge] Sink write failed for %q: %v", brand, err)
				}
			}

			insights.Print(insights.Generate(dataset))
		}

		if total == 0 {
			return services.ErrNoValidRecords
		}
		return nil
	},
}
