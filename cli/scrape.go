package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/catalog"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/scraper"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/scraper/autotrader"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/scraper/kijiji"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/services"
)

var (
	scrapeBrand    string
	scrapeLocation string
	scrapeOutfile  string
)

func init() {
	scrapeCmd.Flags().StringVar(&scrapeBrand, "brand", "", "car brand to search for (e.g. mini, toyota, honda)")
	scrapeCmd.Flags().StringVar(&scrapeLocation, "location", "canada", "location filter (e.g. canada, ontario)")
	scrapeCmd.Flags().StringVar(&scrapeOutfile, "outfile", "", "override the output file path")
	_ = scrapeCmd.MarkFlagRequired("brand")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <site>",
	Short: "Scrape one marketplace for a brand and write its raw result file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store := setup()

		var site scraper.SiteScraper
		switch args[0] {
		case models.SourceKijiji:
			site = kijiji.New(cfg, logger)
		case models.SourceAutotrader:
			site = autotrader.New(cfg, logger)
		default:
			return fmt.Errorf("unknown site %q (want %s or %s)",
				args[0], models.SourceKijiji, models.SourceAutotrader)
		}

		logger.Info("[scrape] %s — brand %q, location %q", site.Source(), scrapeBrand, scrapeLocation)

		result, err := site.Scrape(cmd.Context(), scrapeBrand, scrapeLocation)
		if err != nil {
			return err
		}
		if result.Total == 0 {
			return fmt.Errorf("%s: no listings found for brand %q", site.Source(), scrapeBrand)
		}

		path := scrapeOutfile
		if path == "" {
			var werr error
			path, werr = store.WriteScrapeResult(result)
			if werr != nil {
				return werr
			}
		} else if err := store.WriteScrapeResultTo(path, result); err != nil {
			return err
		}

		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		normalized := services.NewNormalizer(logger, cat).NormalizeAll(result.Brand, result.Listings)

		logger.Info("[scrape] %d raw listings (%d normalizable) saved to %s",
			result.Total, len(normalized), path)
		return nil
	},
}
