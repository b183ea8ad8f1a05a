// Package cli wires the pipeline stages into one command-line tool. Each
// stage is independently invokable and communicates with the others only
// through the result files.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/storage"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

var rootCmd = &cobra.Command{
	Use:   "iwanttobuyacar",
	Short: "Scrape used-car listings, merge them, and predict a fair price",
	Long: "iwanttobuyacar scrapes used-car listings from Kijiji and AutoTrader,\n" +
		"merges the per-site results into one dataset per brand, and trains a\n" +
		"random-forest regressor to predict a fair purchase price.",
	SilenceUsage: true,
}

// Execute runs the CLI and exits non-zero on any command error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *utils.Logger, *storage.JSONStore) {
	logger := utils.NewLogger()
	cfg := config.Load()
	return cfg, logger, storage.NewJSONStore(cfg)
}
