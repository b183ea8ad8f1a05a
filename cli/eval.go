package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/predictor"
)

var evalBrand string

func init() {
	evalCmd.Flags().StringVar(&evalBrand, "brand", "", "car brand (must have a combined dataset)")
	_ = evalCmd.MarkFlagRequired("brand")
	rootCmd.AddCommand(evalCmd)
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Measure model accuracy on a held-out split of a brand's dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store := setup()

		brand := strings.ToLower(evalBrand)
		dataset, err := store.ReadCombined(brand)
		if err != nil {
			return fmt.Errorf("no combined dataset for %q (run merge first): %w", brand, err)
		}

		metrics, err := predictor.Evaluate(dataset, brand, predictor.OptionsFromConfig(cfg))
		if err != nil {
			return err
		}

		logger.Info("[eval] Trained on %d, tested on %d (skipped %d)",
			metrics.TrainRecords, metrics.TestRecords, metrics.Skipped)
		fmt.Printf("\n  Holdout metrics for %s\n", strings.ToUpper(brand))
		fmt.Printf("  MAE  : $%.2f\n", metrics.MAE)
		fmt.Printf("  RMSE : $%.2f\n\n", metrics.RMSE)
		return nil
	},
}
