package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/predictor"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/services"
)

var (
	predictBrand        string
	predictModel        string
	predictYear         int
	predictMileageKM    int
	predictTransmission string
	predictLocation     string
)

func init() {
	predictCmd.Flags().StringVar(&predictBrand, "brand", "", "car brand (must have a combined dataset)")
	predictCmd.Flags().StringVar(&predictModel, "model", "", "car model (optional)")
	predictCmd.Flags().IntVar(&predictYear, "year", 0, "model year")
	predictCmd.Flags().IntVar(&predictMileageKM, "mileage-km", 0, "mileage in kilometres")
	predictCmd.Flags().StringVar(&predictTransmission, "transmission", "automatic", "transmission (automatic, manual)")
	predictCmd.Flags().StringVar(&predictLocation, "location", "", "location (accepted, currently unused)")
	_ = predictCmd.MarkFlagRequired("brand")
	_ = predictCmd.MarkFlagRequired("year")
	_ = predictCmd.MarkFlagRequired("mileage-km")
	rootCmd.AddCommand(predictCmd)
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Train on a brand's combined dataset and predict a fair price",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store := setup()

		brand := strings.ToLower(predictBrand)
		dataset, err := store.ReadCombined(brand)
		if err != nil {
			return fmt.Errorf("no combined dataset for %q (run merge first): %w", brand, err)
		}

		model, err := predictor.Train(dataset, brand, predictor.OptionsFromConfig(cfg))
		if err != nil {
			return err
		}
		logger.Info("[predict] Trained on %d %s listings", model.Records(), brand)

		price, err := model.Predict(models.PredictionQuery{
			Brand:        brand,
			Model:        predictModel,
			Year:         predictYear,
			MileageKM:    predictMileageKM,
			Transmission: services.NormalizeTransmission(predictTransmission),
		})
		if err != nil {
			return err
		}

		min, max := model.PriceRange()
		fmt.Printf("\n  Predicted fair price: $%.0f\n", price)
		fmt.Printf("  Observed %s price range: $%.0f – $%.0f (%d listings)\n\n",
			brand, min, max, model.Records())
		return nil
	},
}
