package predictor

import (
	"errors"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// Metrics summarizes a holdout evaluation run.
type Metrics struct {
	TrainRecords int
	TestRecords  int
	Skipped      int
	MAE          float64
	RMSE         float64
}

// Evaluate fits the ensemble on a random 80% of the brand's records and
// measures MAE and RMSE on the held-out 20%. Test records whose categories
// fell entirely into the holdout are skipped and counted.
func Evaluate(dataset *models.CombinedDataset, brand string, opts Options) (*Metrics, error) {
	opts = opts.withDefaults()
	brand = strings.ToLower(strings.TrimSpace(brand))

	filtered := filterBrand(dataset, brand)
	if len(filtered) < opts.MinRecords {
		return nil, &InsufficientDataError{Brand: brand, Records: len(filtered), Min: opts.MinRecords}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	shuffled := make([]*models.CanonicalListing, len(filtered))
	copy(shuffled, filtered)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) * 4 / 5
	if cut == len(shuffled) {
		cut = len(shuffled) - 1
	}
	train, test := shuffled[:cut], shuffled[cut:]

	model, err := fit(train, brand, opts)
	if err != nil {
		return nil, err
	}

	metrics := &Metrics{TrainRecords: len(train)}
	var absErrs, sqErrs []float64

	for _, l := range test {
		pred, err := model.Predict(models.PredictionQuery{
			Brand:        l.Brand,
			Model:        l.Model,
			Year:         l.Year,
			MileageKM:    l.MileageKM,
			Transmission: l.Transmission,
		})
		if err != nil {
			var unknown *UnknownCategoryError
			if errors.As(err, &unknown) {
				metrics.Skipped++
				continue
			}
			return nil, err
		}
		diff := pred - l.Price
		absErrs = append(absErrs, math.Abs(diff))
		sqErrs = append(sqErrs, diff*diff)
	}

	metrics.TestRecords = len(absErrs)
	if metrics.TestRecords > 0 {
		metrics.MAE = stat.Mean(absErrs, nil)
		metrics.RMSE = math.Sqrt(stat.Mean(sqErrs, nil))
	}
	return metrics, nil
}
