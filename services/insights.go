package services

import (
	"fmt"
	"strings"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

// InsightService computes and prints a summary over a combined dataset.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(dataset *models.CombinedDataset) *models.InsightReport {
	report := &models.InsightReport{
		Brand:          dataset.Brand,
		BySource:       make(map[string]int),
		ByTransmission: make(map[models.Transmission]int),
	}

	if len(dataset.Listings) == 0 {
		return report
	}

	report.TotalListings = len(dataset.Listings)
	report.MinPrice = dataset.Listings[0].Price
	report.MaxPrice = dataset.Listings[0].Price

	var total float64
	for _, l := range dataset.Listings {
		report.BySource[l.Source]++
		report.ByTransmission[l.Transmission]++
		total += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
		}
	}
	report.AveragePrice = round2(total / float64(report.TotalListings))
	report.MinPrice = round2(report.MinPrice)
	report.MaxPrice = round2(report.MaxPrice)

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	thin := strings.Repeat("─", 46)

	fmt.Printf("\n  Market summary — %s\n", strings.ToUpper(r.Brand))
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings merged : %d\n", r.TotalListings)
	if r.TotalListings > 0 {
		fmt.Printf("  Average price   : $%.2f\n", r.AveragePrice)
		fmt.Printf("  Price range     : $%.2f – $%.2f\n", r.MinPrice, r.MaxPrice)
	}
	for source, count := range r.BySource {
		fmt.Printf("  From %-10s : %d\n", source, count)
	}
	for trans, count := range r.ByTransmission {
		fmt.Printf("  %-15s : %d\n", trans, count)
	}
	fmt.Println()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
