package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// CSVWriter exports a combined dataset to a CSV file for spreadsheet use.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"brand", "model", "year", "mileage_km", "transmission", "price", "fuel", "province_city", "link", "source",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteDataset writes every listing of the combined dataset as one CSV row.
func (c *CSVWriter) WriteDataset(dataset *models.CombinedDataset) error {
	for _, l := range dataset.Listings {
		row := []string{
			l.Brand,
			l.Model,
			strconv.Itoa(l.Year),
			strconv.Itoa(l.MileageKM),
			string(l.Transmission),
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			l.Fuel,
			l.Location,
			l.Link,
			l.Source,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
