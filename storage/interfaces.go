package storage

import "github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"

// DatasetWriter is the interface any combined-dataset sink must satisfy.
type DatasetWriter interface {
	WriteDataset(dataset *models.CombinedDataset) error
	Close() error
}
