package product

import (
	"errors"
	"io/fs"
	"os"
)

// ImageRemover deletes a product's stored image when the product is deleted
// or its image replaced.
type ImageRemover interface {
	Remove(path string) error
}

// DiskImages removes image files from local storage. A missing file is not
// an error; the catalog record is already gone or being deleted.
type DiskImages struct{}

func (DiskImages) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
