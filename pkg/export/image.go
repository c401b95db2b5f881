package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/inkblot/pkg/errors"
)

// File names used by the exporters.
const (
	DefaultImageName = "inkblot_image.png"
	LogFileName      = "inkblot_logs.csv"
)

// MaxBatchSize is the largest batch that keeps image names at three digits.
const MaxBatchSize = 999

// ValidateBatchSize checks that n images can be exported in one batch.
func ValidateBatchSize(n int) error {
	if n < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "batch size must be at least 1, got %d", n)
	}
	if n > MaxBatchSize {
		return errors.New(errors.ErrCodeInvalidInput, "batch size must be at most %d, got %d", MaxBatchSize, n)
	}
	return nil
}

// ImageName returns the archive name of the i-th image of a batch (1-based).
func ImageName(i int) string {
	return fmt.Sprintf("inkblot_image_%03d.png", i)
}

// ArchiveName returns the file name of a batch archive of n images.
func ArchiveName(n int) string {
	return fmt.Sprintf("inkblot_images_%d.zip", n)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode png")
	}
	return nil
}

// SaveImage writes img as a PNG file, creating parent directories as needed.
func SaveImage(path string, img image.Image) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory for %s", path)
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save %s", path)
	}
	return nil
}
