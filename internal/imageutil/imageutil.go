// Package imageutil normalizes cover images before upload: bounded
// dimensions, JPEG encoding, size limit enforced up front. The server stores
// whatever it receives, so shrinking happens client-side.
package imageutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"bookbazaar/internal/model"
)

// PrepareCover reads the image at path, re-orients it per EXIF, downscales it
// to fit maxWidth x maxHeight when larger, and re-encodes it as JPEG.
// It returns the encoded bytes and the filename to use in the form part.
func PrepareCover(path string, maxWidth, maxHeight, quality int) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat cover: %w", err)
	}
	if info.Size() > model.MaxCoverSizeBytes {
		return nil, "", model.ErrFileTooLarge
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrInvalidImageType, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, "", fmt.Errorf("encode cover: %w", err)
	}

	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return buf.Bytes(), name + ".jpg", nil
}
