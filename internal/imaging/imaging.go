// Package imaging prepares uploaded MidJourney renders for storage and
// for the vision API payload.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/models"
)

// Optimize decodes raw image bytes, downscales to at most maxSize on the
// longest side, and re-encodes as JPEG at the given quality.
func Optimize(data []byte, maxSize, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return encodeJPEG(Resize(img, maxSize), quality)
}

// Thumbnail produces the small JPEG sent to the vision API.
func Thumbnail(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return encodeJPEG(Resize(img, maxSize), 85)
}

// Resize scales the image so its longest side is at most maxSize,
// preserving aspect ratio. Images already within bounds are returned
// unchanged.
func Resize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSize {
		return img
	}

	ratio := float64(maxSize) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ImagePath returns the storage path for a profile's test image.
func ImagePath(profileID, testTitle, ext string) string {
	return fmt.Sprintf("%s/%s/%s_%s%s",
		config.ProfileResultsDir, profileID, profileID, models.SafeName(testTitle), ext)
}

// ImageExts lists the accepted extensions, .jpg first (current format)
// with .png kept for files uploaded before JPEG conversion.
var ImageExts = []string{".jpg", ".png"}
