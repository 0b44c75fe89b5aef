package utils

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ResizeImage decodes an uploaded image and scales it down to fit within
// maxWidth x maxHeight, keeping its aspect ratio. Smaller images are returned
// unchanged.
func ResizeImage(r io.Reader, filename string, maxWidth, maxHeight uint) (image.Image, error) {
	img, err := decodeImage(r, filename)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxWidth && height <= maxHeight {
		return img, nil
	}

	widthRatio := float64(maxWidth) / float64(width)
	heightRatio := float64(maxHeight) / float64(height)

	var newWidth, newHeight uint
	if widthRatio < heightRatio {
		newWidth = maxWidth
		newHeight = uint(float64(height) * widthRatio)
	} else {
		newWidth = uint(float64(width) * heightRatio)
		newHeight = maxHeight
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3), nil
}

func decodeImage(r io.Reader, filename string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	default:
		img, _, err := image.Decode(r)
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedImage
		}
		return img, err
	}
}

// EncodeImage writes img as JPEG or PNG and returns the bytes with their
// content type. Anything that is not PNG is re-encoded as JPEG.
func EncodeImage(img image.Image, filename string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer
	if strings.ToLower(filepath.Ext(filename)) == ".png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}

func IsValidImageFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, format := range AllowedImageTypes {
		if ext == format {
			return true
		}
	}
	return false
}
