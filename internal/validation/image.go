// Package validation checks user uploads before they reach the generator.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
)

// MaxImageSize bounds an uploaded photo.
const MaxImageSize = 10 << 20 // 10 MB

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrCorruptImage     = errors.New("image could not be decoded")
)

// allowedImageTypes maps sniffed MIME types to the image package format name.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// ImageInfo describes an accepted upload.
type ImageInfo struct {
	MIMEType string
	Width    int
	Height   int
}

// ValidateImage sniffs the format from magic bytes and decodes the header.
// The declared Content-Type of the upload is ignored.
func ValidateImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return ImageInfo{}, ErrImageTooLarge
	}

	mime := http.DetectContentType(data)
	format, ok := allowedImageTypes[mime]
	if !ok {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}

	cfg, decoded, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if decoded != format || cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, ErrCorruptImage
	}

	return ImageInfo{MIMEType: mime, Width: cfg.Width, Height: cfg.Height}, nil
}
