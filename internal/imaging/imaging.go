// Package imaging decodes downloaded images and normalizes them to formats
// the document backend embeds directly (PNG, JPEG).
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	// Formats the backend embeds directly.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Formats normalized to PNG before embedding.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Sentinel errors for image normalization.
var (
	ErrDecode = errors.New("image decode failed")
	ErrEncode = errors.New("image re-encode failed")
)

// Formats the backend accepts without conversion.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Info describes a normalized image.
type Info struct {
	Format string // "png" or "jpeg" after normalization
	Width  int    // pixels
	Height int    // pixels
}

// Normalize returns image bytes in a backend-supported format. PNG and JPEG
// inputs pass through byte-for-byte. GIF, BMP, TIFF, and WebP are decoded
// and re-encoded as PNG, which preserves any alpha channel. The returned
// Info always reflects the output bytes.
func Normalize(data []byte) ([]byte, Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	info := Info{Format: format, Width: cfg.Width, Height: cfg.Height}
	if format == FormatPNG || format == FormatJPEG {
		return data, info, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	info.Format = FormatPNG
	return buf.Bytes(), info, nil
}

// DisplayDPI is the assumed pixel density when converting pixel dimensions
// to physical display size.
const DisplayDPI = 96.0

// FitSize scales pixel dimensions to inches within the given bounds,
// preserving aspect ratio. Images smaller than the bounds keep their
// natural size.
func FitSize(widthPx, heightPx int, maxWidthIn, maxHeightIn float64) (widthIn, heightIn float64) {
	if widthPx <= 0 || heightPx <= 0 {
		return maxWidthIn, maxHeightIn
	}

	widthIn = float64(widthPx) / DisplayDPI
	heightIn = float64(heightPx) / DisplayDPI
	aspect := widthIn / heightIn

	if widthIn > maxWidthIn {
		widthIn = maxWidthIn
		heightIn = widthIn / aspect
	}
	if heightIn > maxHeightIn {
		heightIn = maxHeightIn
		widthIn = heightIn * aspect
	}
	return widthIn, heightIn
}
