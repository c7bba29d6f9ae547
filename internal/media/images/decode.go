package images

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"path/filepath"
	"strings"
	"unicode"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxUploadSize limits an uploaded image to 10MB.
const MaxUploadSize = 10 << 20

// Decoded size limits, checked from the header before any pixel is allocated.
const (
	MaxDimension = 16384
	MaxPixels    = 40_000_000
)

// ErrNotImage is returned when the upload is empty, truncated or in an unsupported format.
var ErrNotImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.") //nolint:staticcheck // user-facing message

// ErrTooLarge is returned for uploads over MaxUploadSize.
var ErrTooLarge = errors.New("image exceeds the 10MB upload limit")

// ErrDimensionsTooLarge is returned when the declared dimensions exceed MaxDimension or MaxPixels.
var ErrDimensionsTooLarge = errors.New("image dimensions are too large (at most 16384 pixels per side and 40 megapixels)")

// Decoded is a fully decoded upload.
type Decoded struct {
	Image  image.Image
	Format string // registered decoder name: jpeg, png, gif or webp
}

// Decode validates data by decoding it completely; a valid header on a
// corrupted body is rejected. Dimensions are checked from the header first.
func Decode(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNotImage
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension || cfg.Width*cfg.Height > MaxPixels {
		return nil, ErrDimensionsTooLarge
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrNotImage
	}
	return &Decoded{Image: img, Format: format}, nil
}

// Extension picks the stored file extension: the uploaded name's, when it is
// a plain alphanumeric suffix, otherwise one derived from the decoded format.
func Extension(filename, format string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext != "" && len(ext) <= 10 && strings.IndexFunc(ext, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	}) == -1 {
		return ext
	}
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
