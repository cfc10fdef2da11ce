// Package imageio loads, saves and resizes colorkeep pixmaps.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Decoders registered with image.Decode.
	_ "golang.org/x/image/webp"
	_ "image/gif"

	"github.com/gogpu/colorkeep"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when an output format is not supported.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// Output formats accepted by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// JPEGQuality is the quality used when encoding JPEG output.
const JPEGQuality = 92

// Decode decodes an image, auto-detecting PNG, JPEG, GIF, BMP, TIFF or WebP.
// It returns the pixmap and the detected format name.
func Decode(r io.Reader) (*colorkeep.Pixmap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return colorkeep.FromImage(img), format, nil
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*colorkeep.Pixmap, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Load reads and decodes the image at path.
func Load(path string) (*colorkeep.Pixmap, string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// FormatFromPath returns the output format implied by the extension of path.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Extension returns the file extension, with the leading dot, for format.
func Extension(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tiff"
	default:
		return "." + format
	}
}

// Encode writes pm to w in the given format, one of the Format constants.
func Encode(w io.Writer, pm *colorkeep.Pixmap, format string) error {
	img := pm.ToImage()
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}

// Save encodes pm to path, choosing the format from the extension.
func Save(path string, pm *colorkeep.Pixmap) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := Encode(f, pm, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close file: %w", err)
	}
	return nil
}

// OutputFormatFor returns the format used to write back the image at path:
// the format its extension names, or PNG for inputs without an encoder
// such as GIF and WebP.
func OutputFormatFor(path string) string {
	if format, err := FormatFromPath(path); err == nil {
		return format
	}
	return FormatPNG
}
