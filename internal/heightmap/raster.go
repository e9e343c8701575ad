// Package heightmap decodes single-channel elevation rasters and samples
// vertex heights at cell corners.
package heightmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// MaxSample is the largest value a raster cell can hold.
const MaxSample = 65535

var (
	// ErrDecode is matched by every raster decode failure.
	ErrDecode = errors.New("heightmap: decode failed")
	// ErrInvalidDimensions reports a raster with zero width or height.
	ErrInvalidDimensions = errors.New("heightmap: raster must be at least 1x1")
	// ErrNotSingleChannel reports an image that is not grayscale.
	ErrNotSingleChannel = errors.New("heightmap: image is not single-channel")
)

// DecodeError describes why a raster file could not be loaded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("heightmap: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecode for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Raster is an immutable grid of 16-bit elevation samples, stored row-major.
type Raster struct {
	width   int
	height  int
	samples []uint16
}

// NewRaster creates a raster from row-major samples.
func NewRaster(width, height int, samples []uint16) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidDimensions, len(samples), width, height)
	}
	data := make([]uint16, len(samples))
	copy(data, samples)
	return &Raster{width: width, height: height, samples: data}, nil
}

// Load reads and decodes a raster file.
// PNG, TIFF and BMP are supported; the image must be 8- or 16-bit grayscale.
func Load(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	r, err := FromImage(img)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return r, nil
}

// FromImage converts a decoded grayscale image to a raster.
// 8-bit samples are widened so that 255 maps to MaxSample.
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, w, h)
	}

	samples := make([]uint16, w*h)
	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				samples[y*w+x] = src.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				samples[y*w+x] = uint16(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) * 257
			}
		}
	default:
		if img.ColorModel() != color.Gray16Model && img.ColorModel() != color.GrayModel {
			return nil, fmt.Errorf("%w: %T", ErrNotSingleChannel, img)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				samples[y*w+x] = color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y
			}
		}
	}

	return &Raster{width: w, height: h, samples: samples}, nil
}

// Width returns the number of cells per row.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// At returns the sample at cell (x, y). The cell must be in bounds.
func (r *Raster) At(x, y int) uint16 {
	return r.samples[y*r.width+x]
}

// inBounds reports whether (x, y) addresses a cell.
func (r *Raster) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}
