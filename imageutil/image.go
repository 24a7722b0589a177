// Package imageutil provides the pure Go raster plumbing shared by the
// sharpening and morphology pipelines: an 8-bit RGB pixel buffer,
// convolution, unsharp masking, resizing and image file I/O.
package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidDimension is returned when a buffer or mask is built with
// negative dimensions or with pixel data that does not match them.
var ErrInvalidDimension = errors.New("invalid dimension")

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB. Alpha is dropped.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// PixelBuffer is an in-memory RGB raster stored row-major. It is the
// common currency between every pipeline stage; stages never modify a
// buffer they were given, they return a new one.
//
// PixelBuffer implements image.Image so it can be handed straight to the
// standard encoders.
type PixelBuffer struct {
	width, height int
	pix           []RGB
}

// NewPixelBuffer creates a black buffer of the given dimensions.
// Negative dimensions are treated as zero.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]RGB, width*height),
	}
}

// NewPixelBufferFromPix builds a buffer over a copy of pix, which must hold
// exactly width*height row-major pixels.
func NewPixelBufferFromPix(width, height int, pix []RGB) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("pixel buffer %dx%d: %w", width, height, ErrInvalidDimension)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("pixel buffer %dx%d needs %d pixels, got %d: %w",
			width, height, width*height, len(pix), ErrInvalidDimension)
	}
	buf := NewPixelBuffer(width, height)
	copy(buf.pix, pix)
	return buf, nil
}

// PixelBufferFromImage converts any image.Image to a PixelBuffer. The
// result is anchored at (0, 0) regardless of the source bounds.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	if pb, ok := img.(*PixelBuffer); ok {
		return pb.Clone()
	}
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())

	// Fast path for the decoder's most common output.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < buf.height; y++ {
			row := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < buf.width; x++ {
				buf.pix[y*buf.width+x] = RGB{R: row[x*4], G: row[x*4+1], B: row[x*4+2]}
			}
		}
		return buf
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			buf.pix[(y-bounds.Min.Y)*buf.width+(x-bounds.Min.X)] = RGBFromColor(img.At(x, y))
		}
	}
	return buf
}

// Width returns the buffer width.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Empty reports whether the buffer has zero area.
func (b *PixelBuffer) Empty() bool {
	return b.width == 0 || b.height == 0
}

// GetRGB returns the RGB value at (x, y).
func (b *PixelBuffer) GetRGB(x, y int) RGB {
	return b.pix[y*b.width+x]
}

// SetRGB sets the RGB value at (x, y).
func (b *PixelBuffer) SetRGB(x, y int, c RGB) {
	b.pix[y*b.width+x] = c
}

// Pix returns a copy of the row-major pixel data.
func (b *PixelBuffer) Pix() []RGB {
	out := make([]RGB, len(b.pix))
	copy(out, b.pix)
	return out
}

// Clone creates a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	clone := NewPixelBuffer(b.width, b.height)
	copy(clone.pix, b.pix)
	return clone
}

// Equal reports whether both buffers have the same size and pixels.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// SameSize reports whether both buffers have identical dimensions.
func (b *PixelBuffer) SameSize(other *PixelBuffer) bool {
	return b.width == other.width && b.height == other.height
}

// ToRGBA copies the buffer into an opaque *image.RGBA.
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for i, c := range b.pix {
		rgba.Pix[i*4] = c.R
		rgba.Pix[i*4+1] = c.G
		rgba.Pix[i*4+2] = c.B
		rgba.Pix[i*4+3] = 255
	}
	return rgba
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image. Points outside the buffer are transparent.
func (b *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.RGBA{}
	}
	return b.pix[y*b.width+x].ToColor()
}
