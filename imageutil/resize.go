package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Keeps rendered masks strictly black and white.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes a buffer to the specified dimensions using the given
// interpolation method. The source buffer is not modified.
func Resize(img *PixelBuffer, width, height int, interp Interpolation) *PixelBuffer {
	if width <= 0 || height <= 0 || img.Empty() {
		return NewPixelBuffer(width, height)
	}
	if width == img.Width() && height == img.Height() {
		return img.Clone()
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), img.ToRGBA(), img.Bounds(), draw.Src, nil)
	return PixelBufferFromImage(dst)
}

// ResizeToWidth resizes a buffer to the specified width while maintaining
// aspect ratio. The height is never rounded below one pixel.
func ResizeToWidth(img *PixelBuffer, width int, interp Interpolation) *PixelBuffer {
	if img.Empty() {
		return img.Clone()
	}
	aspectRatio := float64(img.Width()) / float64(img.Height())
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}

// Fit shrinks a buffer so it fits inside maxWidth x maxHeight while
// keeping its aspect ratio. Buffers that already fit are cloned as-is.
func Fit(img *PixelBuffer, maxWidth, maxHeight int, interp Interpolation) *PixelBuffer {
	if img.Empty() || (img.Width() <= maxWidth && img.Height() <= maxHeight) {
		return img.Clone()
	}
	scale := float64(maxWidth) / float64(img.Width())
	if s := float64(maxHeight) / float64(img.Height()); s < scale {
		scale = s
	}
	width := int(float64(img.Width()) * scale)
	height := int(float64(img.Height()) * scale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}
