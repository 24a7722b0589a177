package imageutil

import "math"

// DefaultSharpenAmount is the unsharp mask strength used when the caller
// does not pick one.
const DefaultSharpenAmount = 1.5

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// GaussianKernel3x3 returns the normalized 3x3 Gaussian blur kernel used
// as the blur stage of UnsharpMask. Its weights sum to exactly 1.
func GaussianKernel3x3() *Kernel {
	return NewKernel([][]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	})
}

// Convolve applies a convolution kernel to each channel of a buffer.
// Border pixels are handled by replicating edge values, so every output
// pixel sees the full kernel weight. Results are rounded to the nearest
// integer and clamped to [0, 255].
func Convolve(img *PixelBuffer, kernel *Kernel) *PixelBuffer {
	width, height := img.Width(), img.Height()
	dst := NewPixelBuffer(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					// Source pixel coordinates with border replication
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					c := img.pix[sy*width+sx]
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			dst.pix[y*width+x] = RGB{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
			}
		}
	}

	return dst
}

// GaussianBlur applies the 3x3 Gaussian blur to a buffer.
func GaussianBlur(img *PixelBuffer) *PixelBuffer {
	return Convolve(img, GaussianKernel3x3())
}

// UnsharpMask sharpens a buffer by amplifying its difference from a
// blurred copy of itself:
//
//	out = clamp(round(orig + (orig - blurred) * amount), 0, 255)
//
// The blur is GaussianBlur with replicated edges. An amount of 0 returns
// an identical copy and a negative amount smooths instead. The input is
// left untouched.
func UnsharpMask(img *PixelBuffer, amount float64) *PixelBuffer {
	blurred := GaussianBlur(img)
	dst := NewPixelBuffer(img.Width(), img.Height())

	for i, orig := range img.pix {
		blur := blurred.pix[i]
		dst.pix[i] = RGB{
			R: unsharpChannel(orig.R, blur.R, amount),
			G: unsharpChannel(orig.G, blur.G, amount),
			B: unsharpChannel(orig.B, blur.B, amount),
		}
	}

	return dst
}

func unsharpChannel(orig, blurred uint8, amount float64) uint8 {
	o := float64(orig)
	return clampUint8(o + (o-float64(blurred))*amount)
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
