package morph

import "github.com/wbrown/morphsharp/imageutil"

// Threshold is the average intensity below which a pixel counts as
// foreground.
const Threshold = 128

// Binarize converts a buffer to a mask. A pixel is foreground when its
// truncated channel mean, (r+g+b)/3, is below Threshold.
func Binarize(img *imageutil.PixelBuffer) *Mask {
	width, height := img.Width(), img.Height()
	mask := NewMask(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask.bits[y*width+x] = img.GetRGB(x, y).Intensity() < Threshold
		}
	}
	return mask
}
