package morph

import "github.com/wbrown/morphsharp/imageutil"

var (
	foregroundRGB = imageutil.RGB{R: 0, G: 0, B: 0}
	backgroundRGB = imageutil.RGB{R: 255, G: 255, B: 255}
)

// Render converts a mask back to pixels: foreground becomes black and
// background becomes white.
func Render(mask *Mask) *imageutil.PixelBuffer {
	img := imageutil.NewPixelBuffer(mask.width, mask.height)
	for y := 0; y < mask.height; y++ {
		for x := 0; x < mask.width; x++ {
			if mask.bits[y*mask.width+x] {
				img.SetRGB(x, y, foregroundRGB)
			} else {
				img.SetRGB(x, y, backgroundRGB)
			}
		}
	}
	return img
}
