package imageutil

import "math"

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(width-1, 1))
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for i := range img.pix {
		img.pix[i] = c
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := x / barWidth
			if colorIdx >= len(colors) {
				colorIdx = len(colors) - 1
			}
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CreateSpeckleImage creates a white page with a black rectangle in the
// middle, a one pixel hole inside the rectangle and isolated black specks
// around it. Opening should remove the specks, closing should fill the hole.
func CreateSpeckleImage(width, height int) *PixelBuffer {
	img := CreateSolidImage(width, height, RGB{R: 255, G: 255, B: 255})
	black := RGB{}

	rx1, ry1 := width/4, height/4
	rx2, ry2 := 3*width/4, 3*height/4
	for y := ry1; y < ry2; y++ {
		for x := rx1; x < rx2; x++ {
			img.SetRGB(x, y, black)
		}
	}
	if width > 0 && height > 0 {
		img.SetRGB(width/2, height/2, RGB{R: 255, G: 255, B: 255})
	}

	// Specks stay clear of the rectangle and of each other.
	for _, p := range [][2]int{{1, 1}, {width - 2, 1}, {1, height - 2}, {width - 2, height - 2}} {
		if p[0] >= 0 && p[1] >= 0 && p[0] < width && p[1] < height {
			img.SetRGB(p[0], p[1], black)
		}
	}
	return img
}

// CalculateMSE calculates the Mean Squared Error between two buffers.
func CalculateMSE(img1, img2 *PixelBuffer) float64 {
	if !img1.SameSize(img2) {
		return math.MaxFloat64
	}
	if img1.Empty() {
		return 0
	}

	var sumSq float64
	count := float64(len(img1.pix) * 3) // 3 channels

	for i, c1 := range img1.pix {
		c2 := img2.pix[i]
		dr := float64(c1.R) - float64(c2.R)
		dg := float64(c1.G) - float64(c2.G)
		db := float64(c1.B) - float64(c2.B)
		sumSq += dr*dr + dg*dg + db*db
	}

	return sumSq / count
}

// CalculateMaxDiff calculates the maximum per-channel difference between
// two buffers. Mismatched sizes report 256.
func CalculateMaxDiff(img1, img2 *PixelBuffer) int {
	if !img1.SameSize(img2) {
		return 256
	}

	maxDiff := 0
	for i, c1 := range img1.pix {
		c2 := img2.pix[i]
		maxDiff = max(maxDiff,
			abs(int(c1.R)-int(c2.R)),
			abs(int(c1.G)-int(c2.G)),
			abs(int(c1.B)-int(c2.B)))
	}

	return maxDiff
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
