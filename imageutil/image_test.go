package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewPixelBuffer(t *testing.T) {
	img := NewPixelBuffer(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
	if len(img.Pix()) != 100*50 {
		t.Errorf("Expected %d pixels, got %d", 100*50, len(img.Pix()))
	}
}

func TestNewPixelBufferFromPix(t *testing.T) {
	pix := []RGB{{1, 2, 3}, {4, 5, 6}}
	img, err := NewPixelBufferFromPix(2, 1, pix)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.GetRGB(1, 0) != (RGB{4, 5, 6}) {
		t.Errorf("Expected {4 5 6}, got %v", img.GetRGB(1, 0))
	}

	// The buffer owns a copy.
	pix[0] = RGB{9, 9, 9}
	if img.GetRGB(0, 0) != (RGB{1, 2, 3}) {
		t.Error("Buffer should not alias the caller's slice")
	}

	if _, err := NewPixelBufferFromPix(3, 1, pix); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension for short pixel data, got %v", err)
	}
	if _, err := NewPixelBufferFromPix(-1, 1, nil); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension for negative width, got %v", err)
	}
}

func TestPixelBufferGetSetRGB(t *testing.T) {
	img := NewPixelBuffer(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
	if img.At(5, 5) != c.ToColor() {
		t.Errorf("At should report %v, got %v", c.ToColor(), img.At(5, 5))
	}
	if img.At(-1, 0) != (color.RGBA{}) {
		t.Error("At outside bounds should be transparent")
	}
}

func TestPixelBufferClone(t *testing.T) {
	img := NewPixelBuffer(10, 10)
	img.SetRGB(5, 5, RGB{R: 255, G: 0, B: 0})

	clone := img.Clone()
	if !clone.Equal(img) {
		t.Error("Clone should have same pixel values")
	}

	// Modify clone, original should be unchanged
	clone.SetRGB(5, 5, RGB{R: 0, G: 255, B: 0})
	if img.GetRGB(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestPixelBufferFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.SetRGBA(11, 21, color.RGBA{R: 7, G: 8, B: 9, A: 255})

	buf := PixelBufferFromImage(src)
	if buf.Width() != 3 || buf.Height() != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", buf.Width(), buf.Height())
	}
	if got := buf.GetRGB(1, 1); got != (RGB{7, 8, 9}) {
		t.Errorf("Expected offset pixel {7 8 9}, got %v", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 0, color.Gray{Y: 200})
	buf = PixelBufferFromImage(gray)
	if got := buf.GetRGB(1, 0); got != (RGB{200, 200, 200}) {
		t.Errorf("Expected {200 200 200}, got %v", got)
	}
}

func TestToRGBARoundTrip(t *testing.T) {
	img := CreateColorBarsImage(16, 4)
	back := PixelBufferFromImage(img.ToRGBA())
	if !back.Equal(img) {
		t.Error("ToRGBA followed by PixelBufferFromImage should be lossless")
	}
}

func TestConvolveIdentity(t *testing.T) {
	img := CreateGradientImage(10, 10)

	identity := NewKernel([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	result := Convolve(img, identity)

	if !result.Equal(img) {
		t.Error("Identity kernel should preserve every pixel, including borders")
	}
}

func TestConvolveReplicatesEdges(t *testing.T) {
	// A single bright column on the left edge. With replicated borders the
	// out-of-range column to its left is bright too, so the blurred edge
	// pixel is 255*(4+8)/16 rather than the zero-padded 255*8/16.
	img := NewPixelBuffer(3, 3)
	for y := 0; y < 3; y++ {
		img.SetRGB(0, y, RGB{R: 255, G: 255, B: 255})
	}

	blurred := GaussianBlur(img)
	want := uint8(math.Round(255 * 12.0 / 16))
	if got := blurred.GetRGB(0, 1).R; got != want {
		t.Errorf("Expected replicated edge value %d, got %d", want, got)
	}
}

func TestGaussianBlurFlat(t *testing.T) {
	img := CreateSolidImage(7, 5, RGB{R: 12, G: 130, B: 251})
	if !GaussianBlur(img).Equal(img) {
		t.Error("Blurring a flat image should not change it anywhere")
	}
}

func TestUnsharpMaskZeroAmountIsIdentity(t *testing.T) {
	img := CreateColorBarsImage(32, 8)
	img.SetRGB(3, 3, RGB{R: 17, G: 99, B: 203})

	out := UnsharpMask(img, 0)
	if !out.Equal(img) {
		t.Errorf("Amount 0 should be a no-op, max diff %d", CalculateMaxDiff(img, out))
	}
	if out == img {
		t.Error("UnsharpMask should return a new buffer")
	}
}

func TestUnsharpMaskFlatImage(t *testing.T) {
	img := CreateSolidImage(9, 6, RGB{R: 40, G: 128, B: 220})
	for _, amount := range []float64{0, 0.5, 1.5, 3, 10, -1} {
		out := UnsharpMask(img, amount)
		if !out.Equal(img) {
			t.Errorf("Flat image changed with amount %v, max diff %d",
				amount, CalculateMaxDiff(img, out))
		}
	}
}

func TestUnsharpMaskIncreasesContrast(t *testing.T) {
	// Left half 100, right half 150. Sharpening should push the pixels on
	// each side of the step further apart.
	img := CreateSolidImage(6, 3, RGB{R: 100, G: 100, B: 100})
	for y := 0; y < 3; y++ {
		for x := 3; x < 6; x++ {
			img.SetRGB(x, y, RGB{R: 150, G: 150, B: 150})
		}
	}
	before := img.Clone()

	out := UnsharpMask(img, DefaultSharpenAmount)
	if !img.Equal(before) {
		t.Fatal("UnsharpMask modified its input")
	}

	dark := out.GetRGB(2, 1).R
	bright := out.GetRGB(3, 1).R
	if dark >= 100 {
		t.Errorf("Dark side of the edge should get darker, got %d", dark)
	}
	if bright <= 150 {
		t.Errorf("Bright side of the edge should get brighter, got %d", bright)
	}

	// orig 100, blurred = round(100*12/16 + 150*4/16) = 113
	// out = round(100 + (100-113)*1.5) = 80.5 -> 81 (half rounds away from zero)
	if dark != 81 {
		t.Errorf("Expected 81 next to the edge, got %d", dark)
	}
}

func TestUnsharpMaskClamps(t *testing.T) {
	img := NewPixelBuffer(3, 3)
	img.SetRGB(1, 1, RGB{R: 255, G: 255, B: 255})

	out := UnsharpMask(img, 10)
	if out.GetRGB(1, 1).R != 255 {
		t.Errorf("Centre should saturate at 255, got %d", out.GetRGB(1, 1).R)
	}
	if out.GetRGB(0, 0).R != 0 {
		t.Errorf("Neighbours should saturate at 0, got %d", out.GetRGB(0, 0).R)
	}
}

func TestUnsharpMaskEmpty(t *testing.T) {
	out := UnsharpMask(NewPixelBuffer(0, 0), DefaultSharpenAmount)
	if !out.Empty() {
		t.Errorf("Expected empty output, got %dx%d", out.Width(), out.Height())
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	// Downscale
	resized := Resize(img, 50, 50, InterpolationArea)
	if resized.Width() != 50 || resized.Height() != 50 {
		t.Errorf("Expected 50x50, got %dx%d", resized.Width(), resized.Height())
	}

	// Upscale
	resized = Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeNearestKeepsBinary(t *testing.T) {
	img := CreateCheckerboardImage(64, 64, 8)
	resized := Resize(img, 16, 16, InterpolationNearest)
	for _, c := range resized.Pix() {
		if c != (RGB{}) && c != (RGB{255, 255, 255}) {
			t.Fatalf("Nearest resize introduced grey %v", c)
		}
	}
}

func TestFit(t *testing.T) {
	img := CreateGradientImage(200, 100)
	fitted := Fit(img, 50, 50, InterpolationArea)
	if fitted.Width() != 50 || fitted.Height() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", fitted.Width(), fitted.Height())
	}

	small := CreateGradientImage(10, 10)
	if got := Fit(small, 50, 50, InterpolationArea); !got.Equal(small) {
		t.Error("Fit should not upscale buffers that already fit")
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	img := CreateColorBarsImage(64, 64)

	for _, name := range []string{"test.png", "test.tiff", "test.bmp"} {
		path := filepath.Join(tmpDir, name)
		if err := SaveImage(img, path); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}

		loaded, err := LoadImage(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", name, err)
		}

		// These formats are lossless
		if mse := CalculateMSE(img, loaded); mse > 0.01 {
			t.Errorf("%s should be lossless, MSE=%f", name, mse)
		}
	}
}

func TestLoadImageErrors(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := DecodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Expected error for garbage input")
	}
}

func TestSupportedExtension(t *testing.T) {
	for path, want := range map[string]bool{
		"a.png": true, "a.JPG": true, "a.tif": true, "a.bmp": true,
		"a.webp": false, "a": false,
	} {
		if got := SupportedExtension(path); got != want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestComparisonSheet(t *testing.T) {
	before := CreateSolidImage(20, 10, RGB{R: 255})
	after := CreateSolidImage(30, 15, RGB{B: 255})

	sheet, err := ComparisonSheet(before, after, "before", "after")
	if err != nil {
		t.Fatalf("ComparisonSheet failed: %v", err)
	}

	wantW := sheetPadding*3 + 20 + 30
	wantH := sheetPadding*2 + captionHeight + 15
	if sheet.Width() != wantW || sheet.Height() != wantH {
		t.Fatalf("Expected %dx%d, got %dx%d", wantW, wantH, sheet.Width(), sheet.Height())
	}

	top := sheetPadding + captionHeight
	if got := sheet.GetRGB(sheetPadding, top); got != (RGB{R: 255}) {
		t.Errorf("Left image not placed at its slot, got %v", got)
	}
	if got := sheet.GetRGB(sheetPadding*2+20, top); got != (RGB{B: 255}) {
		t.Errorf("Right image not placed at its slot, got %v", got)
	}

	// Some caption ink must land in the caption band.
	inked := false
	for y := 0; y < top && !inked; y++ {
		for x := 0; x < sheet.Width(); x++ {
			if sheet.GetRGB(x, y) != (RGB{255, 255, 255}) {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("Expected caption text above the images")
	}
}

func TestCalculateMSE(t *testing.T) {
	img1 := NewPixelBuffer(10, 10)
	img2 := NewPixelBuffer(10, 10)

	// Same images should have MSE of 0
	mse := CalculateMSE(img1, img2)
	if mse != 0 {
		t.Errorf("Identical images should have MSE=0, got %f", mse)
	}

	img2 = CreateSolidImage(10, 10, RGB{R: 10, G: 10, B: 10})
	mse = CalculateMSE(img1, img2)
	expected := 100.0 // 10^2 = 100
	if mse != expected {
		t.Errorf("Expected MSE=%f, got %f", expected, mse)
	}
	if d := CalculateMaxDiff(img1, img2); d != 10 {
		t.Errorf("Expected max diff 10, got %d", d)
	}
}

// TestSaveTestImages saves test images to testdata directory for visual inspection.
// Run with: SAVE_TEST_IMAGES=1 go test -run TestSaveTestImages -v
func TestSaveTestImages(t *testing.T) {
	if os.Getenv("SAVE_TEST_IMAGES") != "1" {
		t.Skip("Set SAVE_TEST_IMAGES=1 to generate test images")
	}

	testdataDir := "../testdata"
	os.MkdirAll(testdataDir, 0755)

	SaveImage(CreateGradientImage(256, 256), filepath.Join(testdataDir, "gradient.png"))
	SaveImage(CreateCheckerboardImage(256, 256, 32), filepath.Join(testdataDir, "checkerboard.png"))
	SaveImage(CreateColorBarsImage(256, 256), filepath.Join(testdataDir, "colorbars.png"))
	speckle := CreateSpeckleImage(256, 256)
	SaveImage(speckle, filepath.Join(testdataDir, "speckle.png"))
	SaveImage(UnsharpMask(speckle, DefaultSharpenAmount), filepath.Join(testdataDir, "speckle_sharp.png"))

	t.Log("Test images saved to testdata/")
}
