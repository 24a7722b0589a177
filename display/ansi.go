package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/wbrown/morphsharp/imageutil"
)

const (
	esc       = "\x1b"
	upperHalf = '▀'
	lineReset = esc + "[0m\n"
)

// ANSIWriter renders buffers as truecolor ANSI text. Each character cell
// carries two pixels: the upper half block is painted with the foreground
// color and the lower half with the background color, so pixels stay
// roughly square on a typical terminal font.
type ANSIWriter struct {
	W io.Writer
	// Width caps the output width in cells. Wider buffers are scaled
	// down; zero disables scaling.
	Width int
}

// Show writes img to the writer.
func (a *ANSIWriter) Show(img *imageutil.PixelBuffer) error {
	if a.Width > 0 && img.Width() > a.Width {
		img = imageutil.ResizeToWidth(img, a.Width, previewInterpolation(img))
	}
	if _, err := io.WriteString(a.W, RenderANSI(img)); err != nil {
		return fmt.Errorf("failed to write ANSI output: %w", err)
	}
	return nil
}

// RenderANSI returns the half-block rendering of img. Color codes are only
// emitted when they change along a line, and every line ends with a reset.
// An odd last row is drawn over the default background.
func RenderANSI(img *imageutil.PixelBuffer) string {
	var sb strings.Builder
	width, height := img.Width(), img.Height()

	for y := 0; y < height; y += 2 {
		var currentFg, currentBg string
		for x := 0; x < width; x++ {
			fg := fgCode(img.GetRGB(x, y))
			bg := ""
			if y+1 < height {
				bg = bgCode(img.GetRGB(x, y+1))
			}

			var codes []string
			if fg != currentFg {
				codes = append(codes, fg)
			}
			if bg != currentBg {
				if bg == "" {
					codes = append(codes, "49")
				} else {
					codes = append(codes, bg)
				}
			}
			if len(codes) > 0 {
				sb.WriteString(esc + "[" + strings.Join(codes, ";") + "m")
			}
			currentFg, currentBg = fg, bg
			sb.WriteRune(upperHalf)
		}
		sb.WriteString(lineReset)
	}
	return sb.String()
}

// previewInterpolation picks nearest-neighbour scaling for buffers that
// are strictly black and white, such as rendered masks, so they stay
// two-tone. Everything else gets area scaling.
func previewInterpolation(img *imageutil.PixelBuffer) imageutil.Interpolation {
	black, white := imageutil.RGB{}, imageutil.RGB{R: 255, G: 255, B: 255}
	for _, c := range img.Pix() {
		if c != black && c != white {
			return imageutil.InterpolationArea
		}
	}
	return imageutil.InterpolationNearest
}

func fgCode(c imageutil.RGB) string {
	return fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
}

func bgCode(c imageutil.RGB) string {
	return fmt.Sprintf("48;2;%d;%d;%d", c.R, c.G, c.B)
}
