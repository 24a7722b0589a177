package display

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wbrown/morphsharp/imageutil"
)

// ErrScreenClosed is returned by TerminalViewer.Show when the screen is
// finalized while waiting for input.
var ErrScreenClosed = errors.New("screen closed")

// TerminalViewer draws buffers full-screen with tcell and waits for a key
// press before returning, so a caller can step through results one at a
// time.
type TerminalViewer struct {
	screen tcell.Screen
}

// NewTerminalViewer opens and initializes the controlling terminal.
// Call Close to restore it.
func NewTerminalViewer() (*TerminalViewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminalViewerWithScreen(screen), nil
}

// NewTerminalViewerWithScreen wraps an already initialized screen.
func NewTerminalViewerWithScreen(screen tcell.Screen) *TerminalViewer {
	return &TerminalViewer{screen: screen}
}

// Show draws img scaled to the screen and blocks until a key is pressed.
// The image is redrawn when the terminal is resized.
func (v *TerminalViewer) Show(img *imageutil.PixelBuffer) error {
	v.draw(img)
	for {
		switch v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.draw(img)
		case *tcell.EventKey:
			return nil
		case nil:
			return ErrScreenClosed
		}
	}
}

// Close restores the terminal.
func (v *TerminalViewer) Close() {
	v.screen.Fini()
}

func (v *TerminalViewer) draw(img *imageutil.PixelBuffer) {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if cols > 0 && rows > 0 && !img.Empty() {
		fitted := imageutil.Fit(img, cols, rows*2, previewInterpolation(img))
		width, height := fitted.Width(), fitted.Height()
		for y := 0; y < height; y += 2 {
			for x := 0; x < width; x++ {
				style := tcell.StyleDefault.Foreground(cellColor(fitted.GetRGB(x, y)))
				if y+1 < height {
					style = style.Background(cellColor(fitted.GetRGB(x, y+1)))
				}
				v.screen.SetContent(x, y/2, upperHalf, nil, style)
			}
		}
	}
	v.screen.Show()
}

func cellColor(c imageutil.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
