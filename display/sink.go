// Package display puts processed buffers somewhere a person can look at
// them: an image file, a stream of truecolor ANSI text, or an
// interactive terminal screen.
package display

import (
	"fmt"
	"path/filepath"

	"github.com/wbrown/morphsharp/imageutil"
)

// Sink receives a finished buffer.
type Sink interface {
	Show(img *imageutil.PixelBuffer) error
}

var (
	_ Sink = (*FileSink)(nil)
	_ Sink = (*ANSIWriter)(nil)
	_ Sink = (*TerminalViewer)(nil)
)

// FileSink writes each buffer it is shown to Path. The format follows the
// file extension; extensions SaveImage cannot encode are rejected.
type FileSink struct {
	Path string
}

// Show encodes img to the sink's path.
func (f *FileSink) Show(img *imageutil.PixelBuffer) error {
	if f.Path == "" {
		return fmt.Errorf("file sink has no path")
	}
	if !imageutil.SupportedExtension(f.Path) {
		return fmt.Errorf("unsupported output format %q", filepath.Ext(f.Path))
	}
	if err := imageutil.SaveImage(img, f.Path); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}
