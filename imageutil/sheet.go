package imageutil

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	sheetPadding    = 8
	captionHeight   = 20
	captionPtSize   = 14
	captionDPI      = 72
	captionBaseline = sheetPadding + captionPtSize
)

// ComparisonSheet lays two buffers out side by side on a white canvas
// with a caption above each one. It is used to write before/after
// previews next to the processed output.
func ComparisonSheet(before, after *PixelBuffer, beforeLabel, afterLabel string) (*PixelBuffer, error) {
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption font: %w", err)
	}

	contentHeight := before.Height()
	if after.Height() > contentHeight {
		contentHeight = after.Height()
	}
	width := sheetPadding*3 + before.Width() + after.Width()
	height := sheetPadding*2 + captionHeight + contentHeight

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	top := sheetPadding + captionHeight
	leftX := sheetPadding
	rightX := sheetPadding*2 + before.Width()

	draw.Draw(canvas, image.Rect(leftX, top, leftX+before.Width(), top+before.Height()),
		before.ToRGBA(), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(rightX, top, rightX+after.Width(), top+after.Height()),
		after.ToRGBA(), image.Point{}, draw.Src)

	ctx := newCaptionContext(ttf, canvas)
	if _, err := ctx.DrawString(beforeLabel, freetype.Pt(leftX, captionBaseline)); err != nil {
		return nil, fmt.Errorf("failed to draw caption %q: %w", beforeLabel, err)
	}
	if _, err := ctx.DrawString(afterLabel, freetype.Pt(rightX, captionBaseline)); err != nil {
		return nil, fmt.Errorf("failed to draw caption %q: %w", afterLabel, err)
	}

	return PixelBufferFromImage(canvas), nil
}

func newCaptionContext(ttf *truetype.Font, dst draw.Image) *freetype.Context {
	ctx := freetype.NewContext()
	ctx.SetDPI(captionDPI)
	ctx.SetFont(ttf)
	ctx.SetFontSize(captionPtSize)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingFull)
	return ctx
}
