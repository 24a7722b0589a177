// Package morph implements binary mathematical morphology over
// imageutil pixel buffers: thresholding into a foreground mask,
// structuring elements, erosion, dilation, opening and closing, and
// rendering a mask back to black and white pixels.
//
// Every operation is a pure function. Inputs are never modified and each
// call returns a freshly allocated result.
package morph

import (
	"fmt"
	"strings"

	"github.com/wbrown/morphsharp/imageutil"
)

// Mask is a row-major boolean raster. true marks a foreground (dark)
// pixel.
type Mask struct {
	width, height int
	bits          []bool
}

// NewMask creates an all-background mask. Negative dimensions are treated
// as zero.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// NewMaskFromBits builds a mask over a copy of bits, which must hold
// exactly width*height row-major values.
func NewMaskFromBits(width, height int, bits []bool) (*Mask, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("mask %dx%d: %w", width, height, imageutil.ErrInvalidDimension)
	}
	if len(bits) != width*height {
		return nil, fmt.Errorf("mask %dx%d needs %d values, got %d: %w",
			width, height, width*height, len(bits), imageutil.ErrInvalidDimension)
	}
	m := NewMask(width, height)
	copy(m.bits, bits)
	return m, nil
}

// ParseMask builds a mask from rows of text where '#' (or '1') is
// foreground and any other byte is background. All rows must have the
// same length.
func ParseMask(rows ...string) (*Mask, error) {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	m := NewMask(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("mask row %d has length %d, want %d: %w",
				y, len(row), width, imageutil.ErrInvalidDimension)
		}
		for x := 0; x < width; x++ {
			m.bits[y*width+x] = row[x] == '#' || row[x] == '1'
		}
	}
	return m, nil
}

// Width returns the mask width.
func (m *Mask) Width() int {
	return m.width
}

// Height returns the mask height.
func (m *Mask) Height() int {
	return m.height
}

// Get returns the value at (x, y). Points outside the mask are
// background.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Set sets the value at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Clone creates a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	clone := NewMask(m.width, m.height)
	copy(clone.bits, m.bits)
	return clone
}

// Equal reports whether both masks have the same size and values.
func (m *Mask) Equal(other *Mask) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every foreground pixel of m is also
// foreground in other. Masks of different sizes are never subsets.
func (m *Mask) SubsetOf(other *Mask) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i, b := range m.bits {
		if b && !other.bits[i] {
			return false
		}
	}
	return true
}

// String renders the mask as rows of '#' and '.'.
func (m *Mask) String() string {
	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.bits[y*m.width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
