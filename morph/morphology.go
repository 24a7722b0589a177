package morph

import (
	"fmt"
	"strings"
)

// Op is a morphological operation.
type Op int

const (
	// Erode keeps a pixel only if its whole neighbourhood is foreground.
	Erode Op = iota
	// Dilate sets a pixel if any pixel of its neighbourhood is foreground.
	Dilate
	// Open is an erosion followed by a dilation.
	Open
	// Close is a dilation followed by an erosion.
	Close
)

var opNames = map[Op]string{
	Erode:  "erode",
	Dilate: "dilate",
	Open:   "open",
	Close:  "close",
}

// Ops lists every supported operation.
func Ops() []Op {
	return []Op{Erode, Dilate, Open, Close}
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp parses an operation name, ignoring case. The noun forms
// ("erosion", "dilation", "opening", "closing") are accepted too.
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "erode", "erosion":
		return Erode, nil
	case "dilate", "dilation":
		return Dilate, nil
	case "open", "opening":
		return Open, nil
	case "close", "closing":
		return Close, nil
	}
	return 0, fmt.Errorf("unknown morphological operation %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (op Op) MarshalText() ([]byte, error) {
	if _, ok := opNames[op]; !ok {
		return nil, fmt.Errorf("unknown morphological operation %d", int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Op) UnmarshalText(text []byte) error {
	parsed, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// ErodeMask returns the erosion of mask by element. An output pixel is
// foreground only if every active offset lands inside the mask on a
// foreground pixel; offsets that fall outside count as background.
func ErodeMask(mask *Mask, element *StructuringElement) *Mask {
	width, height := mask.width, mask.height
	out := NewMask(width, height)
	offsets := element.offsets()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ok := true
			for _, o := range offsets {
				xx, yy := x+o[0], y+o[1]
				if xx < 0 || yy < 0 || xx >= width || yy >= height || !mask.bits[yy*width+xx] {
					ok = false
					break
				}
			}
			out.bits[y*width+x] = ok
		}
	}
	return out
}

// DilateMask returns the dilation of mask by element. An output pixel is
// foreground if at least one active offset lands inside the mask on a
// foreground pixel; offsets that fall outside are skipped.
func DilateMask(mask *Mask, element *StructuringElement) *Mask {
	width, height := mask.width, mask.height
	out := NewMask(width, height)
	offsets := element.offsets()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hit := false
			for _, o := range offsets {
				xx, yy := x+o[0], y+o[1]
				if xx >= 0 && yy >= 0 && xx < width && yy < height && mask.bits[yy*width+xx] {
					hit = true
					break
				}
			}
			out.bits[y*width+x] = hit
		}
	}
	return out
}

// OpenMask returns DilateMask(ErodeMask(mask, element), element).
func OpenMask(mask *Mask, element *StructuringElement) *Mask {
	return DilateMask(ErodeMask(mask, element), element)
}

// CloseMask returns ErodeMask(DilateMask(mask, element), element).
func CloseMask(mask *Mask, element *StructuringElement) *Mask {
	return ErodeMask(DilateMask(mask, element), element)
}

// Apply runs op on mask with element.
func Apply(mask *Mask, op Op, element *StructuringElement) (*Mask, error) {
	switch op {
	case Erode:
		return ErodeMask(mask, element), nil
	case Dilate:
		return DilateMask(mask, element), nil
	case Open:
		return OpenMask(mask, element), nil
	case Close:
		return CloseMask(mask, element), nil
	}
	return nil, fmt.Errorf("unknown morphological operation %d", int(op))
}

// ApplyN runs op on mask n times in a row, feeding each result into the
// next pass. n < 1 returns a copy of mask.
func ApplyN(mask *Mask, op Op, element *StructuringElement, n int) (*Mask, error) {
	out := mask.Clone()
	for i := 0; i < n; i++ {
		next, err := Apply(out, op, element)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
