package morph

import (
	"fmt"
	"strings"
)

// Shape selects the neighbourhood pattern of a structuring element.
type Shape int

const (
	// Square activates every cell.
	Square Shape = iota
	// Ellipse activates a filled disk inscribed in the element box.
	Ellipse
	// Cross activates one full row and one full column through the anchor.
	Cross
)

var shapeNames = map[Shape]string{
	Square:  "square",
	Ellipse: "ellipse",
	Cross:   "cross",
}

// Shapes lists every supported shape.
func Shapes() []Shape {
	return []Shape{Square, Ellipse, Cross}
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape parses a shape name, ignoring case. "rect" and "disk" are
// accepted as aliases for square and ellipse.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square", "rect":
		return Square, nil
	case "ellipse", "disk":
		return Ellipse, nil
	case "cross":
		return Cross, nil
	}
	return 0, fmt.Errorf("unknown structuring element shape %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if _, ok := shapeNames[s]; !ok {
		return nil, fmt.Errorf("unknown structuring element shape %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StructuringElement is a square grid of active offsets. The anchor sits
// at (Size()/2, Size()/2) with integer division, so even sizes reach one
// cell further up and left than down and right.
type StructuringElement struct {
	size  int
	cells []bool
}

// NewStructuringElement builds an element of the given shape. size must
// be at least 1; callers validate it before getting here and a smaller
// size panics.
func NewStructuringElement(shape Shape, size int) *StructuringElement {
	if size < 1 {
		panic(fmt.Sprintf("morph: structuring element size %d < 1", size))
	}
	e := &StructuringElement{
		size:  size,
		cells: make([]bool, size*size),
	}

	centre := float64(size) / 2
	radiusSq := centre * centre
	half := size / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var on bool
			switch shape {
			case Square:
				on = true
			case Ellipse:
				dx := float64(x) - centre
				dy := float64(y) - centre
				on = dx*dx+dy*dy <= radiusSq
			case Cross:
				on = x == half || y == half
			default:
				panic(fmt.Sprintf("morph: unknown shape %d", int(shape)))
			}
			e.cells[y*size+x] = on
		}
	}
	return e
}

// Size returns the side length of the element grid.
func (e *StructuringElement) Size() int {
	return e.size
}

// Anchor returns the anchor index on both axes.
func (e *StructuringElement) Anchor() int {
	return e.size / 2
}

// Active reports whether the cell at (x, y) of the grid is part of the
// neighbourhood.
func (e *StructuringElement) Active(x, y int) bool {
	return e.cells[y*e.size+x]
}

// offsets returns the active cells as displacements from the anchor,
// in row-major order.
func (e *StructuringElement) offsets() [][2]int {
	half := e.Anchor()
	out := make([][2]int, 0, len(e.cells))
	for ky := 0; ky < e.size; ky++ {
		for kx := 0; kx < e.size; kx++ {
			if e.cells[ky*e.size+kx] {
				out = append(out, [2]int{kx - half, ky - half})
			}
		}
	}
	return out
}

// String renders the element as rows of '#' and '.'.
func (e *StructuringElement) String() string {
	var sb strings.Builder
	for y := 0; y < e.size; y++ {
		for x := 0; x < e.size; x++ {
			if e.cells[y*e.size+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
