// Package morphsharp is the boundary between callers (the CLI, a viewer,
// a recipe file) and the pure image transforms in imageutil and morph.
//
// Configuration is validated here, once, before any algorithm runs. Each
// transform consumes a buffer and returns a new one; callers thread the
// latest buffer from step to step themselves, or let a Session do it.
package morphsharp

import (
	"errors"
	"fmt"
	"math"

	"github.com/wbrown/morphsharp/imageutil"
	"github.com/wbrown/morphsharp/morph"
)

const (
	// MinElementSize is the smallest structuring element side.
	MinElementSize = 1
	// MaxElementSize is the largest structuring element side accepted at
	// the boundary. The algorithms themselves have no upper limit.
	MaxElementSize = 20
	// DefaultElementSize is the element side used when none is given.
	DefaultElementSize = 3
	// MaxIterations caps how many times a morphology step repeats.
	MaxIterations = 10
)

var (
	// ErrInvalidDimension reports an element size, iteration count or
	// buffer shape outside the accepted range.
	ErrInvalidDimension = imageutil.ErrInvalidDimension

	// ErrInvalidAmount reports a sharpening amount that is not a finite
	// number.
	ErrInvalidAmount = errors.New("invalid sharpen amount")
)

// MorphologyConfig selects a morphological operation and its
// structuring element.
type MorphologyConfig struct {
	Op         morph.Op
	Shape      morph.Shape
	Size       int
	Iterations int
}

// DefaultMorphologyConfig returns a single erosion with a 3x3 square.
func DefaultMorphologyConfig() MorphologyConfig {
	return MorphologyConfig{
		Op:         morph.Erode,
		Shape:      morph.Square,
		Size:       DefaultElementSize,
		Iterations: 1,
	}
}

// Validate checks the configuration against the accepted ranges.
func (c MorphologyConfig) Validate() error {
	if c.Size < MinElementSize || c.Size > MaxElementSize {
		return fmt.Errorf("structuring element size %d outside [%d, %d]: %w",
			c.Size, MinElementSize, MaxElementSize, ErrInvalidDimension)
	}
	if c.Iterations < 1 || c.Iterations > MaxIterations {
		return fmt.Errorf("iterations %d outside [1, %d]: %w",
			c.Iterations, MaxIterations, ErrInvalidDimension)
	}
	if _, err := c.Op.MarshalText(); err != nil {
		return err
	}
	if _, err := c.Shape.MarshalText(); err != nil {
		return err
	}
	return nil
}

// Element builds the structuring element described by the configuration.
func (c MorphologyConfig) Element() (*morph.StructuringElement, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return morph.NewStructuringElement(c.Shape, c.Size), nil
}

// Apply binarizes img, runs the configured operation and renders the
// resulting mask back to black and white pixels.
func (c MorphologyConfig) Apply(img *imageutil.PixelBuffer) (*imageutil.PixelBuffer, error) {
	element, err := c.Element()
	if err != nil {
		return nil, err
	}
	mask, err := morph.ApplyN(morph.Binarize(img), c.Op, element, c.Iterations)
	if err != nil {
		return nil, err
	}
	return morph.Render(mask), nil
}

func (c MorphologyConfig) String() string {
	s := fmt.Sprintf("%s %s(%d)", c.Op, c.Shape, c.Size)
	if c.Iterations > 1 {
		s += fmt.Sprintf(" x%d", c.Iterations)
	}
	return s
}

// SharpenConfig holds the unsharp mask strength.
type SharpenConfig struct {
	Amount float64
}

// DefaultSharpenConfig returns the default unsharp mask strength.
func DefaultSharpenConfig() SharpenConfig {
	return SharpenConfig{Amount: imageutil.DefaultSharpenAmount}
}

// Validate rejects NaN and infinite amounts. Zero and negative amounts
// are allowed: zero is a no-op and negative values smooth.
func (c SharpenConfig) Validate() error {
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("amount %v: %w", c.Amount, ErrInvalidAmount)
	}
	return nil
}

// Apply returns an unsharp-masked copy of img.
func (c SharpenConfig) Apply(img *imageutil.PixelBuffer) (*imageutil.PixelBuffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return imageutil.UnsharpMask(img, c.Amount), nil
}

func (c SharpenConfig) String() string {
	return fmt.Sprintf("sharpen %.2f", c.Amount)
}
