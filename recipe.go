package morphsharp

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wbrown/morphsharp/imageutil"
	"github.com/wbrown/morphsharp/morph"
)

// StepKind selects which pipeline a Step runs.
type StepKind int

const (
	// StepSharpen runs the unsharp mask.
	StepSharpen StepKind = iota
	// StepMorphology runs binarize, morphology and render.
	StepMorphology
)

func (k StepKind) String() string {
	switch k {
	case StepSharpen:
		return "sharpen"
	case StepMorphology:
		return "morphology"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Step is one transform in a chain. Only the config matching Kind is
// used.
type Step struct {
	Kind       StepKind
	Sharpen    SharpenConfig
	Morphology MorphologyConfig
}

// SharpenStep returns a sharpening step with the given amount.
func SharpenStep(amount float64) Step {
	return Step{Kind: StepSharpen, Sharpen: SharpenConfig{Amount: amount}}
}

// MorphologyStep returns a morphology step.
func MorphologyStep(cfg MorphologyConfig) Step {
	return Step{Kind: StepMorphology, Morphology: cfg}
}

// Validate checks the config selected by Kind.
func (s Step) Validate() error {
	switch s.Kind {
	case StepSharpen:
		return s.Sharpen.Validate()
	case StepMorphology:
		return s.Morphology.Validate()
	}
	return fmt.Errorf("unknown step kind %d", int(s.Kind))
}

// Apply runs the step on img and returns the new buffer.
func (s Step) Apply(img *imageutil.PixelBuffer) (*imageutil.PixelBuffer, error) {
	switch s.Kind {
	case StepSharpen:
		return s.Sharpen.Apply(img)
	case StepMorphology:
		return s.Morphology.Apply(img)
	}
	return nil, fmt.Errorf("unknown step kind %d", int(s.Kind))
}

func (s Step) String() string {
	switch s.Kind {
	case StepSharpen:
		return s.Sharpen.String()
	case StepMorphology:
		return s.Morphology.String()
	}
	return s.Kind.String()
}

// Recipe is an ordered chain of steps, typically read from a TOML file:
//
//	[[step]]
//	kind = "sharpen"
//	amount = 1.5
//
//	[[step]]
//	kind = "morphology"
//	op = "open"
//	shape = "ellipse"
//	size = 5
type Recipe struct {
	Steps []Step
}

type recipeFile struct {
	Steps []stepFile `toml:"step"`
}

type stepFile struct {
	Kind       string       `toml:"kind"`
	Amount     *float64     `toml:"amount"`
	Op         *morph.Op    `toml:"op"`
	Shape      *morph.Shape `toml:"shape"`
	Size       *int         `toml:"size"`
	Iterations *int         `toml:"iterations"`
}

// ParseRecipe decodes a TOML recipe. Missing fields take their defaults;
// fields that are present are validated as given, and unknown keys are
// rejected.
func ParseRecipe(data []byte) (*Recipe, error) {
	var file recipeFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return file.toRecipe(md)
}

// LoadRecipe reads and decodes a TOML recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	var file recipeFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return file.toRecipe(md)
}

func (file recipeFile) toRecipe(md toml.MetaData) (*Recipe, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown recipe keys: %s", strings.Join(keys, ", "))
	}

	recipe := &Recipe{Steps: make([]Step, 0, len(file.Steps))}
	for i, sf := range file.Steps {
		step, err := sf.toStep()
		if err != nil {
			return nil, fmt.Errorf("recipe step %d: %w", i+1, err)
		}
		recipe.Steps = append(recipe.Steps, step)
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (sf stepFile) toStep() (Step, error) {
	switch strings.ToLower(strings.TrimSpace(sf.Kind)) {
	case "sharpen":
		if sf.Op != nil || sf.Shape != nil || sf.Size != nil || sf.Iterations != nil {
			return Step{}, fmt.Errorf("sharpen step takes only an amount")
		}
		cfg := DefaultSharpenConfig()
		if sf.Amount != nil {
			cfg.Amount = *sf.Amount
		}
		return Step{Kind: StepSharpen, Sharpen: cfg}, nil

	case "morphology", "morph":
		if sf.Amount != nil {
			return Step{}, fmt.Errorf("morphology step does not take an amount")
		}
		cfg := DefaultMorphologyConfig()
		if sf.Op != nil {
			cfg.Op = *sf.Op
		}
		if sf.Shape != nil {
			cfg.Shape = *sf.Shape
		}
		if sf.Size != nil {
			cfg.Size = *sf.Size
		}
		if sf.Iterations != nil {
			cfg.Iterations = *sf.Iterations
		}
		return Step{Kind: StepMorphology, Morphology: cfg}, nil
	}
	return Step{}, fmt.Errorf("unknown step kind %q", sf.Kind)
}

// Validate checks every step.
func (r *Recipe) Validate() error {
	for i, s := range r.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("recipe step %d (%s): %w", i+1, s.Kind, err)
		}
	}
	return nil
}

// Run applies the steps in order, each one to the output of the
// previous, and returns the last buffer. The input is not modified; an
// empty recipe returns a copy of it.
func (r *Recipe) Run(img *imageutil.PixelBuffer) (*imageutil.PixelBuffer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := img.Clone()
	for i, s := range r.Steps {
		next, err := s.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("recipe step %d (%s): %w", i+1, s, err)
		}
		out = next
	}
	return out, nil
}
