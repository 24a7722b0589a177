package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wbrown/morphsharp"
	"github.com/wbrown/morphsharp/display"
	"github.com/wbrown/morphsharp/imageutil"
	"github.com/wbrown/morphsharp/morph"
)

type options struct {
	input       string
	output      string
	recipe      string
	sharpen     bool
	amount      float64
	op          string
	shape       string
	size        int
	iterations  int
	order       string
	preview     string
	width       int
	view        bool
	showElement bool
	debug       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "",
		"Path to the input image file (required)")
	flag.StringVar(&opts.output, "output", "",
		"Path to save the result (if not specified, prints ANSI to stdout)")
	flag.StringVar(&opts.recipe, "recipe", "",
		"Path to a TOML recipe; replaces the step flags below")
	flag.BoolVar(&opts.sharpen, "sharpen", false,
		"Apply an unsharp mask")
	flag.Float64Var(&opts.amount, "amount", imageutil.DefaultSharpenAmount,
		"Unsharp mask strength")
	flag.StringVar(&opts.op, "op", "",
		"Morphological operation: erode, dilate, open or close")
	flag.StringVar(&opts.shape, "shape", "square",
		"Structuring element shape: square, ellipse or cross")
	flag.IntVar(&opts.size, "size", morphsharp.DefaultElementSize,
		fmt.Sprintf("Structuring element size (%d-%d)",
			morphsharp.MinElementSize, morphsharp.MaxElementSize))
	flag.IntVar(&opts.iterations, "iterations", 1,
		"Number of times to repeat the morphological operation")
	flag.StringVar(&opts.order, "order", "sharpen,morph",
		"Step order when both -sharpen and -op are given")
	flag.StringVar(&opts.preview, "preview", "",
		"Path to save a before/after comparison sheet")
	flag.IntVar(&opts.width, "width", 80,
		"Maximum width of ANSI output in characters")
	flag.BoolVar(&opts.view, "view", false,
		"Step through the results in an interactive terminal viewer")
	flag.BoolVar(&opts.showElement, "show-element", false,
		"Print the structuring element selected by -shape and -size and exit")
	flag.BoolVar(&opts.debug, "debug", false,
		"Enable debug logging")
	flag.Parse()

	logger := initLogger(opts.debug)

	if err := run(opts, logger); err != nil {
		logger.WithError(err).Error("morphsharp failed")
		os.Exit(1)
	}
}

// initLogger writes to stderr so stdout stays free for ANSI output.
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

func run(opts options, logger *logrus.Logger) error {
	if opts.showElement {
		return printElement(opts)
	}

	if opts.input == "" {
		flag.PrintDefaults()
		return errors.New("please provide the image using the -input flag")
	}

	if err := checkOutputs(opts); err != nil {
		return err
	}

	steps, err := buildSteps(opts)
	if err != nil {
		return err
	}

	img, err := imageutil.LoadImage(opts.input)
	if err != nil {
		return err
	}

	session := morphsharp.NewSession(logger)
	session.Load(img)

	start := time.Now()
	for _, step := range steps {
		if _, err := session.Apply(step); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	result, err := session.Current()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"steps":    len(steps),
		"duration": time.Since(start).String(),
	}).Info("Processing complete")

	if opts.preview != "" {
		if err := writePreview(session, opts.preview); err != nil {
			return err
		}
		logger.WithField("path", opts.preview).Info("Preview written")
	}

	if opts.view {
		return view(session)
	}

	var sink display.Sink
	if opts.output != "" {
		sink = &display.FileSink{Path: opts.output}
	} else {
		sink = &display.ANSIWriter{W: os.Stdout, Width: opts.width}
	}
	if err := sink.Show(result); err != nil {
		return err
	}
	if opts.output != "" {
		logger.WithField("path", opts.output).Info("Output written")
	}
	return nil
}

// checkOutputs rejects output paths SaveImage cannot encode before any
// work is done.
func checkOutputs(opts options) error {
	for flagName, path := range map[string]string{"-output": opts.output, "-preview": opts.preview} {
		if path != "" && !imageutil.SupportedExtension(path) {
			return fmt.Errorf("%s %s: unsupported image format (use png, jpg, gif, tiff or bmp)", flagName, path)
		}
	}
	return nil
}

// buildSteps turns the command line into a step chain. A recipe file
// takes the place of the individual step flags.
func buildSteps(opts options) ([]morphsharp.Step, error) {
	if opts.recipe != "" {
		if opts.sharpen || opts.op != "" {
			return nil, errors.New("-recipe cannot be combined with -sharpen or -op")
		}
		recipe, err := morphsharp.LoadRecipe(opts.recipe)
		if err != nil {
			return nil, err
		}
		return recipe.Steps, nil
	}

	var sharpenStep, morphStep *morphsharp.Step
	if opts.sharpen {
		step := morphsharp.SharpenStep(opts.amount)
		sharpenStep = &step
	}
	if opts.op != "" {
		cfg, err := morphologyConfig(opts)
		if err != nil {
			return nil, err
		}
		step := morphsharp.MorphologyStep(cfg)
		morphStep = &step
	}
	if sharpenStep == nil && morphStep == nil {
		return nil, errors.New("nothing to do: give -sharpen, -op or -recipe")
	}

	var steps []morphsharp.Step
	for _, name := range strings.Split(opts.order, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "sharpen":
			if sharpenStep != nil {
				steps = append(steps, *sharpenStep)
				sharpenStep = nil
			}
		case "morph", "morphology":
			if morphStep != nil {
				steps = append(steps, *morphStep)
				morphStep = nil
			}
		default:
			return nil, fmt.Errorf("unknown step %q in -order", name)
		}
	}
	if sharpenStep != nil || morphStep != nil {
		return nil, fmt.Errorf("-order %q does not name every requested step", opts.order)
	}

	for _, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

func morphologyConfig(opts options) (morphsharp.MorphologyConfig, error) {
	op, err := morph.ParseOp(opts.op)
	if err != nil {
		return morphsharp.MorphologyConfig{}, err
	}
	shape, err := morph.ParseShape(opts.shape)
	if err != nil {
		return morphsharp.MorphologyConfig{}, err
	}
	return morphsharp.MorphologyConfig{
		Op:         op,
		Shape:      shape,
		Size:       opts.size,
		Iterations: opts.iterations,
	}, nil
}

func printElement(opts options) error {
	cfg, err := morphologyConfig(options{
		op:         "erode",
		shape:      opts.shape,
		size:       opts.size,
		iterations: 1,
	})
	if err != nil {
		return err
	}
	element, err := cfg.Element()
	if err != nil {
		return err
	}
	fmt.Printf("%s(%d), anchor (%d,%d):\n%s",
		cfg.Shape, cfg.Size, element.Anchor(), element.Anchor(), element)
	return nil
}

func writePreview(session *morphsharp.Session, path string) error {
	before, err := session.Original()
	if err != nil {
		return err
	}
	after, err := session.Current()
	if err != nil {
		return err
	}

	label := "result"
	if history := session.History(); len(history) > 0 {
		names := make([]string, len(history))
		for i, entry := range history {
			names[i] = entry.Step.String()
		}
		label = strings.Join(names, ", ")
	}

	sheet, err := imageutil.ComparisonSheet(before, after, "original", label)
	if err != nil {
		return err
	}
	return (&display.FileSink{Path: path}).Show(sheet)
}

// view shows the original and then every intermediate result, advancing
// on each key press.
func view(session *morphsharp.Session) error {
	viewer, err := display.NewTerminalViewer()
	if err != nil {
		return err
	}
	defer viewer.Close()

	original, err := session.Original()
	if err != nil {
		return err
	}
	if err := viewer.Show(original); err != nil {
		return err
	}
	for _, entry := range session.History() {
		if err := viewer.Show(entry.Result); err != nil {
			return err
		}
	}
	return nil
}
