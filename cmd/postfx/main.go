// Command postfx runs the post-processing stages over an image file.
//
// Usage:
//
//	postfx -in render.png -out display.png -stages tonemap,blit -width 1280 -height 720
//
// The input is decoded as straight-alpha sRGB into premultiplied linear
// light. When the chain contains an encoding stage (gamma or tonemap) the
// result is written as-is; otherwise it is sRGB-encoded on output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/gpu"
)

// config holds the parsed command line.
type config struct {
	in, out       string
	stages        []string
	transfer      postfx.TransferParams
	gamma         postfx.GammaParams
	unpremultiply postfx.UnpremultiplyMode
	width, height int
	filter        string
	useGPU        bool
	workers       int
	shaders       string
	verbose       bool
}

// chain tracks whether the texels flowing between stages are still
// premultiplied, inserting alpha conversions where a stage needs them.
type chain struct {
	p        *postfx.Pipeline
	straight bool
}

func (c *chain) premultiplied() {
	if c.straight {
		c.p.Premultiply()
		c.straight = false
	}
}

func (c *chain) unpremultiplied() {
	if !c.straight {
		c.p.Unpremultiply()
		c.straight = true
	}
}

// stageBuilders appends one named stage to a chain.
var stageBuilders = map[string]func(c *chain, cfg *config, src *postfx.Pixmap) error{
	"gamma": func(c *chain, cfg *config, _ *postfx.Pixmap) error {
		c.unpremultiplied()
		c.p.Gamma(cfg.gamma)
		return nil
	},
	"tonemap": func(c *chain, cfg *config, _ *postfx.Pixmap) error {
		// Tonemap reads premultiplied texels and writes straight color.
		c.premultiplied()
		c.p.Tonemap(cfg.transfer)
		c.straight = true
		return nil
	},
	"blit": func(c *chain, cfg *config, src *postfx.Pixmap) error {
		s, err := parseSampler(cfg.filter)
		if err != nil {
			return err
		}
		w, h := cfg.width, cfg.height
		if w == 0 {
			w = src.Width()
		}
		if h == 0 {
			h = src.Height()
		}
		c.p.Blit(w, h, s)
		return nil
	},
	"background": func(c *chain, _ *config, _ *postfx.Pixmap) error {
		c.premultiplied()
		c.p.Background(postfx.Black)
		return nil
	},
}

// stageNames returns the known stage names, sorted.
func stageNames() []string {
	names := maps.Keys(stageBuilders)
	sort.Strings(names)
	return names
}

func parseSampler(name string) (postfx.Sampler, error) {
	switch name {
	case "nearest":
		return postfx.NearestSampler(), nil
	case "linear":
		return postfx.LinearSampler(), nil
	case "repeat":
		return postfx.Sampler{Filter: gputypes.FilterModeLinear, AddressMode: gputypes.AddressModeRepeat}, nil
	}
	return postfx.Sampler{}, fmt.Errorf("unknown filter %q (want nearest, linear, repeat or catmullrom)", name)
}

func parseFlags(args []string, output io.Writer) (*config, error) {
	fs := flag.NewFlagSet("postfx", flag.ContinueOnError)
	fs.SetOutput(output)

	cfg := &config{}
	var (
		stages    = fs.String("stages", "tonemap", "comma-separated stages: "+strings.Join(stageNames(), ", "))
		shift     = fs.Float64("shift", float64(postfx.SRGBTransfer().Shift), "tonemap curve shift")
		scale     = fs.Float64("scale", float64(postfx.SRGBTransfer().Scale), "curve scale (tonemap and power-law gamma)")
		gamma     = fs.Float64("gamma", float64(postfx.SRGBTransfer().Gamma), "tonemap curve exponent")
		gammaExp  = fs.Float64("gamma-exp", 1/2.2, "power-law gamma exponent")
		bias      = fs.Float64("bias", 0, "bias (power-law gamma; carried in the tonemap uniform)")
		gammaMode = fs.String("gamma-mode", "piecewise", "gamma curve: piecewise or powerlaw")
		divide    = fs.Bool("divide", false, "tonemap un-premultiplies by dividing by alpha")
	)
	fs.StringVar(&cfg.in, "in", "", "input image (PNG or JPEG)")
	fs.StringVar(&cfg.out, "out", "out.png", "output PNG")
	fs.IntVar(&cfg.width, "width", 0, "blit output width (0 keeps the input width)")
	fs.IntVar(&cfg.height, "height", 0, "blit output height (0 keeps the input height)")
	fs.StringVar(&cfg.filter, "filter", "linear", "blit filter: nearest, linear, repeat or catmullrom")
	fs.BoolVar(&cfg.useGPU, "gpu", true, "use the GPU accelerator when available")
	fs.IntVar(&cfg.workers, "workers", 0, "CPU workers (0 uses GOMAXPROCS)")
	fs.StringVar(&cfg.shaders, "shaders", "", "write the SPIR-V of every shader to this directory and exit")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	for _, s := range strings.Split(*stages, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.stages = append(cfg.stages, s)
		}
	}

	mode, err := postfx.ParseGammaMode(*gammaMode)
	if err != nil {
		return nil, err
	}
	cfg.transfer = postfx.TransferParams{
		Bias:  float32(*bias),
		Shift: float32(*shift),
		Scale: float32(*scale),
		Gamma: float32(*gamma),
	}
	cfg.gamma = postfx.GammaParams{Mode: mode, Scale: float32(*scale), Bias: float32(*bias), Gamma: float32(*gammaExp)}
	if *divide {
		cfg.unpremultiply = postfx.UnpremultiplyDivide
	}

	if cfg.shaders == "" && cfg.in == "" {
		return nil, errors.New("-in is required")
	}
	return cfg, nil
}

// newLogger logs text to terminals and JSON otherwise.
func newLogger(w io.Writer, isTerminal, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// buildPipeline turns the stage list into a pipeline.
func buildPipeline(cfg *config, src *postfx.Pixmap) (*postfx.Pipeline, error) {
	opts := []postfx.Option{
		postfx.WithAccelerator(cfg.useGPU),
		postfx.WithUnpremultiply(cfg.unpremultiply),
	}
	if cfg.workers > 0 {
		opts = append(opts, postfx.WithWorkers(cfg.workers))
	}
	c := &chain{p: postfx.NewPipeline(opts...)}
	for _, name := range cfg.stages {
		build, ok := stageBuilders[name]
		if !ok {
			return nil, fmt.Errorf("unknown stage %q (known: %s)", name, strings.Join(stageNames(), ", "))
		}
		if err := build(c, cfg, src); err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
	}
	// Encoded output is written as straight-alpha NRGBA.
	if encodes(cfg.stages) {
		c.unpremultiplied()
	}
	return c.p, nil
}

// encodes reports whether the chain produces display-encoded values.
func encodes(stages []string) bool {
	for _, s := range stages {
		if s == "gamma" || s == "tonemap" {
			return true
		}
	}
	return false
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// dumpShaders writes <name>.spv for every embedded shader.
func dumpShaders(dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range gpu.Shaders() {
		spirv, err := gpu.CompileShader(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		path := filepath.Join(dir, name+".spv")
		if err := os.WriteFile(path, spirv, 0o644); err != nil { //nolint:gosec // output artifacts are world-readable
			return err
		}
		logger.Info("wrote shader", "name", name, "path", path, "bytes", len(spirv))
	}
	return nil
}

// run executes the configured command and prints a summary to summary.
func run(ctx context.Context, cfg *config, logger *slog.Logger, summary io.Writer) error {
	if cfg.shaders != "" {
		return dumpShaders(cfg.shaders, logger)
	}

	img, err := loadImage(cfg.in)
	if err != nil {
		return err
	}
	start := time.Now()

	var out image.Image
	if cfg.filter == "catmullrom" {
		out, err = catmullRom(cfg, img)
	} else {
		out, err = process(ctx, cfg, img)
	}
	if err != nil {
		return err
	}
	if err := savePNG(cfg.out, out); err != nil {
		return err
	}

	b := out.Bounds()
	p := message.NewPrinter(language.English)
	p.Fprintf(summary, "%s: %d pixels (%dx%d) in %v\n",
		cfg.out, b.Dx()*b.Dy(), b.Dx(), b.Dy(), time.Since(start).Round(time.Millisecond))
	return nil
}

// process runs the float pipeline.
func process(ctx context.Context, cfg *config, img image.Image) (image.Image, error) {
	src, err := postfx.PixmapFromImage(img)
	if err != nil {
		return nil, err
	}
	p, err := buildPipeline(cfg, src)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, src)
	if err != nil {
		return nil, err
	}
	if encodes(cfg.stages) {
		return res.EncodedImage(), nil
	}
	return res.Image(), nil
}

// catmullRom scales the 8-bit image directly; only a lone blit stage
// can use it.
func catmullRom(cfg *config, img image.Image) (image.Image, error) {
	if len(cfg.stages) != 1 || cfg.stages[0] != "blit" {
		return nil, errors.New("catmullrom filter requires -stages blit")
	}
	b := img.Bounds()
	w, h := cfg.width, cfg.height
	if w == 0 {
		w = b.Dx()
	}
	if h == 0 {
		h = b.Dy()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	postfx.BlitImage(dst, img, xdraw.CatmullRom)
	return dst, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("postfx: %v", err)
	}

	logger := newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), cfg.verbose) //nolint:gosec // fd fits int
	postfx.SetLogger(logger)

	if err := run(context.Background(), cfg, logger, os.Stderr); err != nil {
		log.Fatalf("postfx: %v", err)
	}
}
