package postfx

import (
	"context"
	"fmt"
)

// Pipeline runs a fixed sequence of stages over a source pixmap, the way a
// host chains render target, tonemap and present.
//
// A Pipeline is configured once and may be run concurrently; Run never
// modifies the source.
//
// Example:
//
//	out, err := postfx.NewPipeline(postfx.WithWorkers(4)).
//	    Background(postfx.Black).
//	    Tonemap(postfx.SRGBTransfer()).
//	    Blit(640, 360, postfx.LinearSampler()).
//	    Run(ctx, src)
type Pipeline struct {
	opts  []Option
	steps []step
}

type step struct {
	name  string
	check func() error
	// run returns the stage output. owned reports whether src belongs to
	// the pipeline and may be overwritten.
	run func(ctx context.Context, src *Pixmap, owned bool, opts []Option) (*Pixmap, error)
}

// NewPipeline creates an empty pipeline. opts apply to every stage.
func NewPipeline(opts ...Option) *Pipeline {
	return &Pipeline{opts: opts}
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.steps) }

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Gamma appends a gamma encode stage.
func (p *Pipeline) Gamma(params GammaParams) *Pipeline {
	p.steps = append(p.steps, step{
		name:  "gamma",
		check: params.Validate,
		run: inPlace(func(ctx context.Context, dst *Pixmap, opts []Option) error {
			return Gamma(ctx, dst, dst, params, opts...)
		}),
	})
	return p
}

// Tonemap appends a tonemap stage.
func (p *Pipeline) Tonemap(params TransferParams) *Pipeline {
	p.steps = append(p.steps, step{
		name:  "tonemap",
		check: params.Validate,
		run: inPlace(func(ctx context.Context, dst *Pixmap, opts []Option) error {
			return Tonemap(ctx, dst, dst, params, opts...)
		}),
	})
	return p
}

// Blit appends a blit stage producing a width x height pixmap.
func (p *Pipeline) Blit(width, height int, s Sampler) *Pipeline {
	p.steps = append(p.steps, step{
		name: "blit",
		check: func() error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("%w: blit size %dx%d", ErrInvalidParams, width, height)
			}
			return nil
		},
		run: func(ctx context.Context, src *Pixmap, _ bool, opts []Option) (*Pixmap, error) {
			dst := NewPixmap(width, height)
			if err := Blit(ctx, dst, src, s, opts...); err != nil {
				return nil, err
			}
			return dst, nil
		},
	})
	return p
}

// Background appends a stage compositing the image over the premultiplied
// color c, as a renderer does when it clears its target to a base color.
func (p *Pipeline) Background(c RGBA) *Pipeline {
	p.steps = append(p.steps, step{
		name:  "background",
		check: func() error { return nil },
		run: inPlace(func(ctx context.Context, dst *Pixmap, opts []Option) error {
			o := resolveOptions(opts)
			return mapTexels(ctx, &o, dst, dst, func(t RGBA) RGBA {
				return t.Over(c)
			})
		}),
	})
	return p
}

// inPlace adapts a same-size stage that overwrites its input. The caller's
// source is copied first.
func inPlace(fn func(ctx context.Context, dst *Pixmap, opts []Option) error) func(context.Context, *Pixmap, bool, []Option) (*Pixmap, error) {
	return func(ctx context.Context, src *Pixmap, owned bool, opts []Option) (*Pixmap, error) {
		dst := src
		if !owned {
			dst = src.Clone()
		}
		if err := fn(ctx, dst, opts); err != nil {
			return nil, err
		}
		return dst, nil
	}
}

// Run validates every stage, then executes them in order and returns the
// final pixmap. An empty pipeline returns a copy of src.
func (p *Pipeline) Run(ctx context.Context, src *Pixmap) (*Pixmap, error) {
	if src.Empty() {
		return nil, fmt.Errorf("%w: source", ErrEmptyPixmap)
	}
	for i, s := range p.steps {
		if err := s.check(); err != nil {
			return nil, fmt.Errorf("postfx: stage %d (%s): %w", i, s.name, err)
		}
	}

	cur := src
	if len(p.steps) == 0 {
		return src.Clone(), nil
	}
	for i, s := range p.steps {
		Logger().Debug("postfx: pipeline stage", "index", i, "stage", s.name)
		next, err := s.run(ctx, cur, cur != src, p.opts)
		if err != nil {
			return nil, fmt.Errorf("postfx: stage %d (%s): %w", i, s.name, err)
		}
		cur = next
	}
	return cur, nil
}
