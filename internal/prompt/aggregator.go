package prompt

import (
	"context"
	"fmt"
	"io"

	"github.com/atinylittleshell/gprompt/internal/render"
	"go.uber.org/zap"
)

// Glyph ends the primary prompt.
const Glyph = "∵ "

// Aggregator collects segments from its providers in order.
type Aggregator struct {
	renderer  *render.Renderer
	providers []Provider
	logger    *zap.Logger
}

// NewAggregator creates an Aggregator rendering with renderer.
func NewAggregator(renderer *render.Renderer, logger *zap.Logger, providers ...Provider) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		renderer:  renderer,
		providers: providers,
		logger:    logger,
	}
}

// AddProvider appends a provider after the existing ones.
func (a *Aggregator) AddProvider(p Provider) {
	a.providers = append(a.providers, p)
}

// Segments gathers every provider's segments in order. A provider that
// panics is logged and skipped.
func (a *Aggregator) Segments(ctx context.Context) []render.Segment {
	var segments []render.Segment
	for _, p := range a.providers {
		segments = append(segments, a.collect(ctx, p)...)
	}
	return segments
}

func (a *Aggregator) collect(ctx context.Context, p Provider) (segments []render.Segment) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("prompt provider panicked",
				zap.String("provider", p.Name()),
				zap.Any("panic", r))
			segments = nil
		}
	}()
	return p.Segments(ctx)
}

// PS1 writes the primary prompt: a blank separator line, the facet line,
// then the prompt glyph on its own line.
func (a *Aggregator) PS1(ctx context.Context, w io.Writer) error {
	line := a.renderer.Line(a.Segments(ctx))
	if _, err := fmt.Fprintf(w, "\n%s\n%s", line, Glyph); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

// PS2 writes the continuation prompt.
func (a *Aggregator) PS2(w io.Writer) error {
	if _, err := io.WriteString(w, a.renderer.Continuation()); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}
