// Package prompt assembles the shell prompt from an ordered list of
// providers, each contributing zero or more segments.
package prompt

import (
	"context"

	"github.com/atinylittleshell/gprompt/internal/render"
)

// Provider is the interface every prompt facet implements.
type Provider interface {
	// Name identifies the facet in logs.
	Name() string

	// Segments returns the facet's segments. Returning nothing omits the
	// facet; providers never report errors.
	Segments(ctx context.Context) []render.Segment
}
