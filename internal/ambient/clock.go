package ambient

import (
	"context"
	"time"

	"github.com/atinylittleshell/gprompt/internal/render"
)

// TimeLayout is the wall-clock format shown at the start of the prompt.
const TimeLayout = "15:04:05"

// Clock renders the current local time.
type Clock struct {
	now func() time.Time
}

// NewClock creates a Clock. A nil now function uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Name returns the facet name.
func (c *Clock) Name() string {
	return "clock"
}

// Segments returns the dimmed wall-clock time.
func (c *Clock) Segments(_ context.Context) []render.Segment {
	return []render.Segment{{
		Text:  c.now().Format(TimeLayout),
		Style: render.StyleDim,
	}}
}
