// Package render turns prompt segments into styled terminal text and
// assembles the primary (PS1) and continuation (PS2) prompt lines.
package render

import (
	"io"
	"strings"

	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/muesli/termenv"
)

// Style is an optional text attribute applied on top of a segment's color.
type Style int

const (
	StyleNone Style = iota
	StyleDim
)

// Segment is one facet of the prompt line: an optional icon followed by
// optional text. A segment with neither renders as nothing.
type Segment struct {
	Icon  string
	Text  string
	Color string // termenv color string, usually a 256-palette index from styles
	Style Style
}

// Empty reports whether the segment contributes nothing to the line.
func (s Segment) Empty() bool {
	return s.Icon == "" && s.Text == ""
}

// Renderer styles segments for a fixed color profile.
type Renderer struct {
	output *termenv.Output
}

// NewRenderer creates a Renderer writing escape sequences for profile.
func NewRenderer(w io.Writer, profile termenv.Profile) *Renderer {
	return &Renderer{
		output: termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

// Segment returns the styled text of a single segment. The icon is never
// colored; only the text carries color and style.
func (r *Renderer) Segment(s Segment) string {
	var b strings.Builder

	if s.Icon != "" {
		b.WriteString(s.Icon)
		if s.Text != "" {
			b.WriteByte(' ')
		}
	}

	if s.Text != "" {
		text := r.output.String(s.Text)
		if s.Color != "" {
			text = text.Foreground(r.output.Color(s.Color))
		}
		if s.Style == StyleDim {
			text = text.Faint()
		}
		b.WriteString(text.String())
	}

	return b.String()
}

// Line joins the non-empty segments with single spaces.
func (r *Renderer) Line(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Empty() {
			continue
		}
		parts = append(parts, r.Segment(s))
	}
	return strings.Join(parts, " ")
}

// Colored renders text in a palette color with no icon.
func (r *Renderer) Colored(text string, color string) string {
	return r.Segment(Segment{Text: text, Color: color})
}

// Continuation renders the secondary prompt.
func (r *Renderer) Continuation() string {
	return r.Colored("→ ", styles.Color(styles.RoleContinuation))
}
