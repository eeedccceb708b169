package ambient

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAbbreviateHome(t *testing.T) {
	home := filepath.FromSlash("/home/bob")

	tests := []struct {
		name     string
		pwd      string
		home     string
		expected string
	}{
		{"home itself", "/home/bob", home, "~"},
		{"below home", "/home/bob/src/app", home, filepath.FromSlash("~/src/app")},
		{"sibling with shared prefix", "/home/bob2/src", home, filepath.FromSlash("/home/bob2/src")},
		{"outside home", "/etc", home, filepath.FromSlash("/etc")},
		{"unknown home", "/home/bob/src", "", filepath.FromSlash("/home/bob/src")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, abbreviateHome(filepath.FromSlash(tt.pwd), tt.home))
		})
	}
}

func TestWorkingDirectory(t *testing.T) {
	t.Run("Name returns correct value", func(t *testing.T) {
		assert.Equal(t, "working_directory", NewWorkingDirectory(nil).Name())
	})

	t.Run("renders abbreviated directory in green", func(t *testing.T) {
		w := NewWorkingDirectory(zaptest.NewLogger(t))
		w.getwd = func() (string, error) { return filepath.FromSlash("/home/bob/src"), nil }
		w.home = func() string { return filepath.FromSlash("/home/bob") }

		segments := w.Segments(context.Background())
		require.Len(t, segments, 1)
		assert.Equal(t, filepath.FromSlash("~/src"), segments[0].Text)
		assert.Equal(t, styles.GREEN, segments[0].Color)
	})

	t.Run("unreadable directory yields nothing", func(t *testing.T) {
		w := NewWorkingDirectory(zaptest.NewLogger(t))
		w.getwd = func() (string, error) { return "", errors.New("removed") }

		assert.Empty(t, w.Segments(context.Background()))
	})
}
