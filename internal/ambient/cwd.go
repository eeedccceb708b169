package ambient

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinylittleshell/gprompt/internal/core"
	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
	"go.uber.org/zap"
)

// WorkingDirectory renders the current directory with the home directory
// abbreviated to "~".
type WorkingDirectory struct {
	getwd  func() (string, error)
	home   func() string
	logger *zap.Logger
}

// NewWorkingDirectory creates a facet reading the process working directory.
func NewWorkingDirectory(logger *zap.Logger) *WorkingDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkingDirectory{
		getwd:  os.Getwd,
		home:   core.HomeDir,
		logger: logger,
	}
}

// Name returns the facet name.
func (w *WorkingDirectory) Name() string {
	return "working_directory"
}

// Segments returns the display form of the working directory, or nothing
// when it cannot be determined.
func (w *WorkingDirectory) Segments(_ context.Context) []render.Segment {
	pwd, err := w.getwd()
	if err != nil {
		w.logger.Debug("error reading working directory", zap.Error(err))
		return nil
	}

	return []render.Segment{{
		Text:  abbreviateHome(pwd, w.home()),
		Color: styles.Color(styles.RoleDirectory),
	}}
}

// abbreviateHome replaces a leading home directory with "~". The match is
// on whole path components, so /home/bob2 is not abbreviated for /home/bob.
func abbreviateHome(pwd, home string) string {
	if home == "" {
		return pwd
	}

	rel, err := filepath.Rel(filepath.Clean(home), filepath.Clean(pwd))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return pwd
	}
	if rel == "." {
		return "~"
	}
	return "~" + string(filepath.Separator) + rel
}
