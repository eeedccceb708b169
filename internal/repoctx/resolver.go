package repoctx

import (
	"context"
	"io"
	"os"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/toolchain"
	"go.uber.org/zap"
)

// Context is everything the prompt shows about a repository.
type Context struct {
	Toolchain []toolchain.Hint
	Branch    Branch
	Status    Status
	State     State
}

// Segments returns the non-empty facets in display order: toolchain hints,
// branch, status, then operation state.
func (c *Context) Segments() []render.Segment {
	segments := make([]render.Segment, 0, len(c.Toolchain)+3)
	for _, hint := range c.Toolchain {
		segments = append(segments, hint.Segment())
	}

	segments = append(segments, c.Branch.Segment())
	if !c.Status.Empty() {
		segments = append(segments, c.Status.Segment())
	}
	if _, ok := c.State.Label(); ok {
		segments = append(segments, c.State.Segment())
	}
	return segments
}

// Opener acquires the repository for the current invocation.
type Opener func() (Repository, error)

// OpenEnvironment opens the repository located by GIT_DIR or discovery from
// the working directory.
func OpenEnvironment() (Repository, error) {
	h, err := OpenFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Resolver computes the repository context once per prompt.
type Resolver struct {
	open     Opener
	detector *toolchain.Detector
	logger   *zap.Logger
}

// NewResolver creates a Resolver. A nil open uses OpenEnvironment and a nil
// detector disables toolchain hints.
func NewResolver(open Opener, detector *toolchain.Detector, logger *zap.Logger) *Resolver {
	if open == nil {
		open = OpenEnvironment
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{open: open, detector: detector, logger: logger}
}

// Name returns the facet name.
func (r *Resolver) Name() string {
	return "repository"
}

// Resolve gathers the repository context. It reports false when no
// repository could be acquired, in which case nothing should be shown.
func (r *Resolver) Resolve(ctx context.Context) (*Context, bool) {
	repo, err := r.open()
	if err != nil {
		r.logger.Debug("no repository", zap.Error(err))
		return nil, false
	}
	if closer, ok := repo.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				r.logger.Debug("error closing repository", zap.Error(err))
			}
		}()
	}

	c := &Context{
		Branch: ResolveBranch(repo),
		State:  repo.State(),
	}

	if status, err := ScanStatus(repo); err == nil {
		c.Status = status
	} else {
		r.logger.Debug("error scanning status", zap.Error(err))
	}

	if root, ok := repo.WorkDir(); ok && r.detector != nil {
		c.Toolchain = r.detector.Detect(ctx, root)
	}

	return c, true
}

// Segments renders the repository facets, or nothing outside a repository.
func (r *Resolver) Segments(ctx context.Context) []render.Segment {
	c, ok := r.Resolve(ctx)
	if !ok {
		return nil
	}
	return c.Segments()
}
