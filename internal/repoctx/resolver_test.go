package repoctx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/atinylittleshell/gprompt/internal/toolchain"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubRunner struct {
	output string
}

func (s stubRunner) Output(_ context.Context, _ string, _ ...string) (string, error) {
	return s.output, nil
}

func openFake(repo *fakeRepo) Opener {
	return func() (Repository, error) { return repo, nil }
}

func renderPlain(segments []render.Segment) string {
	return render.NewRenderer(&bytes.Buffer{}, termenv.Ascii).Line(segments)
}

func TestResolverScenarios(t *testing.T) {
	merging := detachedAt(testHash)
	merging.state = StateMerge
	merging.changes = changesOf(DeltaModified, DeltaConflicted)

	rebasing := onBranch("topic")
	rebasing.state = StateRebaseInteractive
	rebasing.changes = changesOf(DeltaConflicted)

	clean := onBranch("main")
	clean.changes = changesOf(DeltaModified, DeltaUntracked)

	tests := []struct {
		name     string
		repo     *fakeRepo
		expected string
		colors   []string
	}{
		{
			name:     "branch with local edits",
			repo:     clean,
			expected: "main [M?]",
			colors:   []string{styles.VIOLET, styles.BLUE},
		},
		{
			name:     "detached merge with conflicts",
			repo:     merging,
			expected: "1a2b3c4d5 [!M] merge",
			colors:   []string{styles.PURPLE, styles.RED, styles.PURPLE},
		},
		{
			name:     "interactive rebase stopped on a conflict",
			repo:     rebasing,
			expected: "topic [!] rebase",
			colors:   []string{styles.VIOLET, styles.RED, styles.PURPLE},
		},
		{
			name:     "clean tree shows only the branch",
			repo:     onBranch("main"),
			expected: "main",
			colors:   []string{styles.VIOLET},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(openFake(tt.repo), nil, zaptest.NewLogger(t))

			segments := r.Segments(context.Background())
			assert.Equal(t, tt.expected, renderPlain(segments))

			colors := make([]string, len(segments))
			for i, s := range segments {
				colors[i] = s.Color
			}
			assert.Equal(t, tt.colors, colors)
			assert.True(t, tt.repo.closed)
		})
	}
}

func TestResolverToolchainHintsComeFirst(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, toolchain.RustMarker), []byte("[package]\n"), 0644))

	repo := onBranch("main")
	repo.workDir = root
	repo.changes = changesOf(DeltaAdded)

	detector := toolchain.NewDetector(toolchain.Options{
		Runner: stubRunner{output: "rustc 1.75.0 (82e1608df 2023-12-21)\n"},
		Logger: zaptest.NewLogger(t),
	})
	r := NewResolver(openFake(repo), detector, zaptest.NewLogger(t))

	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	require.Len(t, c.Toolchain, 1)
	assert.Equal(t, "1.75.0", c.Toolchain[0].Version)
	assert.Equal(t, "🦀 1.75.0 main [A]", renderPlain(c.Segments()))
}

func TestResolverBareRepositorySkipsToolchain(t *testing.T) {
	repo := onBranch("main")
	detector := toolchain.NewDetector(toolchain.Options{
		Runner: stubRunner{output: "rustc 1.75.0\n"},
	})
	r := NewResolver(openFake(repo), detector, zaptest.NewLogger(t))

	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	assert.Empty(t, c.Toolchain)
}

func TestResolverOutsideRepository(t *testing.T) {
	r := NewResolver(func() (Repository, error) {
		return nil, ErrNoRepository
	}, nil, zaptest.NewLogger(t))

	_, ok := r.Resolve(context.Background())
	assert.False(t, ok)
	assert.Nil(t, r.Segments(context.Background()))
}

func TestResolverDegradesPerFacet(t *testing.T) {
	repo := &fakeRepo{
		headErr:    errors.New("corrupt HEAD"),
		changesErr: errors.New("index locked"),
		state:      StateBisect,
	}
	r := NewResolver(openFake(repo), nil, zaptest.NewLogger(t))

	assert.Equal(t, UnknownBranch+" bisect", renderPlain(r.Segments(context.Background())))
}

func TestResolverAgainstRealRepository(t *testing.T) {
	dir, repo := initRepo(t)
	commitFiles(t, repo, dir, "a.txt")
	writeFile(t, dir, "a.txt", "edited\n")

	assert.Equal(t, "main [M]", renderPlain(resolverFor(t, dir).Segments(context.Background())))
}

func resolverFor(t *testing.T, dir string) *Resolver {
	return NewResolver(func() (Repository, error) {
		h, err := Open(dir)
		if err != nil {
			return nil, err
		}
		return h, nil
	}, nil, zaptest.NewLogger(t))
}

func TestResolverRepositoryScenarios(t *testing.T) {
	t.Run("empty repository", func(t *testing.T) {
		dir, _ := initRepo(t)

		c, ok := resolverFor(t, dir).Resolve(context.Background())
		require.True(t, ok)
		assert.Equal(t, Branch{Kind: BranchDescribed, Text: UnknownBranch}, c.Branch)
		assert.True(t, c.Status.Empty())
		assert.Equal(t, StateClean, c.State)
	})

	t.Run("one commit with a modified and an untracked file", func(t *testing.T) {
		dir, repo := initRepo(t)
		commitFiles(t, repo, dir, "tracked.txt")
		writeFile(t, dir, "tracked.txt", "edited\n")
		writeFile(t, dir, "new.txt", "new\n")

		c, ok := resolverFor(t, dir).Resolve(context.Background())
		require.True(t, ok)
		assert.Equal(t, Branch{Kind: BranchNamed, Text: "main"}, c.Branch)
		assert.Equal(t, Status(0).With(Modified).With(Untracked), c.Status)
		assert.Equal(t, styles.BLUE, c.Status.Segment().Color)
		assert.Equal(t, StateClean, c.State)
	})

	t.Run("detached head on a clean tree", func(t *testing.T) {
		dir, repo := initRepo(t)
		hash := commitFiles(t, repo, dir, "a.txt")
		require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))

		c, ok := resolverFor(t, dir).Resolve(context.Background())
		require.True(t, ok)
		assert.Equal(t, Branch{Kind: BranchDetached, Text: hash.String()[:9]}, c.Branch)
		assert.True(t, c.Status.Empty())
		assert.Equal(t, StateClean, c.State)
		assert.Len(t, c.Segments(), 1)
	})

	t.Run("rebase stopped on a conflicted index", func(t *testing.T) {
		isolateHome(t)
		dir, repo := initRepo(t)
		commitFiles(t, repo, dir, "conflict.txt")
		markConflicted(t, repo, "conflict.txt")
		writeFile(t, dir, "conflict.txt", "<<<<<<< ours\nours\n=======\ntheirs\n>>>>>>> theirs\n")
		writeFile(t, dir, ".git/rebase-merge/head-name", "refs/heads/main\n")

		c, ok := resolverFor(t, dir).Resolve(context.Background())
		require.True(t, ok)
		assert.True(t, c.Status.Has(Conflicted))
		assert.True(t, strings.HasPrefix(c.Status.String(), "[!"), "status %q", c.Status.String())
		assert.Equal(t, styles.RED, c.Status.Segment().Color)
		assert.Equal(t, StateRebaseMerge, c.State)
		label, ok := c.State.Label()
		assert.True(t, ok)
		assert.Equal(t, "rebase", label)
	})

	t.Run("rebase stopped with markers on disk", func(t *testing.T) {
		dir, repo := initRepo(t)
		commitFiles(t, repo, dir, "a.txt")
		writeFile(t, dir, ".git/rebase-merge/interactive", "")

		c, ok := resolverFor(t, dir).Resolve(context.Background())
		require.True(t, ok)
		label, ok := c.State.Label()
		assert.True(t, ok)
		assert.Equal(t, "rebase", label)
	})
}
