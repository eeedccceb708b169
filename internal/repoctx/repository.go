package repoctx

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrNoRepository is returned when no repository can be opened.
var ErrNoRepository = errors.New("no git repository")

// Repository is the version-control surface the resolver consumes.
type Repository interface {
	// HeadRef reads HEAD without following symbolic references.
	HeadRef() (*plumbing.Reference, error)
	// ResolveRef follows name until it reaches a reference holding a hash.
	ResolveRef(name plumbing.ReferenceName) (*plumbing.Reference, error)
	// Describe names the HEAD commit by a reference pointing exactly at it.
	Describe() (string, error)
	// Changes lists the file-level change records of the working tree.
	Changes() ([]Change, error)
	// State reports the multi-step operation in progress, if any.
	State() State
	// WorkDir returns the working tree root; false for bare repositories.
	WorkDir() (string, bool)
}

// Handle is a Repository backed by go-git.
type Handle struct {
	repo   *git.Repository
	gitDir billy.Filesystem
}

var _ Repository = (*Handle)(nil)

// Open discovers the repository containing path, searching upwards.
func Open(path string) (*Handle, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	return newHandle(repo), nil
}

// OpenFromEnv opens the repository the way git itself locates it: GIT_DIR
// (with an optional GIT_WORK_TREE) when set, otherwise by discovery from the
// current working directory.
func OpenFromEnv(getenv func(string) string) (*Handle, error) {
	if gitDir := getenv("GIT_DIR"); gitDir != "" {
		return openGitDir(gitDir, getenv("GIT_WORK_TREE"))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	return Open(cwd)
}

func openGitDir(gitDir, workTree string) (*Handle, error) {
	storage := filesystem.NewStorage(osfs.New(gitDir), cache.NewObjectLRUDefault())

	var worktree billy.Filesystem
	if workTree != "" {
		worktree = osfs.New(workTree)
	}

	repo, err := git.Open(storage, worktree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	return newHandle(repo), nil
}

func newHandle(repo *git.Repository) *Handle {
	h := &Handle{repo: repo}
	if storage, ok := repo.Storer.(*filesystem.Storage); ok {
		h.gitDir = storage.Filesystem()
	}
	return h
}

// Close releases files held open by the object storage.
func (h *Handle) Close() error {
	if closer, ok := h.repo.Storer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// HeadRef reads HEAD without following symbolic references.
func (h *Handle) HeadRef() (*plumbing.Reference, error) {
	return h.repo.Reference(plumbing.HEAD, false)
}

// ResolveRef follows name to the reference holding a commit hash.
func (h *Handle) ResolveRef(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	return h.repo.Reference(name, true)
}

// Describe names the HEAD commit by the best reference pointing exactly at it.
func (h *Handle) Describe() (string, error) {
	head, err := h.repo.Reference(plumbing.HEAD, true)
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	refs, err := h.repo.References()
	if err != nil {
		return "", fmt.Errorf("failed to list references: %w", err)
	}
	defer refs.Close()

	var candidates []describeCandidate
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference || ref.Name() == plumbing.HEAD {
			return nil
		}

		c := describeCandidate{name: ref.Name(), priority: priorityRef}
		target := ref.Hash()
		if ref.Name().IsTag() {
			c.priority = priorityLightweightTag
			if tag, err := h.repo.TagObject(target); err == nil {
				c.priority = priorityAnnotatedTag
				target = tag.Target
			}
		}

		if target == head.Hash() {
			candidates = append(candidates, c)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk references: %w", err)
	}

	return describeExact(candidates)
}

// Changes lists HEAD-to-index and index-to-workdir records plus unmerged paths.
func (h *Handle) Changes() ([]Change, error) {
	wt, err := h.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	wt.Excludes = append(wt.Excludes, h.userExcludes()...)

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	changes := make([]Change, 0, 2*len(status))
	for path, file := range status {
		changes = append(changes,
			Change{Path: path, Delta: deltaOf(file.Staging)},
			Change{Path: path, Delta: deltaOf(file.Worktree)},
		)
	}

	// Unmerged paths live in the index as stage 2/3 entries.
	if idx, err := h.repo.Storer.Index(); err == nil {
		for _, entry := range idx.Entries {
			if entry.Stage == index.OurMode || entry.Stage == index.TheirMode {
				changes = append(changes, Change{Path: entry.Name, Delta: DeltaConflicted})
			}
		}
	}

	return changes, nil
}

// State inspects the git directory for an operation in progress.
func (h *Handle) State() State {
	return DetectState(h.gitDir)
}

// WorkDir returns the worktree root; false for bare repositories.
func (h *Handle) WorkDir() (string, bool) {
	wt, err := h.repo.Worktree()
	if err != nil {
		return "", false
	}
	return wt.Filesystem.Root(), true
}

// deltaOf maps a go-git status code to a delta kind.
func deltaOf(code git.StatusCode) Delta {
	switch code {
	case git.Added:
		return DeltaAdded
	case git.Deleted:
		return DeltaDeleted
	case git.Modified:
		return DeltaModified
	case git.Renamed:
		return DeltaRenamed
	case git.Copied:
		return DeltaCopied
	case git.Untracked:
		return DeltaUntracked
	case git.UpdatedButUnmerged:
		return DeltaConflicted
	default:
		return DeltaUnmodified
	}
}
