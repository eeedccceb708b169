package repoctx

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
)

const (
	// UnknownBranch is shown when HEAD cannot be named at all.
	UnknownBranch = "(unknown)"
	// ShortHashLength is the number of hex digits kept for a detached HEAD.
	ShortHashLength = 9
)

// ErrNoDescription is returned when no reference points at the HEAD commit.
var ErrNoDescription = errors.New("no reference describes HEAD")

// BranchKind tells how a branch descriptor was derived.
type BranchKind int

const (
	// BranchNamed is the short name of the branch HEAD is on.
	BranchNamed BranchKind = iota
	// BranchDetached is an abbreviated commit id.
	BranchDetached
	// BranchDescribed is a reference name from describe, or UnknownBranch.
	BranchDescribed
)

// Branch identifies where HEAD is.
type Branch struct {
	Kind BranchKind
	Text string
}

// Segment renders the branch; detached commits use their own color.
func (b Branch) Segment() render.Segment {
	role := styles.RoleBranch
	if b.Kind == BranchDetached {
		role = styles.RoleDetached
	}
	return render.Segment{Text: b.Text, Color: styles.Color(role)}
}

// ResolveBranch names HEAD, trying in order: the branch a symbolic HEAD
// resolves to, the abbreviated commit of a detached HEAD, and an exact
// describe over all references. It never fails; the last resort is
// UnknownBranch.
func ResolveBranch(repo Repository) Branch {
	if head, err := repo.HeadRef(); err == nil {
		if branch, ok := branchFromHead(repo, head); ok {
			return branch
		}
	}

	if name, err := repo.Describe(); err == nil && name != "" {
		return Branch{Kind: BranchDescribed, Text: name}
	}
	return Branch{Kind: BranchDescribed, Text: UnknownBranch}
}

func branchFromHead(repo Repository, head *plumbing.Reference) (Branch, bool) {
	if head.Type() == plumbing.SymbolicReference {
		resolved, err := repo.ResolveRef(head.Target())
		if err != nil {
			// Unborn branch.
			return Branch{}, false
		}
		head = resolved
	}

	if head.Name().IsBranch() {
		return Branch{Kind: BranchNamed, Text: head.Name().Short()}, true
	}

	hash := head.Hash()
	if hash.IsZero() {
		return Branch{}, false
	}
	return Branch{Kind: BranchDetached, Text: hash.String()[:ShortHashLength]}, true
}

type describePriority int

const (
	priorityRef describePriority = iota
	priorityLightweightTag
	priorityAnnotatedTag
)

type describeCandidate struct {
	name     plumbing.ReferenceName
	priority describePriority
}

// describeExact picks the best reference among those pointing exactly at the
// HEAD commit: annotated tags, then lightweight tags, then anything else, with
// ties broken by name. The result drops the leading "refs/".
func describeExact(candidates []describeCandidate) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoDescription
	}

	sorted := append([]describeCandidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].priority != sorted[j].priority {
			return sorted[i].priority > sorted[j].priority
		}
		return sorted[i].name < sorted[j].name
	})

	return strings.TrimPrefix(sorted[0].name.String(), "refs/"), nil
}
