package repoctx

import (
	"github.com/go-git/go-billy/v5"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
)

// State is the multi-step operation a repository is in the middle of.
type State int

const (
	StateClean State = iota
	StateMerge
	StateRevert
	StateRevertSequence
	StateCherryPick
	StateCherryPickSequence
	StateBisect
	StateRebase
	StateRebaseInteractive
	StateRebaseMerge
	StateApplyMailbox
	StateApplyMailboxOrRebase
)

// Label returns the short name shown in the prompt. Sub-variants of an
// operation share one label; the clean state has none.
func (s State) Label() (string, bool) {
	switch s {
	case StateMerge:
		return "merge", true
	case StateRevert, StateRevertSequence:
		return "revert", true
	case StateCherryPick, StateCherryPickSequence:
		return "cherry-pick", true
	case StateBisect:
		return "bisect", true
	case StateRebase, StateRebaseInteractive, StateRebaseMerge:
		return "rebase", true
	case StateApplyMailbox, StateApplyMailboxOrRebase:
		return "am", true
	default:
		return "", false
	}
}

// Segment renders the state label, or an empty segment when clean.
func (s State) Segment() render.Segment {
	label, ok := s.Label()
	if !ok {
		return render.Segment{}
	}
	return render.Segment{Text: label, Color: styles.Color(styles.RoleRepoState)}
}

// DetectState inspects the marker files git leaves in its directory while an
// operation is in progress. A nil filesystem is always clean.
func DetectState(gitDir billy.Filesystem) State {
	if gitDir == nil {
		return StateClean
	}

	switch {
	case isFile(gitDir, "rebase-merge/interactive"):
		return StateRebaseInteractive
	case isDir(gitDir, "rebase-merge"):
		return StateRebaseMerge
	case isFile(gitDir, "rebase-apply/rebasing"):
		return StateRebase
	case isFile(gitDir, "rebase-apply/applying"):
		return StateApplyMailbox
	case isDir(gitDir, "rebase-apply"):
		return StateApplyMailboxOrRebase
	case isFile(gitDir, "MERGE_HEAD"):
		return StateMerge
	case isFile(gitDir, "REVERT_HEAD"):
		if isFile(gitDir, "sequencer/todo") {
			return StateRevertSequence
		}
		return StateRevert
	case isFile(gitDir, "CHERRY_PICK_HEAD"):
		if isFile(gitDir, "sequencer/todo") {
			return StateCherryPickSequence
		}
		return StateCherryPick
	case isFile(gitDir, "BISECT_LOG"):
		return StateBisect
	}
	return StateClean
}

func isFile(fs billy.Filesystem, name string) bool {
	info, err := fs.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

func isDir(fs billy.Filesystem, name string) bool {
	info, err := fs.Stat(name)
	return err == nil && info.IsDir()
}
