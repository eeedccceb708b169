package repoctx

import (
	"strings"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
)

// Delta is the kind of a single file-level change record.
type Delta int

const (
	DeltaUnmodified Delta = iota
	DeltaAdded
	DeltaDeleted
	DeltaModified
	DeltaRenamed
	DeltaCopied
	DeltaTypeChange
	DeltaUntracked
	DeltaIgnored
	DeltaUnreadable
	DeltaConflicted
)

// Change is one file-level change record, from either the HEAD-to-index or the
// index-to-workdir stream.
type Change struct {
	Path  string
	Delta Delta
}

// Category is a coarse classification of changes shown in the prompt.
type Category uint8

const (
	Added Category = 1 << iota
	Deleted
	Modified
	Untracked
	Conflicted
)

// Categories lists every category in render order.
var Categories = []Category{Conflicted, Added, Deleted, Modified, Untracked}

var categorySymbols = map[Category]string{
	Conflicted: "!",
	Added:      "A",
	Deleted:    "D",
	Modified:   "M",
	Untracked:  "?",
}

// Symbol is the single character shown for the category.
func (c Category) Symbol() string {
	return categorySymbols[c]
}

// CategoryOf classifies a delta. Deltas without a category (unmodified,
// copied, ignored, unreadable) report false.
func CategoryOf(d Delta) (Category, bool) {
	switch d {
	case DeltaAdded:
		return Added, true
	case DeltaDeleted:
		return Deleted, true
	case DeltaModified, DeltaRenamed, DeltaTypeChange:
		return Modified, true
	case DeltaUntracked:
		return Untracked, true
	case DeltaConflicted:
		return Conflicted, true
	default:
		return 0, false
	}
}

// Status is the set of categories present in a working tree.
type Status uint8

// Has reports whether c is in the set.
func (s Status) Has(c Category) bool {
	return s&Status(c) != 0
}

// With returns the set with c added.
func (s Status) With(c Category) Status {
	return s | Status(c)
}

// Empty reports whether no category is present.
func (s Status) Empty() bool {
	return s == 0
}

// Alert reports whether the status needs attention, which today means an
// unresolved conflict.
func (s Status) Alert() bool {
	return s.Has(Conflicted)
}

// String renders the status as bracketed symbols in render order, or "" for
// an empty status.
func (s Status) String() string {
	if s.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("[")
	for _, c := range Categories {
		if s.Has(c) {
			b.WriteString(c.Symbol())
		}
	}
	b.WriteString("]")
	return b.String()
}

// Segment renders the status in the alert or neutral color.
func (s Status) Segment() render.Segment {
	role := styles.RoleStatusNeutral
	if s.Alert() {
		role = styles.RoleStatusAlert
	}
	return render.Segment{Text: s.String(), Color: styles.Color(role)}
}

// Fold aggregates change records into a status.
func Fold(changes []Change) Status {
	var s Status
	for _, change := range changes {
		if c, ok := CategoryOf(change.Delta); ok {
			s = s.With(c)
		}
	}
	return s
}

// ScanStatus enumerates the working tree of repo and folds the result. A
// failed enumeration yields an empty status along with the error.
func ScanStatus(repo Repository) (Status, error) {
	changes, err := repo.Changes()
	if err != nil {
		return 0, err
	}
	return Fold(changes), nil
}
