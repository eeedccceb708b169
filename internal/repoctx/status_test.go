package repoctx

import (
	"errors"
	"strings"
	"testing"

	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allDeltas = []Delta{
	DeltaUnmodified,
	DeltaAdded,
	DeltaDeleted,
	DeltaModified,
	DeltaRenamed,
	DeltaCopied,
	DeltaTypeChange,
	DeltaUntracked,
	DeltaIgnored,
	DeltaUnreadable,
	DeltaConflicted,
}

func changesOf(deltas ...Delta) []Change {
	changes := make([]Change, len(deltas))
	for i, d := range deltas {
		changes[i] = Change{Path: "file", Delta: d}
	}
	return changes
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		delta    Delta
		expected Category
		ok       bool
	}{
		{DeltaAdded, Added, true},
		{DeltaDeleted, Deleted, true},
		{DeltaModified, Modified, true},
		{DeltaRenamed, Modified, true},
		{DeltaTypeChange, Modified, true},
		{DeltaUntracked, Untracked, true},
		{DeltaConflicted, Conflicted, true},
		{DeltaUnmodified, 0, false},
		{DeltaCopied, 0, false},
		{DeltaIgnored, 0, false},
		{DeltaUnreadable, 0, false},
	}

	for _, tt := range tests {
		c, ok := CategoryOf(tt.delta)
		assert.Equal(t, tt.ok, ok, "delta %d", tt.delta)
		assert.Equal(t, tt.expected, c, "delta %d", tt.delta)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []Delta
		expected string
		alert    bool
	}{
		{"clean", nil, "", false},
		{"only no-op records", []Delta{DeltaIgnored, DeltaUnmodified, DeltaUnreadable}, "", false},
		{"modified and untracked", []Delta{DeltaModified, DeltaUntracked}, "[M?]", false},
		{"renamed counts as modified", []Delta{DeltaRenamed}, "[M]", false},
		{"copied contributes nothing", []Delta{DeltaCopied}, "", false},
		{"conflict first", []Delta{DeltaModified, DeltaConflicted}, "[!M]", true},
		{"every category", []Delta{DeltaUntracked, DeltaModified, DeltaDeleted, DeltaAdded, DeltaConflicted}, "[!ADM?]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Fold(changesOf(tt.deltas...))
			assert.Equal(t, tt.expected, s.String())
			assert.Equal(t, tt.alert, s.Alert())
			assert.Equal(t, tt.expected == "", s.Empty())
		})
	}
}

func TestStatusSegment(t *testing.T) {
	neutral := Fold(changesOf(DeltaModified)).Segment()
	assert.Equal(t, "[M]", neutral.Text)
	assert.Equal(t, styles.BLUE, neutral.Color)

	alert := Fold(changesOf(DeltaConflicted)).Segment()
	assert.Equal(t, "[!]", alert.Text)
	assert.Equal(t, styles.RED, alert.Color)
}

func TestScanStatus(t *testing.T) {
	repo := &fakeRepo{changes: changesOf(DeltaAdded, DeltaUntracked)}
	s, err := ScanStatus(repo)
	require.NoError(t, err)
	assert.Equal(t, "[A?]", s.String())

	failing := &fakeRepo{changesErr: errors.New("index locked")}
	s, err = ScanStatus(failing)
	assert.Error(t, err)
	assert.True(t, s.Empty())
}

func changeGen() *rapid.Generator[Change] {
	return rapid.Custom(func(t *rapid.T) Change {
		return Change{
			Path:  rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "path"),
			Delta: rapid.SampledFrom(allDeltas).Draw(t, "delta"),
		}
	})
}

func TestFoldOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		changes := rapid.SliceOf(changeGen()).Draw(t, "changes")
		shuffled := rapid.Permutation(changes).Draw(t, "shuffled")
		if Fold(changes) != Fold(shuffled) {
			t.Fatalf("fold differs after reordering: %v vs %v", Fold(changes), Fold(shuffled))
		}
	})
}

func TestFoldIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		changes := rapid.SliceOf(changeGen()).Draw(t, "changes")
		doubled := append(append([]Change(nil), changes...), changes...)
		if Fold(changes) != Fold(doubled) {
			t.Fatalf("duplicated records changed the status")
		}
	})
}

func TestStatusStringFollowsRenderOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		changes := rapid.SliceOf(changeGen()).Draw(t, "changes")
		s := Fold(changes)
		if s.Empty() {
			if s.String() != "" {
				t.Fatalf("empty status rendered %q", s.String())
			}
			return
		}

		var want strings.Builder
		want.WriteString("[")
		for _, c := range Categories {
			if s.Has(c) {
				want.WriteString(c.Symbol())
			}
		}
		want.WriteString("]")
		if s.String() != want.String() {
			t.Fatalf("got %q, want %q", s.String(), want.String())
		}
		if s.Alert() != strings.Contains(s.String(), "!") {
			t.Fatalf("alert does not match conflict symbol in %q", s.String())
		}
	})
}
