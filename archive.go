package wad

import (
	"slices"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/wadtype"
)

// none marks an absent archive or lump reference.
const none = -1

// Archive is one container added to a Directory.
//
// Archives are immutable once added; accessors return copies.
type Archive struct {
	index  int
	path   string
	kind   Kind
	iwad   bool
	digest digest.Digest
	src    *format.Directory

	first int // first global lump ID
	count int

	runs   [wadtype.NumRunKinds][]LumpID
	slots  [wadtype.NumSlotKinds]LumpID
	ddf    [wadtype.NumSubsystems]LumpID
	levels []Level
	skins  []LumpID

	parent     int
	companion  int
	conversion int
	indexState DeriveState
	convState  DeriveState

	diagnostics []Diagnostic
}

// Index returns the archive's position in load order.
func (a *Archive) Index() int {
	return a.index
}

// Path returns the file the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Kind returns the container kind.
func (a *Archive) Kind() Kind {
	return a.kind
}

// IWAD reports whether the archive is a primary IWAD.
func (a *Archive) IWAD() bool {
	return a.iwad
}

// Digest returns the content digest that keys the archive's derived artifacts.
// Multi-record containers hash their directory; single lumps hash the file.
func (a *Archive) Digest() digest.Digest {
	return a.digest
}

// Lumps returns the half-open range of lump IDs owned by the archive.
func (a *Archive) Lumps() (first, end LumpID) {
	return LumpID(a.first), LumpID(a.first + a.count)
}

// Len returns the number of lumps in the archive.
func (a *Archive) Len() int {
	return a.count
}

// Run returns the archive's lumps in a typed run. Sprite runs are sorted by
// name; all other runs keep file order.
func (a *Archive) Run(kind RunKind) []LumpID {
	if int(kind) >= len(a.runs) {
		return nil
	}
	return slices.Clone(a.runs[kind])
}

// Slot returns the archive's lump filling a special slot.
func (a *Archive) Slot(kind SlotKind) (LumpID, bool) {
	if int(kind) >= len(a.slots) || a.slots[kind] == none {
		return none, false
	}
	return a.slots[kind], true
}

// DDF returns the archive's payload lump for a DDF subsystem.
func (a *Archive) DDF(sub Subsystem) (LumpID, bool) {
	if int(sub) >= len(a.ddf) || a.ddf[sub] == none {
		return none, false
	}
	return a.ddf[sub], true
}

// Levels returns the level markers found in the archive, in file order.
func (a *Archive) Levels() []Level {
	return slices.Clone(a.levels)
}

// Skins returns the skin marker lumps found in the archive.
func (a *Archive) Skins() []LumpID {
	return slices.Clone(a.skins)
}

// Parent returns the archive this one was derived from.
func (a *Archive) Parent() (int, bool) {
	return a.parent, a.parent != none
}

// Companion returns the derived-index archive attached to this one.
func (a *Archive) Companion() (int, bool) {
	return a.companion, a.companion != none
}

// Conversion returns the derived-conversion archive attached to this one.
func (a *Archive) Conversion() (int, bool) {
	return a.conversion, a.conversion != none
}

// IndexState reports how the derived-index companion was obtained.
func (a *Archive) IndexState() DeriveState {
	return a.indexState
}

// ConversionState reports how the derived-conversion companion was obtained.
func (a *Archive) ConversionState() DeriveState {
	return a.convState
}

// Diagnostics returns the non-fatal problems found while classifying the archive.
func (a *Archive) Diagnostics() []Diagnostic {
	return slices.Clone(a.diagnostics)
}

func (a *Archive) close() error {
	if a.src == nil {
		return nil
	}
	err := a.src.Close()
	a.src = nil
	return err
}
