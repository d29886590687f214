package wad

import (
	"github.com/meigma/wad/internal/classify"
	"github.com/meigma/wad/internal/wadtype"
)

// Re-export types from internal/wadtype for the public API.
type (
	// Name is a canonical, upper-cased lump name of at most eight bytes.
	Name = wadtype.Name

	// Kind identifies the container format of an archive.
	Kind = wadtype.Kind

	// Role is the classification tag of a lump.
	Role = wadtype.Role

	// RunKind identifies a marker-delimited run type.
	RunKind = wadtype.RunKind

	// SlotKind identifies a special named lump recorded per archive.
	SlotKind = wadtype.SlotKind

	// Subsystem identifies a DDF/RTS definition family.
	Subsystem = wadtype.Subsystem

	// DiagnosticKind identifies a non-fatal classification problem.
	DiagnosticKind = classify.DiagnosticKind
)

// CanonicalName folds s to the canonical lump name form.
var CanonicalName = wadtype.CanonicalName

// KindFromPath infers a container kind from a file extension.
var KindFromPath = wadtype.KindFromPath

// SubsystemForName returns the DDF subsystem whose payload lump is named n.
var SubsystemForName = wadtype.SubsystemForName

// NameWidth is the fixed width of a lump name.
const NameWidth = wadtype.NameWidth

// Extensions of derived companion files.
const (
	IndexExtension      = wadtype.IndexExtension
	ConversionExtension = wadtype.ConversionExtension
)

// GLPrefix prefixes the marker of a level's GL node lumps.
const GLPrefix = classify.GLPrefix

// Container kinds.
const (
	KindWAD      = wadtype.KindWAD
	KindGWA      = wadtype.KindGWA
	KindHWA      = wadtype.KindHWA
	KindLump     = wadtype.KindLump
	KindScript   = wadtype.KindScript
	KindDehacked = wadtype.KindDehacked
)

// Lump roles.
const (
	RoleOrdinary = wadtype.RoleOrdinary
	RoleMarker   = wadtype.RoleMarker
	RoleSpecial  = wadtype.RoleSpecial
	RoleDDF      = wadtype.RoleDDF
	RoleLevel    = wadtype.RoleLevel
	RoleTexture  = wadtype.RoleTexture
	RoleColormap = wadtype.RoleColormap
	RoleFlat     = wadtype.RoleFlat
	RoleSprite   = wadtype.RoleSprite
	RolePatch    = wadtype.RolePatch
)

// Run kinds.
const (
	RunSprite   = wadtype.RunSprite
	RunFlat     = wadtype.RunFlat
	RunPatch    = wadtype.RunPatch
	RunColormap = wadtype.RunColormap
	RunTexture  = wadtype.RunTexture
)

// Special slots.
const (
	SlotPalette    = wadtype.SlotPalette
	SlotPatchNames = wadtype.SlotPatchNames
	SlotTexture1   = wadtype.SlotTexture1
	SlotTexture2   = wadtype.SlotTexture2
	SlotDehacked   = wadtype.SlotDehacked
	SlotAnimated   = wadtype.SlotAnimated
	SlotSwitches   = wadtype.SlotSwitches
)

// DDF subsystems.
const (
	SubsystemAttacks   = wadtype.SubsystemAttacks
	SubsystemColmaps   = wadtype.SubsystemColmaps
	SubsystemFonts     = wadtype.SubsystemFonts
	SubsystemGames     = wadtype.SubsystemGames
	SubsystemImages    = wadtype.SubsystemImages
	SubsystemLanguages = wadtype.SubsystemLanguages
	SubsystemLevels    = wadtype.SubsystemLevels
	SubsystemLines     = wadtype.SubsystemLines
	SubsystemPlaylists = wadtype.SubsystemPlaylists
	SubsystemSectors   = wadtype.SubsystemSectors
	SubsystemSounds    = wadtype.SubsystemSounds
	SubsystemStyles    = wadtype.SubsystemStyles
	SubsystemSwitches  = wadtype.SubsystemSwitches
	SubsystemAnims     = wadtype.SubsystemAnims
	SubsystemThings    = wadtype.SubsystemThings
	SubsystemWeapons   = wadtype.SubsystemWeapons
	SubsystemRTS       = wadtype.SubsystemRTS
)

// Diagnostic kinds.
const (
	MarkerImbalance        = classify.MarkerImbalance
	UnmatchedEnd           = classify.UnmatchedEnd
	DuplicateCompositeName = classify.DuplicateCompositeName
	OversizeCompositeName  = classify.OversizeCompositeName
)

// LumpID identifies a lump in a Directory. IDs are dense and stable: the
// lumps of archive i occupy one contiguous range, after those of archive i-1.
type LumpID int

// Lump describes one lump in the directory.
type Lump struct {
	Name     Name
	Offset   int64
	Size     int64
	Archive  int
	Local    int
	Priority int
	Role     Role
}

// Level is a detected level marker.
type Level struct {
	Name    Name
	Archive int
	Lump    LumpID
	GL      bool
}

// Diagnostic describes a non-fatal problem found while adding an archive.
type Diagnostic struct {
	Kind    DiagnosticKind
	Archive string
	Lump    Name
	Message string
}

// DeriveState records how a derived companion was obtained for an archive.
type DeriveState uint8

const (
	// DeriveNotNeeded means the archive needs no companion of this kind.
	DeriveNotNeeded DeriveState = iota
	// DeriveCacheHit means a valid cached companion was attached.
	DeriveCacheHit
	// DeriveBuilt means the companion was built and attached.
	DeriveBuilt
	// DeriveSkipped means a companion was needed but no collaborator was configured.
	DeriveSkipped
)

// String returns the human-readable name of the state.
func (s DeriveState) String() string {
	switch s {
	case DeriveNotNeeded:
		return "not-needed"
	case DeriveCacheHit:
		return "cache-hit"
	case DeriveBuilt:
		return "built"
	case DeriveSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
