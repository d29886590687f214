package wadtype

import (
	"path/filepath"
	"strings"
)

// Kind identifies the container format of an archive.
type Kind uint8

const (
	// KindWAD is a primary multi-record container (IWAD or PWAD).
	KindWAD Kind = iota
	// KindGWA is a companion derived-index container.
	KindGWA
	// KindHWA is a companion derived-conversion container.
	KindHWA
	// KindLump is a bare file treated as one lump named after the file.
	KindLump
	// KindScript is a DDF or RTS script file treated as one lump.
	KindScript
	// KindDehacked is a legacy-patch-format file treated as one lump.
	KindDehacked
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWAD:
		return "wad"
	case KindGWA:
		return "gwa"
	case KindHWA:
		return "hwa"
	case KindLump:
		return "lump"
	case KindScript:
		return "script"
	case KindDehacked:
		return "dehacked"
	default:
		return "unknown"
	}
}

// MultiRecord reports whether the kind is parsed as a header plus directory.
func (k Kind) MultiRecord() bool {
	switch k {
	case KindWAD, KindGWA, KindHWA:
		return true
	default:
		return false
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k <= KindDehacked
}

// KindFromPath infers a kind from the file extension of path.
// Unknown extensions are treated as single lumps.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wad":
		return KindWAD
	case ".gwa":
		return KindGWA
	case ".hwa":
		return KindHWA
	case ".ddf", ".ldf", ".rts":
		return KindScript
	case ".deh", ".bex":
		return KindDehacked
	default:
		return KindLump
	}
}

// Artifact extensions used for derived companion containers.
const (
	IndexExtension      = "gwa"
	ConversionExtension = "hwa"
)
