package wadtype

import "strings"

// Subsystem identifies a DDF/RTS definition family carried as a lump.
type Subsystem uint8

const (
	SubsystemAttacks Subsystem = iota
	SubsystemColmaps
	SubsystemFonts
	SubsystemGames
	SubsystemImages
	SubsystemLanguages
	SubsystemLevels
	SubsystemLines
	SubsystemPlaylists
	SubsystemSectors
	SubsystemSounds
	SubsystemStyles
	SubsystemSwitches
	SubsystemAnims
	SubsystemThings
	SubsystemWeapons
	SubsystemRTS

	// NumSubsystems is the number of DDF subsystems.
	NumSubsystems = 17
)

type subsystemInfo struct {
	lump Name
	stem string // file stem used by standalone script files
}

var subsystems = [...]subsystemInfo{
	SubsystemAttacks:   {"DDFATK", "attacks"},
	SubsystemColmaps:   {"DDFCOLM", "colmaps"},
	SubsystemFonts:     {"DDFFONT", "fonts"},
	SubsystemGames:     {"DDFGAME", "games"},
	SubsystemImages:    {"DDFIMAGE", "images"},
	SubsystemLanguages: {"DDFLANG", "language"},
	SubsystemLevels:    {"DDFLEVL", "levels"},
	SubsystemLines:     {"DDFLINE", "lines"},
	SubsystemPlaylists: {"DDFPLAY", "playlist"},
	SubsystemSectors:   {"DDFSECT", "sectors"},
	SubsystemSounds:    {"DDFSFX", "sounds"},
	SubsystemStyles:    {"DDFSTYLE", "styles"},
	SubsystemSwitches:  {"DDFSWTH", "switch"},
	SubsystemAnims:     {"DDFANIM", "anims"},
	SubsystemThings:    {"DDFTHING", "things"},
	SubsystemWeapons:   {"DDFWEAP", "weapons"},
	SubsystemRTS:       {"RSCRIPT", "rscript"},
}

// LumpName returns the lump name carrying the subsystem's definitions.
func (s Subsystem) LumpName() Name {
	if int(s) < len(subsystems) {
		return subsystems[s].lump
	}
	return ""
}

// String returns the subsystem's lump name.
func (s Subsystem) String() string {
	return string(s.LumpName())
}

// SubsystemForName returns the subsystem whose payload lump is named n.
func SubsystemForName(n Name) (Subsystem, bool) {
	for i, info := range subsystems {
		if info.lump == n {
			return Subsystem(i), true
		}
	}
	return 0, false
}

// ScriptLumpName maps a standalone script file's stem (or extension) to the
// lump name it is loaded as. RTS files always load as RSCRIPT; DDF files are
// matched by stem, case-insensitively. The second result is false when no
// subsystem matches.
func ScriptLumpName(stem, ext string) (Name, bool) {
	if strings.EqualFold(ext, ".rts") {
		return SubsystemRTS.LumpName(), true
	}
	for _, info := range subsystems {
		if strings.EqualFold(stem, info.stem) {
			return info.lump, true
		}
	}
	return "", false
}
