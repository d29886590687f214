package classify

import (
	"strings"

	"github.com/meigma/wad/internal/wadtype"
)

type marker struct {
	run       wadtype.RunKind
	canonical wadtype.Name
	noRun     bool // recognized pair that opens no run state
}

var startMarkers = map[wadtype.Name]marker{
	"S_START":  {run: wadtype.RunSprite, canonical: "S_START"},
	"SS_START": {run: wadtype.RunSprite, canonical: "S_START"},
	"F_START":  {run: wadtype.RunFlat, canonical: "F_START"},
	"FF_START": {run: wadtype.RunFlat, canonical: "F_START"},
	"P_START":  {run: wadtype.RunPatch, canonical: "P_START"},
	"PP_START": {run: wadtype.RunPatch, canonical: "P_START"},
	"C_START":  {run: wadtype.RunColormap, canonical: "C_START"},
	"TX_START": {run: wadtype.RunTexture, canonical: "TX_START"},
	"HI_START": {canonical: "HI_START", noRun: true},
}

var endMarkers = map[wadtype.Name]marker{
	"S_END":  {run: wadtype.RunSprite, canonical: "S_END"},
	"SS_END": {run: wadtype.RunSprite, canonical: "S_END"},
	"F_END":  {run: wadtype.RunFlat, canonical: "F_END"},
	"FF_END": {run: wadtype.RunFlat, canonical: "F_END"},
	"P_END":  {run: wadtype.RunPatch, canonical: "P_END"},
	"PP_END": {run: wadtype.RunPatch, canonical: "P_END"},
	"C_END":  {run: wadtype.RunColormap, canonical: "C_END"},
	"TX_END": {run: wadtype.RunTexture, canonical: "TX_END"},
	"HI_END": {canonical: "HI_END", noRun: true},
}

// skinPrefix marks player skin definitions.
const skinPrefix = "S_SKIN"

func isSkin(n wadtype.Name) bool {
	return strings.HasPrefix(string(n), skinPrefix)
}

// isDummyMarker matches the numbered sub-run markers such as F1_START or
// P3_END that some editors emit inside a real run.
func isDummyMarker(n wadtype.Name) bool {
	s := string(n)
	if len(s) < 4 || s[2] != '_' {
		return false
	}
	if s[0] != 'F' && s[0] != 'P' && s[0] != 'S' {
		return false
	}
	if s[1] < '1' || s[1] > '3' {
		return false
	}
	rest := s[3:]
	return rest == "START" || rest == "END"
}

// Level successor sequences. A record followed by either sequence is a level marker.
var (
	levelLumps   = [4]wadtype.Name{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES"}
	glLevelLumps = [4]wadtype.Name{"GL_VERT", "GL_SEGS", "GL_SSECT", "GL_NODES"}
)

// GLPrefix prefixes the companion-index marker of a level.
const GLPrefix = "GL_"

// MaxLevelName is the longest plain level name; it leaves room for GLPrefix.
const MaxLevelName = wadtype.NameWidth - len(GLPrefix)
