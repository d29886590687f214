package wadtype

// Role is the classification tag assigned to a lump.
//
// The numeric order is significant: for equal names and priorities the lump
// with the greater Role sorts first in the directory.
type Role uint8

const (
	RoleOrdinary Role = iota
	RoleMarker
	RoleSpecial
	RoleDDF
	RoleLevel
	RoleTexture
	RoleColormap
	RoleFlat
	RoleSprite
	RolePatch
)

var roleNames = [...]string{
	RoleOrdinary: "ordinary",
	RoleMarker:   "marker",
	RoleSpecial:  "special",
	RoleDDF:      "ddf",
	RoleLevel:    "level",
	RoleTexture:  "texture",
	RoleColormap: "colormap",
	RoleFlat:     "flat",
	RoleSprite:   "sprite",
	RolePatch:    "patch",
}

// String returns the human-readable name of the role.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// PatchCompatible reports whether a lump with this role may stand in for a
// patch in texture composition.
func (r Role) PatchCompatible() bool {
	return r == RolePatch || r == RoleSprite || r == RoleOrdinary
}

// RunKind identifies a marker-delimited run type.
type RunKind uint8

const (
	RunSprite RunKind = iota
	RunFlat
	RunPatch
	RunColormap
	RunTexture

	// NumRunKinds is the number of run kinds.
	NumRunKinds = 5
)

var runNames = [...]string{
	RunSprite:   "sprite",
	RunFlat:     "flat",
	RunPatch:    "patch",
	RunColormap: "colormap",
	RunTexture:  "texture",
}

// String returns the human-readable name of the run kind.
func (k RunKind) String() string {
	if int(k) < len(runNames) {
		return runNames[k]
	}
	return "unknown"
}

// Role returns the member role assigned to lumps inside a run of this kind.
func (k RunKind) Role() Role {
	switch k {
	case RunSprite:
		return RoleSprite
	case RunFlat:
		return RoleFlat
	case RunPatch:
		return RolePatch
	case RunColormap:
		return RoleColormap
	default:
		return RoleTexture
	}
}
