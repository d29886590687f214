package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/wadtype"
)

// Absent marks an empty slot.
const Absent = -1

// Lump is one classified directory record. Local is its index in the archive.
type Lump struct {
	Name   wadtype.Name
	Offset int64
	Size   int64
	Role   wadtype.Role
	Local  int
}

// Level is a detected level marker.
type Level struct {
	Name  wadtype.Name
	Local int
	GL    bool
}

// DiagnosticKind identifies a non-fatal classification problem.
type DiagnosticKind uint8

const (
	// MarkerImbalance reports a run still open at the end of the archive.
	MarkerImbalance DiagnosticKind = iota
	// UnmatchedEnd reports an END marker with no open run.
	UnmatchedEnd
	// DuplicateCompositeName reports a second level marker with the same name.
	DuplicateCompositeName
	// OversizeCompositeName reports a level name too long to carry a GL companion.
	OversizeCompositeName
)

// String returns the human-readable name of the diagnostic kind.
func (k DiagnosticKind) String() string {
	switch k {
	case MarkerImbalance:
		return "marker-imbalance"
	case UnmatchedEnd:
		return "unmatched-end"
	case DuplicateCompositeName:
		return "duplicate-composite-name"
	case OversizeCompositeName:
		return "oversize-composite-name"
	default:
		return "unknown"
	}
}

// Diagnostic describes one non-fatal problem found while classifying.
type Diagnostic struct {
	Kind    DiagnosticKind
	Lump    wadtype.Name
	Run     wadtype.RunKind
	Message string
}

// Result is the classification of one archive's directory.
type Result struct {
	Lumps       []Lump
	Runs        [wadtype.NumRunKinds][]int
	Slots       [wadtype.NumSlotKinds]int
	DDF         [wadtype.NumSubsystems]int
	Levels      []Level
	Skins       []int
	Diagnostics []Diagnostic
}

// NeedsIndexBuild reports whether the archive has levels lacking an embedded
// GL companion marker.
func (r *Result) NeedsIndexBuild() bool {
	if len(r.Levels) == 0 {
		return false
	}
	have := make(map[wadtype.Name]bool, len(r.Levels))
	for _, lv := range r.Levels {
		have[lv.Name] = true
	}
	for _, lv := range r.Levels {
		if lv.GL {
			continue
		}
		if !have[wadtype.CanonicalName(GLPrefix+string(lv.Name))] {
			return true
		}
	}
	return false
}

// Options controls classification.
type Options struct {
	// Kind is the container kind of the archive being classified.
	Kind wadtype.Kind

	// External reports subsystems supplied from outside any archive. For
	// primary containers their payload lumps are not tagged as DDF.
	External func(wadtype.Subsystem) bool
}

// runState tracks which runs are open while scanning records.
type runState struct {
	open [wadtype.NumRunKinds]bool
}

func (s *runState) any() bool {
	for _, o := range s.open {
		if o {
			return true
		}
	}
	return false
}

// memberRole returns the most specific role among open runs.
func (s *runState) memberRole() wadtype.Role {
	role := wadtype.RoleOrdinary
	for k, o := range s.open {
		if o && wadtype.RunKind(k).Role() > role {
			role = wadtype.RunKind(k).Role()
		}
	}
	return role
}

// Classify assigns roles to records, collects run lists, special slots, DDF
// payloads and level markers. It never fails; problems are reported as
// diagnostics and the offending record is skipped or closed over.
func Classify(records []format.Record, opts Options) *Result {
	res := &Result{Lumps: make([]Lump, len(records))}
	for i := range res.Slots {
		res.Slots[i] = Absent
	}
	for i := range res.DDF {
		res.DDF[i] = Absent
	}

	var state runState
	for i, rec := range records {
		l := Lump{Name: rec.Name, Offset: rec.Offset, Size: rec.Size, Local: i}
		l.Role = res.classifyOne(&l, &state, opts)
		res.Lumps[i] = l
	}
	for k, o := range state.open {
		if o {
			run := wadtype.RunKind(k)
			res.warn(Diagnostic{
				Kind:    MarkerImbalance,
				Run:     run,
				Message: fmt.Sprintf("missing %s end marker", run),
			})
		}
	}

	res.detectLevels()
	sortRunByName(res.Lumps, res.Runs[wadtype.RunSprite])
	return res
}

func (r *Result) classifyOne(l *Lump, state *runState, opts Options) wadtype.Role {
	if slot, ok := wadtype.SlotForName(l.Name); ok {
		r.Slots[slot] = l.Local
		return wadtype.RoleSpecial
	}

	if sub, ok := wadtype.SubsystemForName(l.Name); ok {
		external := opts.Kind == wadtype.KindWAD && opts.External != nil && opts.External(sub)
		if !external {
			r.DDF[sub] = l.Local
			return wadtype.RoleDDF
		}
	}

	if isSkin(l.Name) {
		r.Skins = append(r.Skins, l.Local)
		return wadtype.RoleMarker
	}

	if m, ok := startMarkers[l.Name]; ok {
		l.Name = m.canonical
		if !m.noRun {
			state.open[m.run] = true
		}
		return wadtype.RoleMarker
	}
	if m, ok := endMarkers[l.Name]; ok {
		l.Name = m.canonical
		if !m.noRun {
			if !state.open[m.run] {
				r.warn(Diagnostic{
					Kind:    UnmatchedEnd,
					Lump:    l.Name,
					Run:     m.run,
					Message: fmt.Sprintf("%s without matching start marker", l.Name),
				})
			}
			state.open[m.run] = false
		}
		return wadtype.RoleMarker
	}

	if isDummyMarker(l.Name) {
		return wadtype.RoleMarker
	}

	if l.Size > 0 && state.any() {
		for k, o := range state.open {
			if o {
				r.Runs[k] = append(r.Runs[k], l.Local)
			}
		}
		return state.memberRole()
	}

	return wadtype.RoleOrdinary
}

func (r *Result) detectLevels() {
	seen := make(map[wadtype.Name]bool)
	for i := range r.Lumps {
		if i+4 >= len(r.Lumps) {
			break
		}
		if !r.followedBy(i, levelLumps) && !r.followedBy(i, glLevelLumps) {
			continue
		}
		l := &r.Lumps[i]
		gl := strings.HasPrefix(string(l.Name), GLPrefix)
		if !gl && len(l.Name) > MaxLevelName {
			r.warn(Diagnostic{
				Kind:    OversizeCompositeName,
				Lump:    l.Name,
				Message: fmt.Sprintf("level name %q is too long", l.Name),
			})
			continue
		}
		if seen[l.Name] {
			r.warn(Diagnostic{
				Kind:    DuplicateCompositeName,
				Lump:    l.Name,
				Message: fmt.Sprintf("duplicate level %q ignored", l.Name),
			})
			continue
		}
		seen[l.Name] = true
		if l.Role == wadtype.RoleOrdinary || l.Role == wadtype.RoleMarker {
			l.Role = wadtype.RoleLevel
		}
		r.Levels = append(r.Levels, Level{Name: l.Name, Local: i, GL: gl})
	}
}

func (r *Result) followedBy(i int, names [4]wadtype.Name) bool {
	for j, n := range names {
		if r.Lumps[i+1+j].Name != n {
			return false
		}
	}
	return true
}

func (r *Result) warn(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

func sortRunByName(lumps []Lump, run []int) {
	sort.SliceStable(run, func(a, b int) bool {
		return lumps[run[a]].Name < lumps[run[b]].Name
	})
}
