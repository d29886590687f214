package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/wadtype"
)

// records builds a directory from names; names ending in '!' are zero-length.
func records(names ...string) []format.Record {
	out := make([]format.Record, len(names))
	var off int64 = format.HeaderSize
	for i, n := range names {
		size := int64(4)
		if n[len(n)-1] == '!' {
			n = n[:len(n)-1]
			size = 0
		}
		out[i] = format.Record{Name: wadtype.CanonicalName(n), Offset: off, Size: size}
		off += size
	}
	return out
}

func localNames(res *Result, run []int) []wadtype.Name {
	out := make([]wadtype.Name, len(run))
	for i, l := range run {
		out[i] = res.Lumps[l].Name
	}
	return out
}

func TestClassifySpriteRun(t *testing.T) {
	t.Parallel()

	res := Classify(records("S_START!", "TROOB1", "TROOA1", "S_END!", "OTHER"), Options{})

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []wadtype.Name{"TROOA1", "TROOB1"}, localNames(res, res.Runs[wadtype.RunSprite]))
	assert.Equal(t, wadtype.RoleSprite, res.Lumps[1].Role)
	assert.Equal(t, wadtype.RoleMarker, res.Lumps[0].Role)
	assert.Equal(t, wadtype.RoleOrdinary, res.Lumps[4].Role)
}

func TestClassifyUnclosedRun(t *testing.T) {
	t.Parallel()

	res := Classify(records("S_START!", "TROOA1"), Options{})

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, MarkerImbalance, res.Diagnostics[0].Kind)
	assert.Equal(t, wadtype.RunSprite, res.Diagnostics[0].Run)
	assert.Len(t, res.Runs[wadtype.RunSprite], 1)
}

func TestClassifyUnmatchedEnd(t *testing.T) {
	t.Parallel()

	res := Classify(records("FLOOR1", "F_END!", "FLOOR2"), Options{})

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, UnmatchedEnd, res.Diagnostics[0].Kind)
	assert.Empty(t, res.Runs[wadtype.RunFlat])
	assert.Equal(t, wadtype.RoleOrdinary, res.Lumps[2].Role)
}

func TestClassifyNormalizesMarkers(t *testing.T) {
	t.Parallel()

	res := Classify(records("FF_START!", "F1_START!", "NUKAGE1", "F1_END!", "FF_END!", "PP_START!", "WALL00", "PP_END!"), Options{})

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, wadtype.Name("F_START"), res.Lumps[0].Name)
	assert.Equal(t, wadtype.Name("F_END"), res.Lumps[4].Name)
	assert.Equal(t, wadtype.Name("P_START"), res.Lumps[5].Name)
	assert.Equal(t, wadtype.Name("P_END"), res.Lumps[7].Name)
	assert.Equal(t, []wadtype.Name{"NUKAGE1"}, localNames(res, res.Runs[wadtype.RunFlat]))
	assert.Equal(t, []wadtype.Name{"WALL00"}, localNames(res, res.Runs[wadtype.RunPatch]))
	assert.Equal(t, wadtype.RoleMarker, res.Lumps[1].Role)
}

func TestClassifyOverlappingRuns(t *testing.T) {
	t.Parallel()

	res := Classify(records("P_START!", "F_START!", "SHARED", "F_END!", "ONLYP", "P_END!"), Options{})

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []wadtype.Name{"SHARED"}, localNames(res, res.Runs[wadtype.RunFlat]))
	assert.Equal(t, []wadtype.Name{"SHARED", "ONLYP"}, localNames(res, res.Runs[wadtype.RunPatch]))
	assert.Equal(t, wadtype.RolePatch, res.Lumps[2].Role)
}

func TestClassifySkipsZeroLengthAndSpecials(t *testing.T) {
	t.Parallel()

	res := Classify(records("C_START!", "EMPTY!", "PLAYPAL", "WATERMAP", "C_END!"), Options{})

	assert.Equal(t, []wadtype.Name{"WATERMAP"}, localNames(res, res.Runs[wadtype.RunColormap]))
	assert.Equal(t, wadtype.RoleOrdinary, res.Lumps[1].Role)
	assert.Equal(t, wadtype.RoleSpecial, res.Lumps[2].Role)
	assert.Equal(t, 2, res.Slots[wadtype.SlotPalette])
	assert.Equal(t, Absent, res.Slots[wadtype.SlotPatchNames])
}

func TestClassifyHiresPairOpensNoRun(t *testing.T) {
	t.Parallel()

	res := Classify(records("HI_START!", "BIGWALL", "HI_END!"), Options{})

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, wadtype.RoleMarker, res.Lumps[0].Role)
	assert.Equal(t, wadtype.RoleOrdinary, res.Lumps[1].Role)
}

func TestClassifyDDFAndSkins(t *testing.T) {
	t.Parallel()

	recs := records("DDFTHING", "RSCRIPT", "S_SKIN1")

	res := Classify(recs, Options{Kind: wadtype.KindWAD})
	assert.Equal(t, 0, res.DDF[wadtype.SubsystemThings])
	assert.Equal(t, 1, res.DDF[wadtype.SubsystemRTS])
	assert.Equal(t, []int{2}, res.Skins)
	assert.Equal(t, wadtype.RoleDDF, res.Lumps[0].Role)

	external := func(s wadtype.Subsystem) bool { return s == wadtype.SubsystemThings }
	res = Classify(recs, Options{Kind: wadtype.KindWAD, External: external})
	assert.Equal(t, Absent, res.DDF[wadtype.SubsystemThings])
	assert.Equal(t, wadtype.RoleOrdinary, res.Lumps[0].Role)

	res = Classify(recs, Options{Kind: wadtype.KindHWA, External: external})
	assert.Equal(t, 0, res.DDF[wadtype.SubsystemThings], "external override only applies to primary containers")
}

func TestClassifyIdempotent(t *testing.T) {
	t.Parallel()

	recs := records("MAP01!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "S_START!", "A", "S_END!", "PNAMES")
	a := Classify(recs, Options{})
	b := Classify(recs, Options{})
	assert.Equal(t, a, b)
}

func TestDetectLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recs    []string
		want    []wadtype.Name
		diag    []DiagnosticKind
		needsGL bool
	}{
		{
			name:    "plain level",
			recs:    []string{"MAP01!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES"},
			want:    []wadtype.Name{"MAP01"},
			needsGL: true,
		},
		{
			name: "reordered successors",
			recs: []string{"MAP01!", "LINEDEFS", "THINGS", "SIDEDEFS", "VERTEXES"},
		},
		{
			name: "too few records remain",
			recs: []string{"MAP01!", "THINGS", "LINEDEFS", "SIDEDEFS"},
		},
		{
			name: "embedded gl nodes",
			recs: []string{
				"E1M1!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES",
				"GL_E1M1!", "GL_VERT", "GL_SEGS", "GL_SSECT", "GL_NODES",
			},
			want: []wadtype.Name{"E1M1", "GL_E1M1"},
		},
		{
			name: "gl only",
			recs: []string{"GL_MAP01!", "GL_VERT", "GL_SEGS", "GL_SSECT", "GL_NODES"},
			want: []wadtype.Name{"GL_MAP01"},
		},
		{
			name: "duplicate level",
			recs: []string{
				"MAP01!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES",
				"MAP01!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES",
			},
			want:    []wadtype.Name{"MAP01"},
			diag:    []DiagnosticKind{DuplicateCompositeName},
			needsGL: true,
		},
		{
			name: "oversize level name",
			recs: []string{"LONGMAP1!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES"},
			diag: []DiagnosticKind{OversizeCompositeName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(records(tt.recs...), Options{})
			var got []wadtype.Name
			for _, lv := range res.Levels {
				got = append(got, lv.Name)
				assert.Equal(t, wadtype.RoleLevel, res.Lumps[lv.Local].Role)
			}
			assert.Equal(t, tt.want, got)
			var kinds []DiagnosticKind
			for _, d := range res.Diagnostics {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.diag, kinds)
			assert.Equal(t, tt.needsGL, res.NeedsIndexBuild())
		})
	}
}
