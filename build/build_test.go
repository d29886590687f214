package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wad"
	"github.com/meigma/wad/internal/testutil"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestArgs(t *testing.T) {
	t.Parallel()

	c := New("glbsp", []string{"-q", "{src}", "-o", "{dst}", "--log={dst}.log"})
	assert.Equal(t,
		[]string{"-q", "in.wad", "-o", "out.gwa", "--log=out.gwa.log"},
		c.Args("in.wad", "out.gwa"))
	assert.Equal(t, "glbsp -q {src} -o {dst} --log={dst}.log", c.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := Parse([]string{"cp", "{src}", "{dst}"})
	require.NoError(t, err)
	assert.Equal(t, "cp {src} {dst}", c.String())

	_, err = Parse(nil)
	require.Error(t, err)
	_, err = Parse([]string{""})
	require.Error(t, err)
}

func TestCommandBuild(t *testing.T) {
	t.Parallel()
	requireProgram(t, "cp")

	dir := t.TempDir()
	src := filepath.Join(dir, "src.wad")
	dst := filepath.Join(dir, "dst.gwa")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	require.NoError(t, New("cp", []string{"{src}", "{dst}"}).Build(context.Background(), src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestCommandBuildFailure(t *testing.T) {
	t.Parallel()
	requireProgram(t, "sh")

	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.gwa")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "non-zero exit", args: []string{"-c", "echo broken >&2; exit 3"}, want: "broken"},
		{name: "no output", args: []string{"-c", "exit 0"}, want: errNoOutput.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("sh", tt.args).Build(context.Background(), "src.wad", dst)
			require.ErrorIs(t, err, wad.ErrBuilderFailure)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCommandMissingProgram(t *testing.T) {
	t.Parallel()

	err := New("definitely-not-a-node-builder", nil).Build(context.Background(), "a", "b")
	require.ErrorIs(t, err, wad.ErrBuilderFailure)
}

func TestCommandEnv(t *testing.T) {
	t.Parallel()
	requireProgram(t, "sh")

	dst := filepath.Join(t.TempDir(), "out")
	c := New("sh", []string{"-c", `printf %s "$WAD_TEST" > "$0"`, "{dst}"}, WithEnv("WAD_TEST=hello"))
	require.NoError(t, c.Build(context.Background(), "", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestConverter(t *testing.T) {
	t.Parallel()
	requireProgram(t, "sh")

	tests := []struct {
		name string
		args []string
	}{
		{name: "source file", args: []string{"-c", `cp "$0" "$1"`, "{src}", "{dst}"}},
		{name: "stdin", args: []string{"-c", `cat > "$0"`, "{dst}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dst := filepath.Join(dir, "out.hwa")
			conv := NewConverter(New("sh", tt.args))
			require.NoError(t, conv.Convert(context.Background(), []byte("Thing 1"), dst))

			data, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, "Thing 1", string(data))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary source file removed")
		})
	}
}

func TestConverterFailure(t *testing.T) {
	t.Parallel()
	requireProgram(t, "sh")

	dst := filepath.Join(t.TempDir(), "out.hwa")
	err := NewConverter(New("sh", []string{"-c", "exit 1"})).Convert(context.Background(), []byte("x"), dst)
	require.ErrorIs(t, err, wad.ErrConverterFailure)
}

func TestDirectoryWithCommandBuilder(t *testing.T) {
	t.Parallel()
	requireProgram(t, "cp")

	dir := t.TempDir()
	src := testutil.WriteWAD(t, dir, "maps.wad", testutil.GLLevel("MAP01"))
	// The builder copies a prebuilt GL-only WAD into place.
	path := testutil.WriteWAD(t, dir, "plain.wad", testutil.Level("MAP01"))

	builder := New("cp", []string{src, "{dst}"})
	d, err := wad.New(wad.WithCacheDir(filepath.Join(dir, "cache")), wad.WithIndexBuilder(builder))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	a, err := d.AddFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, wad.DeriveBuilt, a.IndexState())

	lv, ok := d.FindLevel("GL_MAP01")
	require.True(t, ok)
	assert.True(t, lv.GL)
	gwa, ok := a.Companion()
	require.True(t, ok)
	assert.Equal(t, gwa, lv.Archive)
}
