package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wad"
	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/hash"
	"github.com/meigma/wad/internal/testutil"
)

// runCmd executes wadctl with args and returns its stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "wadctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFilesCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := testutil.WriteIWAD(t, dir, "doom2.wad", testutil.Lumps("PLAYPAL"))
	mod := testutil.WriteWAD(t, dir, "mod.wad", testutil.Level("MAP01"))

	out, _, err := runCmd(t, "--cache-dir", filepath.Join(dir, "cache"), "files", base, mod)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DIGEST")
	assert.Contains(t, lines[1], "iwad")
	assert.Contains(t, lines[1], base)
	assert.Contains(t, lines[2], "skipped", "no builder configured")
	assert.Contains(t, lines[2], mod)
}

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	base := testutil.WriteIWAD(t, dir, "doom2.wad", testutil.Lumps("PLAYPAL", "P_START!", "STEP1", "P_END!"))
	mod := testutil.WriteWAD(t, dir, "mod.wad", testutil.Lumps("PLAYPAL", "F_START!", "STEP1", "F_END!"))

	out, _, err := runCmd(t, "--cache-dir", cacheDir, "lookup", "playpal", base, mod)
	require.NoError(t, err)
	assert.Contains(t, out, mod)
	assert.NotContains(t, out, base)
	assert.Contains(t, out, "true", "winning lump comes from a PWAD")

	out, _, err = runCmd(t, "--cache-dir", cacheDir, "lookup", "--patch", "STEP1", base, mod)
	require.NoError(t, err)
	assert.Contains(t, out, "patch")
	assert.Contains(t, out, base)

	out, _, err = runCmd(t, "--cache-dir", cacheDir, "lookup", "--all", "STEP1", base, mod)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	_, _, err = runCmd(t, "--cache-dir", cacheDir, "lookup", "MISSING", base)
	require.ErrorIs(t, err, wad.ErrNotFound)
}

func TestExtractCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	path := testutil.WriteWAD(t, dir, "mod.wad", []format.Lump{{Name: "ENDOOM", Data: []byte("bye")}})

	out, _, err := runCmd(t, "--cache-dir", cacheDir, "extract", "endoom", path)
	require.NoError(t, err)
	assert.Equal(t, "bye", out)

	dst := filepath.Join(dir, "endoom.lmp")
	_, _, err = runCmd(t, "--cache-dir", cacheDir, "extract", "ENDOOM", path, "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "bye", string(data))
}

func TestLumpsCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	a := testutil.WriteWAD(t, dir, "a.wad", testutil.Lumps("ALPHA", "SHARED"))
	b := testutil.WriteWAD(t, dir, "b.wad", testutil.Lumps("SHARED"))

	out, _, err := runCmd(t, "--cache-dir", cacheDir, "lumps", a, b)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)

	out, _, err = runCmd(t, "--cache-dir", cacheDir, "lumps", "--archive", "1", a, b)
	require.NoError(t, err)
	assert.NotContains(t, out, "ALPHA")
	assert.Contains(t, out, "SHARED")

	out, _, err = runCmd(t, "--cache-dir", cacheDir, "lumps", "--overriding", a, b)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestDiagnosticsReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteWAD(t, dir, "bad.wad", testutil.Lumps("S_START!", "TROOA1"))

	_, stderr, err := runCmd(t, "--cache-dir", filepath.Join(dir, "cache"), "lumps", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: "+path)
}

func TestNoArchives(t *testing.T) {
	t.Parallel()

	_, _, err := runCmd(t, "--cache-dir", t.TempDir(), "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no archives")
}

func TestConfigDrivenBuild(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skipf("cp not available: %v", err)
	}

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	prebuilt := testutil.WriteWAD(t, dir, "prebuilt.wad", testutil.GLLevel("MAP01"))
	mod := testutil.WriteWAD(t, dir, "mod.wad", testutil.Level("MAP01"))
	cfg := writeConfig(t, dir, `
files:
  - `+mod+`
cache_dir: `+cacheDir+`
builder: [cp, `+prebuilt+`, "{dst}"]
`)

	out, _, err := runCmd(t, "--config", cfg, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "built")
	assert.Contains(t, out, "gwa")

	out, _, err = runCmd(t, "--config", cfg, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "cache-hit")

	out, _, err = runCmd(t, "--config", cfg, "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "GL_MAP01")
	assert.Contains(t, out, "yes")

	out, _, err = runCmd(t, "--config", cfg, "cache", "size")
	require.NoError(t, err)
	assert.NotContains(t, out, "\t0 bytes")

	out, _, err = runCmd(t, "--config", cfg, "cache", "prune", "--target", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "0 bytes remain")
}

func TestHashCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.wad", "b.wad", "c.wad"} {
		paths = append(paths, testutil.WriteWAD(t, dir, name, testutil.Lumps(strings.ToUpper(name[:1]))))
	}

	out, _, err := runCmd(t, append([]string{"hash", "--workers", "2"}, paths...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	for i, path := range paths {
		src, err := format.Open(path, wad.KindWAD, hash.Default)
		require.NoError(t, err)
		want := src.Digest
		require.NoError(t, src.Close())
		assert.Contains(t, lines[i+1], want.String())
		assert.Contains(t, lines[i+1], strings.TrimSuffix(filepath.Base(path), ".wad")+"-"+want.Encoded()[:12]+".gwa")
	}

	_, _, err = runCmd(t, "hash", "--algorithm", "md5", paths[0])
	require.Error(t, err)
}

func TestPackCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ddf := filepath.Join(dir, "things.ddf")
	require.NoError(t, os.WriteFile(ddf, []byte("[IMP]"), 0o600))
	lmp := filepath.Join(dir, "titlepic.lmp")
	require.NoError(t, os.WriteFile(lmp, []byte("pic"), 0o600))
	parts := testutil.WriteWAD(t, dir, "parts.wad", testutil.Lumps("PLAYPAL", "COLORMAP"))

	out := filepath.Join(dir, "out", "packed.wad")
	stdout, _, err := runCmd(t, "pack", "--iwad", out, ddf, lmp, parts)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 lumps")

	src, err := format.Open(out, wad.KindWAD, hash.Default)
	require.NoError(t, err)
	defer src.Close()
	assert.True(t, src.IWAD())
	var names []string
	for _, rec := range src.Records {
		names = append(names, rec.Name.String())
	}
	assert.Equal(t, []string{"DDFTHING", "TITLEPIC", "PLAYPAL", "COLORMAP"}, names)
}

func TestProfilingFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteWAD(t, dir, "a.wad", testutil.Lumps("A"))
	mem := filepath.Join(dir, "mem.pprof")

	_, _, err := runCmd(t, "--memprofile", mem, "hash", path)
	require.NoError(t, err)
	info, err := os.Stat(mem)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
