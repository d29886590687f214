package format

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wad/internal/hash"
	"github.com/meigma/wad/internal/wadtype"
)

func writeContainer(t *testing.T, magic [4]byte, lumps []Lump) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, magic, lumps))
	path := filepath.Join(t.TempDir(), "test.wad")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestOpenRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeContainer(t, MagicPWAD, []Lump{
		{Name: "map01"},
		{Name: "THINGS", Data: []byte("things")},
		{Name: "PLAYPAL", Data: bytes.Repeat([]byte{7}, 768)},
	})

	d, err := Open(path, wadtype.KindWAD, hash.Default)
	require.NoError(t, err)
	defer d.Close()

	assert.False(t, d.IWAD())
	require.Len(t, d.Records, 3)
	assert.Equal(t, wadtype.Name("MAP01"), d.Records[0].Name)
	assert.Equal(t, int64(0), d.Records[0].Size)
	assert.Equal(t, wadtype.Name("THINGS"), d.Records[1].Name)
	assert.Equal(t, int64(HeaderSize), d.Records[1].Offset)
	assert.Equal(t, int64(768), d.Records[2].Size)

	buf := make([]byte, d.Records[1].Size)
	_, err = d.File.ReadAt(buf, d.Records[1].Offset)
	require.NoError(t, err)
	assert.Equal(t, "things", string(buf))
}

func TestOpenDigestCoversDirectoryOnly(t *testing.T) {
	t.Parallel()

	a := writeContainer(t, MagicPWAD, []Lump{{Name: "DATA", Data: []byte("aaaa")}})
	b := writeContainer(t, MagicPWAD, []Lump{{Name: "DATA", Data: []byte("bbbb")}})

	da, err := Open(a, wadtype.KindWAD, hash.Default)
	require.NoError(t, err)
	defer da.Close()
	db, err := Open(b, wadtype.KindWAD, hash.Default)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, da.Digest, db.Digest, "same directory layout must hash equal")
}

func TestOpenAcceptsIWAD(t *testing.T) {
	t.Parallel()

	path := writeContainer(t, MagicIWAD, []Lump{{Name: "PLAYPAL", Data: []byte{1}}})
	d, err := Open(path, wadtype.KindWAD, hash.Default)
	require.NoError(t, err)
	defer d.Close()
	assert.True(t, d.IWAD())
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	badMagic := filepath.Join(dir, "bad.wad")
	hdr := make([]byte, HeaderSize)
	copy(hdr, "ZWAD")
	require.NoError(t, os.WriteFile(badMagic, hdr, 0o600))

	truncated := filepath.Join(dir, "trunc.wad")
	hdr = make([]byte, HeaderSize)
	copy(hdr, "PWAD")
	binary.LittleEndian.PutUint32(hdr[4:8], 10)
	binary.LittleEndian.PutUint32(hdr[8:], HeaderSize)
	require.NoError(t, os.WriteFile(truncated, hdr, 0o600))

	short := filepath.Join(dir, "short.wad")
	require.NoError(t, os.WriteFile(short, []byte("PW"), 0o600))

	tests := []struct {
		name string
		path string
		kind wadtype.Kind
		want error
	}{
		{"missing file", filepath.Join(dir, "nope.wad"), wadtype.KindWAD, wadtype.ErrIO},
		{"bad magic", badMagic, wadtype.KindWAD, wadtype.ErrCorruptHeader},
		{"directory past eof", truncated, wadtype.KindWAD, wadtype.ErrCorruptHeader},
		{"short header", short, wadtype.KindWAD, wadtype.ErrCorruptHeader},
		{"unknown kind", badMagic, wadtype.Kind(99), wadtype.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, tt.kind, hash.Default)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenSingleRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string][]byte{
		"titlepic.lmp":     []byte("picture"),
		"things.ddf":       []byte("[IMP]"),
		"intro.rts":        []byte("START_MAP map01"),
		"fix.deh":          []byte("Patch File for DeHackEd"),
		"longfilename.lmp": []byte("x"),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}

	tests := []struct {
		file string
		kind wadtype.Kind
		want wadtype.Name
	}{
		{"titlepic.lmp", wadtype.KindLump, "TITLEPIC"},
		{"things.ddf", wadtype.KindScript, "DDFTHING"},
		{"intro.rts", wadtype.KindScript, "RSCRIPT"},
		{"fix.deh", wadtype.KindDehacked, "DEHACKED"},
		{"longfilename.lmp", wadtype.KindLump, "LONGFILE"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			d, err := Open(filepath.Join(dir, tt.file), tt.kind, hash.Default)
			require.NoError(t, err)
			defer d.Close()

			require.Len(t, d.Records, 1)
			assert.Equal(t, tt.want, d.Records[0].Name)
			assert.Equal(t, int64(len(files[tt.file])), d.Records[0].Size)
			assert.Equal(t, hash.Sum(hash.Default, files[tt.file]), d.Digest)
		})
	}
}
