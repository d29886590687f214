package hash

import (
	"bytes"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumDeterministic(t *testing.T) {
	t.Parallel()

	data := []byte("PWAD directory")
	assert.Equal(t, Sum(Default, data), Sum(Default, data))
	assert.NotEqual(t, Sum(Default, data), Sum(Default, []byte("IWAD directory")))
	assert.Equal(t, digest.SHA256, Sum("", data).Algorithm())
}

func TestDirectoryMatchesConcatenation(t *testing.T) {
	t.Parallel()

	entries := [][]byte{
		bytes.Repeat([]byte{1}, 16),
		bytes.Repeat([]byte{2}, 16),
		bytes.Repeat([]byte{3}, 16),
	}
	d := NewDirectory(Default)
	for _, e := range entries {
		d.Add(e)
	}
	assert.Equal(t, 3, d.Entries())
	assert.Equal(t, Sum(Default, bytes.Join(entries, nil)), d.Digest())
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	data := []byte("whole file")
	got, err := FromReader(digest.SHA512, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum(digest.SHA512, data), got)
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	d := Sum(Default, []byte("x"))
	p := Prefix(d)
	assert.Len(t, p, 12)
	assert.Equal(t, d.Encoded()[:12], p)
}
