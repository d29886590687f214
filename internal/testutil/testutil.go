// Package testutil provides fixtures and fake collaborators for tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/meigma/wad/internal/classify"
	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/hash"
	"github.com/meigma/wad/internal/wadtype"
)

// Lumps builds lumps from names. A name ending in '!' is a zero-length
// marker; any other lump carries its own name as payload.
func Lumps(names ...string) []format.Lump {
	out := make([]format.Lump, len(names))
	for i, n := range names {
		if strings.HasSuffix(n, "!") {
			out[i] = format.Lump{Name: strings.TrimSuffix(n, "!")}
			continue
		}
		out[i] = format.Lump{Name: n, Data: []byte(n)}
	}
	return out
}

// Level returns the lumps of a minimal level named name.
func Level(name string) []format.Lump {
	return Lumps(name+"!", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES")
}

// GLLevel returns the GL node lumps for a level named name.
func GLLevel(name string) []format.Lump {
	return Lumps("GL_"+name+"!", "GL_VERT", "GL_SEGS", "GL_SSECT", "GL_NODES")
}

// WriteWAD writes a PWAD named name under dir and returns its path.
func WriteWAD(t testing.TB, dir, name string, lumps []format.Lump) string {
	t.Helper()
	return write(t, dir, name, format.MagicPWAD, lumps)
}

// WriteIWAD writes an IWAD named name under dir and returns its path.
func WriteIWAD(t testing.TB, dir, name string, lumps []format.Lump) string {
	t.Helper()
	return write(t, dir, name, format.MagicIWAD, lumps)
}

func write(t testing.TB, dir, name string, magic [4]byte, lumps []format.Lump) string {
	t.Helper()
	var buf bytes.Buffer
	if err := format.Write(&buf, magic, lumps); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// SetModTime sets both access and modification times of path.
func SetModTime(t testing.TB, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// GLBuilder is a fake index builder. It writes a GWA holding GL node lumps
// for every plain level in the source and records each invocation.
type GLBuilder struct {
	mu    sync.Mutex
	calls []string
	Err   error
}

// Build implements the index builder contract.
func (b *GLBuilder) Build(_ context.Context, source, target string) error {
	b.mu.Lock()
	b.calls = append(b.calls, source)
	b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}

	src, err := format.Open(source, wadtype.KindWAD, hash.Default)
	if err != nil {
		return err
	}
	defer src.Close()

	res := classify.Classify(src.Records, classify.Options{Kind: wadtype.KindWAD})
	var lumps []format.Lump
	for _, lv := range res.Levels {
		if !lv.GL {
			lumps = append(lumps, GLLevel(string(lv.Name))...)
		}
	}
	if len(lumps) == 0 {
		return errors.New("no levels to build")
	}
	var buf bytes.Buffer
	if err := format.Write(&buf, format.MagicPWAD, lumps); err != nil {
		return err
	}
	return os.WriteFile(target, buf.Bytes(), 0o600)
}

// Calls returns the sources passed to Build.
func (b *GLBuilder) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Converter is a fake format converter. It writes an HWA holding a DDFTHING
// lump whose payload is the converted source, and records each invocation.
type Converter struct {
	mu    sync.Mutex
	calls [][]byte
	Err   error
}

// Convert implements the format converter contract.
func (c *Converter) Convert(_ context.Context, source []byte, target string) error {
	c.mu.Lock()
	c.calls = append(c.calls, append([]byte(nil), source...))
	c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	var buf bytes.Buffer
	lumps := []format.Lump{{Name: "DDFTHING", Data: append([]byte("// converted\n"), source...)}}
	if err := format.Write(&buf, format.MagicPWAD, lumps); err != nil {
		return err
	}
	return os.WriteFile(target, buf.Bytes(), 0o600)
}

// Calls returns the sources passed to Convert.
func (c *Converter) Calls() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.calls...)
}
