package wad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/cache"
	"github.com/meigma/wad/cache/disk"
	"github.com/meigma/wad/internal/hash"
	"github.com/meigma/wad/internal/index"
	"github.com/meigma/wad/internal/wadtype"
)

// IndexBuilder builds a companion index container for a source archive.
//
// Build must write, at target, a multi-record container holding the GL node
// lumps for every level in source.
type IndexBuilder interface {
	Build(ctx context.Context, source, target string) error
}

// IndexBuilderFunc adapts a function to IndexBuilder.
type IndexBuilderFunc func(ctx context.Context, source, target string) error

// Build calls f.
func (f IndexBuilderFunc) Build(ctx context.Context, source, target string) error {
	return f(ctx, source, target)
}

// Converter converts legacy DeHackEd patch data into a companion container.
//
// Convert must write, at target, a multi-record container holding the
// converted definition lumps.
type Converter interface {
	Convert(ctx context.Context, source []byte, target string) error
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, source []byte, target string) error

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, source []byte, target string) error {
	return f(ctx, source, target)
}

// Directory is the layered lump directory.
//
// A Directory is built once by a single goroutine: AddArchive must not run
// concurrently with itself or with queries. Once loading is finished the
// Directory may be read from many goroutines.
type Directory struct {
	archives []*Archive
	lumps    []Lump
	idx      *index.Index

	cache     cache.Cache
	cacheDir  string
	builder   IndexBuilder
	converter Converter
	external  map[Subsystem]bool
	digestAlg digest.Algorithm
	diagFunc  func(Diagnostic)
	logger    *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (d *Directory) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// New creates an empty Directory.
func New(opts ...Option) (*Directory, error) {
	d := &Directory{
		external:  make(map[Subsystem]bool),
		digestAlg: hash.Default,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.digestAlg == "" || !d.digestAlg.Available() {
		return nil, fmt.Errorf("wad: digest algorithm %q unavailable", d.digestAlg)
	}
	return d, nil
}

// Close closes every archive's file. The Directory must not be used afterwards.
func (d *Directory) Close() error {
	var errs []error
	for _, a := range d.archives {
		if err := a.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", a.path, err))
		}
	}
	return errors.Join(errs...)
}

// artifactCache returns the configured cache, creating the default disk cache
// on first use.
func (d *Directory) artifactCache() (cache.Cache, error) {
	if d.cache != nil {
		return d.cache, nil
	}
	dir := d.cacheDir
	if dir == "" {
		dir = DefaultCacheDir()
	}
	c, err := disk.New(dir, disk.WithLogger(d.logger))
	if err != nil {
		return nil, fmt.Errorf("wad: open artifact cache: %w", err)
	}
	d.cache = c
	return c, nil
}

// DefaultCacheDir returns the artifact cache used when none is configured:
// "wad" under the user cache directory, or under the temp directory.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wad")
	}
	return filepath.Join(os.TempDir(), "wad-cache")
}

// Archives returns all archives in load order.
func (d *Directory) Archives() []*Archive {
	out := make([]*Archive, len(d.archives))
	copy(out, d.archives)
	return out
}

// Archive returns the archive at position i in load order.
func (d *Directory) Archive(i int) (*Archive, bool) {
	if i < 0 || i >= len(d.archives) {
		return nil, false
	}
	return d.archives[i], true
}

// NumLumps returns the number of lumps in the directory.
func (d *Directory) NumLumps() int {
	return len(d.lumps)
}

// Lump returns the description of the lump with the given ID.
func (d *Directory) Lump(id LumpID) (Lump, bool) {
	if id < 0 || int(id) >= len(d.lumps) {
		return Lump{}, false
	}
	return d.lumps[id], true
}

// Lumps returns an iterator over all lumps in ID order.
func (d *Directory) Lumps() iter.Seq2[LumpID, Lump] {
	return func(yield func(LumpID, Lump) bool) {
		for i, l := range d.lumps {
			if !yield(LumpID(i), l) {
				return
			}
		}
	}
}

// ReadLump returns the payload of the lump with the given ID.
func (d *Directory) ReadLump(id LumpID) ([]byte, error) {
	sr, err := d.LumpReader(id)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, buf); err != nil {
		return nil, fmt.Errorf("read lump %d: %w: %w", id, wadtype.ErrIO, err)
	}
	return buf, nil
}

// LumpReader returns a reader over the payload of the lump with the given ID.
func (d *Directory) LumpReader(id LumpID) (*io.SectionReader, error) {
	l, ok := d.Lump(id)
	if !ok {
		return nil, fmt.Errorf("lump %d: %w", id, wadtype.ErrNotFound)
	}
	a := d.archives[l.Archive]
	if a.src == nil {
		return nil, fmt.Errorf("lump %d (%s): %w: archive closed", id, l.Name, wadtype.ErrIO)
	}
	if l.Size > 0 && l.Offset+l.Size > a.src.Size {
		return nil, fmt.Errorf("lump %d (%s): %w", id, l.Name, wadtype.ErrInvalidLump)
	}
	return io.NewSectionReader(a.src.File, l.Offset, l.Size), nil
}

// rebuild recomputes the sorted name index over all lumps.
func (d *Directory) rebuild() {
	entries := make([]index.Entry, len(d.lumps))
	for i, l := range d.lumps {
		entries[i] = index.Entry{Name: l.Name, Priority: l.Priority, Role: l.Role, ID: i}
	}
	d.idx = index.Build(entries)
}
