// Package disk provides the central on-disk store for derived artifacts.
package disk

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/cache"
)

const defaultDirPerm = 0o750

// tempPrefix marks in-progress builds; they are never resolved or pruned.
const tempPrefix = ".wad-build-"

// Cache implements cache.Cache using a local directory.
// Artifacts are stored flat, named by cache.CentralName.
type Cache struct {
	dir      string       // root directory for artifacts
	dirPerm  os.FileMode  // permissions for created directories
	maxBytes int64        // maximum cache size (0 = unlimited)
	bytes    atomic.Int64 // current total size of artifacts
	pruneMu  sync.Mutex   // serializes prune operations
	logger   *slog.Logger
}

var _ cache.Cache = (*Cache)(nil)

// Option configures a disk cache.
type Option func(*Cache)

// WithDirPerm sets the permissions used when creating the cache directory.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *Cache) {
		c.dirPerm = mode
	}
}

// WithMaxBytes sets the maximum cache size in bytes.
// Values < 0 are invalid. Use 0 to disable the limit.
func WithMaxBytes(n int64) Option {
	return func(c *Cache) {
		c.maxBytes = n
	}
}

// WithLogger sets the logger for cache operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a disk-backed artifact cache rooted at dir.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	c := &Cache{
		dir:     dir,
		dirPerm: defaultDirPerm,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxBytes < 0 {
		return nil, errors.New("max bytes must be >= 0")
	}
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return nil, err
	}
	size, err := dirSize(dir)
	if err != nil {
		return nil, err
	}
	c.bytes.Store(size)
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Cache) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Resolve returns the preferred artifact location for source.
func (c *Cache) Resolve(source string, d digest.Digest, ext string) cache.Candidate {
	cand := cache.Resolve(c.dir, source, d, ext)
	c.log().Debug("resolved artifact", "source", source, "path", cand.Path, "valid", cand.Valid, "local", cand.Local)
	return cand
}

// Writer reserves a temporary file beside target for an external builder.
func (c *Cache) Writer(target string) (cache.Writer, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, tempPrefix+"*"+filepath.Ext(target))
	if err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &writer{c: c, tmp: tmp.Name(), target: target}, nil
}

// MaxBytes returns the configured cache size limit (0 = unlimited).
func (c *Cache) MaxBytes() int64 {
	return c.maxBytes
}

// SizeBytes returns the current cache size in bytes.
func (c *Cache) SizeBytes() int64 {
	return c.bytes.Load()
}

// Prune removes the oldest artifacts until the cache is at or below targetBytes.
func (c *Cache) Prune(targetBytes int64) (int64, error) {
	return c.prune(targetBytes, "")
}

func (c *Cache) prune(targetBytes int64, keep string) (int64, error) {
	if targetBytes < 0 {
		targetBytes = 0
	}
	c.pruneMu.Lock()
	defer c.pruneMu.Unlock()

	freed, remaining, err := pruneDir(c.dir, targetBytes, keep)
	if err != nil {
		return 0, err
	}
	c.bytes.Store(remaining)
	if freed > 0 {
		c.log().Info("pruned artifact cache", "freed", freed, "remaining", remaining)
	}
	return freed, nil
}

func (c *Cache) contains(path string) bool {
	rel, err := filepath.Rel(c.dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

type writer struct {
	c      *Cache
	tmp    string
	target string
	done   bool
}

func (w *writer) Path() string {
	return w.tmp
}

func (w *writer) Commit() error {
	if w.done {
		return errors.New("artifact already committed or discarded")
	}
	w.done = true
	info, err := os.Stat(w.tmp)
	if err != nil {
		return fmt.Errorf("stat built artifact: %w", err)
	}
	var replaced int64
	if old, statErr := os.Stat(w.target); statErr == nil {
		replaced = old.Size()
	}
	if err := os.Rename(w.tmp, w.target); err != nil {
		_ = os.Remove(w.tmp)
		return err
	}
	if !w.c.contains(w.target) {
		return nil
	}
	w.c.bytes.Add(info.Size() - replaced)
	if limit := w.c.maxBytes; limit > 0 && w.c.SizeBytes() > limit {
		if _, err := w.c.prune(limit, w.target); err != nil {
			w.c.log().Warn("artifact cache prune failed", "error", err)
		}
	}
	return nil
}

func (w *writer) Discard() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := os.Remove(w.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
