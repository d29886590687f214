// Package cache locates and stores derived companion artifacts.
//
// A derived artifact (a node index or a converted patch container) is keyed
// by the content digest of its source archive. Two candidate locations are
// considered: next to the source file, and inside a central cache directory
// where the file name carries a digest prefix so artifacts of different
// revisions of the same source never collide.
package cache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/internal/hash"
)

// Candidate is the resolved location of a derived artifact.
type Candidate struct {
	// Path is where the artifact lives, or where it must be built.
	Path string

	// Valid is true when Path exists and does not predate its source.
	Valid bool

	// Local is true when Path is the copy beside the source file.
	Local bool
}

// Cache stores derived artifacts.
//
// Implementations should handle their own size limits and eviction policies.
type Cache interface {
	// Resolve returns the preferred artifact location for source.
	// It never fails; an unusable cache simply reports Valid false.
	Resolve(source string, d digest.Digest, ext string) Candidate

	// Writer reserves a temporary file for building the artifact at target.
	Writer(target string) (Writer, error)

	// MaxBytes returns the configured cache size limit (0 = unlimited).
	MaxBytes() int64

	// SizeBytes returns the current cache size in bytes.
	SizeBytes() int64

	// Prune removes artifacts until the cache is at or below targetBytes.
	// Returns the number of bytes freed.
	Prune(targetBytes int64) (int64, error)
}

// Writer is a pending artifact.
//
// An external builder writes to Path. After it succeeds:
//   - Call Commit to atomically move the file to its target
//   - Call Discard if the builder failed
type Writer interface {
	// Path is the temporary file the builder must write.
	Path() string

	// Commit finalizes the artifact, making it visible at its target.
	Commit() error

	// Discard removes the temporary file.
	Discard() error
}

// BaseName returns the file name of source without its extension.
func BaseName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LocalPath returns the artifact path beside source: <dir>/<base>.<ext>.
func LocalPath(source, ext string) string {
	return filepath.Join(filepath.Dir(source), BaseName(source)+"."+ext)
}

// CentralName returns the artifact file name used inside a cache directory:
// <base>-<hex of the first six digest bytes>.<ext>.
func CentralName(source string, d digest.Digest, ext string) string {
	return BaseName(source) + "-" + hash.Prefix(d) + "." + ext
}

// Resolve picks between the local and the central candidate.
//
// A candidate is valid when it exists and its modification time is not older
// than the source's. A valid local candidate wins over a valid central one;
// when neither is valid the central path is returned as the build target.
func Resolve(dir, source string, d digest.Digest, ext string) Candidate {
	srcInfo, srcErr := os.Stat(source)
	valid := func(path string) bool {
		if srcErr != nil {
			return false
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
		return !srcInfo.ModTime().After(info.ModTime())
	}

	local := LocalPath(source, ext)
	if valid(local) {
		return Candidate{Path: local, Valid: true, Local: true}
	}
	central := filepath.Join(dir, CentralName(source, d, ext))
	return Candidate{Path: central, Valid: valid(central)}
}
