package wad

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meigma/wad/internal/format"
)

// LumpData is a named payload written by Create.
// Empty Data writes a zero-length marker lump.
type LumpData = format.Lump

// createConfig holds configuration for container creation.
type createConfig struct {
	iwad    bool
	dirPerm os.FileMode
}

// CreateOption configures container creation.
type CreateOption func(*createConfig)

// CreateWithIWAD writes the IWAD magic instead of PWAD.
func CreateWithIWAD(iwad bool) CreateOption {
	return func(cfg *createConfig) {
		cfg.iwad = iwad
	}
}

// CreateWithDirPerm sets the permissions used when WriteFile creates parent
// directories. Defaults to 0o750.
func CreateWithDirPerm(mode os.FileMode) CreateOption {
	return func(cfg *createConfig) {
		cfg.dirPerm = mode
	}
}

func newCreateConfig(opts []CreateOption) createConfig {
	cfg := createConfig{dirPerm: 0o750}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Create writes a multi-record container holding lumps, in order, to w.
// Names are canonicalized; lumps with the same name are all kept.
func Create(w io.Writer, lumps []LumpData, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	magic := format.MagicPWAD
	if cfg.iwad {
		magic = format.MagicIWAD
	}
	return format.Write(w, magic, lumps)
}

// WriteFile writes a container to path.
//
// Uses an atomic write (temp file + rename) so a failed write never leaves a
// partial container that could later be mistaken for a valid artifact.
// Parent directories are created as needed.
func WriteFile(path string, lumps []LumpData, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	var buf bytes.Buffer
	if err := Create(&buf, lumps, opts...); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), cfg.dirPerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".wad-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
