package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/internal/hash"
	"github.com/meigma/wad/internal/wadtype"
)

const (
	// HeaderSize is the size of the container header in bytes.
	HeaderSize = 12

	// EntrySize is the size of one directory entry in bytes.
	EntrySize = 16
)

// Recognized container magic values.
var (
	MagicIWAD = [4]byte{'I', 'W', 'A', 'D'}
	MagicPWAD = [4]byte{'P', 'W', 'A', 'D'}
)

// Record is one raw directory entry.
type Record struct {
	Name   wadtype.Name
	Offset int64
	Size   int64
}

// Directory is the parsed directory of one opened container.
//
// File stays open for lazy payload reads; the caller owns it.
type Directory struct {
	Path    string
	Kind    wadtype.Kind
	Magic   [4]byte // zero for single-record containers
	Records []Record
	Digest  digest.Digest
	File    *os.File
	Size    int64
}

// IWAD reports whether the container carries the IWAD magic.
func (d *Directory) IWAD() bool {
	return d.Magic == MagicIWAD
}

// Close closes the underlying file.
func (d *Directory) Close() error {
	if d.File == nil {
		return nil
	}
	return d.File.Close()
}

// Open opens path as a container of the given kind and parses its directory.
//
// Failures to open or read the file wrap wadtype.ErrIO; malformed headers and
// directories wrap wadtype.ErrCorruptHeader.
func Open(path string, kind wadtype.Kind, alg digest.Algorithm) (*Directory, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("open %s: %w", path, wadtype.ErrUnknownKind)
	}
	f, err := os.Open(path) //nolint:gosec // archive paths are caller-provided by design
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, wadtype.ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w: %w", path, wadtype.ErrIO, err)
	}

	d := &Directory{
		Path: path,
		Kind: kind,
		File: f,
		Size: info.Size(),
	}
	if kind.MultiRecord() {
		err = d.readMulti(alg)
	} else {
		err = d.readSingle(alg)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return d, nil
}

func (d *Directory) readMulti(alg digest.Algorithm) error {
	var hdr [HeaderSize]byte
	if _, err := d.File.ReadAt(hdr[:], 0); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: short header", wadtype.ErrCorruptHeader)
		}
		return fmt.Errorf("%w: read header: %w", wadtype.ErrIO, err)
	}
	copy(d.Magic[:], hdr[:4])
	if d.Magic != MagicIWAD && d.Magic != MagicPWAD {
		return fmt.Errorf("%w: bad magic %q", wadtype.ErrCorruptHeader, hdr[:4])
	}

	count := int64(int32(binary.LittleEndian.Uint32(hdr[4:8])))    //nolint:gosec // format field is signed
	dirOffset := int64(int32(binary.LittleEndian.Uint32(hdr[8:]))) //nolint:gosec // format field is signed
	if count < 0 || dirOffset < 0 {
		return fmt.Errorf("%w: negative count or offset", wadtype.ErrCorruptHeader)
	}
	if dirOffset+count*EntrySize > d.Size {
		return fmt.Errorf("%w: directory (%d entries at %d) exceeds file size %d",
			wadtype.ErrCorruptHeader, count, dirOffset, d.Size)
	}

	raw := make([]byte, count*EntrySize)
	if _, err := d.File.ReadAt(raw, dirOffset); err != nil && !(errors.Is(err, io.EOF) && count == 0) {
		return fmt.Errorf("%w: read directory: %w", wadtype.ErrIO, err)
	}

	h := hash.NewDirectory(alg)
	d.Records = make([]Record, 0, count)
	for off := 0; off < len(raw); off += EntrySize {
		entry := raw[off : off+EntrySize]
		h.Add(entry)
		rec := Record{
			Offset: int64(int32(binary.LittleEndian.Uint32(entry[0:4]))), //nolint:gosec // format field is signed
			Size:   int64(int32(binary.LittleEndian.Uint32(entry[4:8]))), //nolint:gosec // format field is signed
			Name:   wadtype.NameFromField(entry[8:16]),
		}
		if rec.Size < 0 || (rec.Size > 0 && (rec.Offset < 0 || rec.Offset+rec.Size > d.Size)) {
			return fmt.Errorf("%w: lump %q extent [%d,+%d) outside file",
				wadtype.ErrCorruptHeader, rec.Name, rec.Offset, rec.Size)
		}
		d.Records = append(d.Records, rec)
	}
	d.Digest = h.Digest()
	return nil
}

func (d *Directory) readSingle(alg digest.Algorithm) error {
	sum, err := hash.FromReader(alg, io.NewSectionReader(d.File, 0, d.Size))
	if err != nil {
		return fmt.Errorf("%w: %w", wadtype.ErrIO, err)
	}
	d.Digest = sum
	d.Records = []Record{{
		Name:   SingleLumpName(d.Path, d.Kind),
		Offset: 0,
		Size:   d.Size,
	}}
	return nil
}

// SingleLumpName returns the lump name a single-record container is exposed as.
func SingleLumpName(path string, kind wadtype.Kind) wadtype.Name {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	switch kind {
	case wadtype.KindDehacked:
		return wadtype.SlotDehacked.LumpName()
	case wadtype.KindScript:
		if n, ok := wadtype.ScriptLumpName(stem, ext); ok {
			return n
		}
	}
	return wadtype.CanonicalName(stem)
}
