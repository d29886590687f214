package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/meigma/wad/internal/wadtype"
)

// ErrTooLarge is returned when a container would exceed the format's 31-bit offsets.
var ErrTooLarge = errors.New("wad: container too large")

// Lump is a named payload to be written into a container.
// A nil or empty Data writes a zero-length marker.
type Lump struct {
	Name string
	Data []byte
}

// Write writes a multi-record container to w.
//
// Payloads follow the header in the given order and the directory is written
// last, matching the layout produced by common tools.
func Write(w io.Writer, magic [4]byte, lumps []Lump) error {
	if magic != MagicIWAD && magic != MagicPWAD {
		return fmt.Errorf("%w: bad magic %q", wadtype.ErrCorruptHeader, magic[:])
	}

	offset := int64(HeaderSize)
	dir := make([]byte, 0, len(lumps)*EntrySize)
	for _, l := range lumps {
		size := int64(len(l.Data))
		if offset+size > math.MaxInt32 {
			return ErrTooLarge
		}
		var entry [EntrySize]byte
		binary.LittleEndian.PutUint32(entry[0:4], uint32(offset)) //nolint:gosec // bounded above
		binary.LittleEndian.PutUint32(entry[4:8], uint32(size))   //nolint:gosec // bounded above
		field := wadtype.CanonicalName(l.Name).Field()
		copy(entry[8:], field[:])
		dir = append(dir, entry[:]...)
		offset += size
	}
	if offset+int64(len(dir)) > math.MaxInt32 {
		return ErrTooLarge
	}

	var hdr [HeaderSize]byte
	copy(hdr[:4], magic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(lumps))) //nolint:gosec // bounded by offset check
	binary.LittleEndian.PutUint32(hdr[8:], uint32(offset))      //nolint:gosec // bounded above
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for _, l := range lumps {
		if len(l.Data) == 0 {
			continue
		}
		if _, err := w.Write(l.Data); err != nil {
			return err
		}
	}
	_, err := w.Write(dir)
	return err
}
