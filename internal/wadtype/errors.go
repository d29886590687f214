package wadtype

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrIO is returned when an archive file is missing or unreadable.
	ErrIO = errors.New("wad: i/o failure")

	// ErrCorruptHeader is returned when a container header or directory is malformed.
	ErrCorruptHeader = errors.New("wad: corrupt header")

	// ErrBuilderFailure is returned when the index builder reports failure.
	ErrBuilderFailure = errors.New("wad: index builder failed")

	// ErrConverterFailure is returned when the format converter reports failure.
	ErrConverterFailure = errors.New("wad: format converter failed")

	// ErrNotFound is returned when a lump or archive does not exist.
	ErrNotFound = errors.New("wad: not found")

	// ErrInvalidLump is returned when a lump's extent falls outside its archive.
	ErrInvalidLump = errors.New("wad: invalid lump")

	// ErrUnknownKind is returned for an unrecognized container kind.
	ErrUnknownKind = errors.New("wad: unknown container kind")
)
