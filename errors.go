package wad

import "github.com/meigma/wad/internal/wadtype"

// Errors re-exported from internal/wadtype.
var (
	// ErrIO is returned when an archive file is missing or unreadable.
	ErrIO = wadtype.ErrIO

	// ErrCorruptHeader is returned when a container header or directory is malformed.
	ErrCorruptHeader = wadtype.ErrCorruptHeader

	// ErrBuilderFailure is returned when the index builder fails.
	ErrBuilderFailure = wadtype.ErrBuilderFailure

	// ErrConverterFailure is returned when the format converter fails.
	ErrConverterFailure = wadtype.ErrConverterFailure

	// ErrNotFound is returned when a lump or archive does not exist.
	ErrNotFound = wadtype.ErrNotFound

	// ErrInvalidLump is returned when a lump's extent cannot be read.
	ErrInvalidLump = wadtype.ErrInvalidLump

	// ErrUnknownKind is returned for an unrecognized container kind.
	ErrUnknownKind = wadtype.ErrUnknownKind
)
