// Package format reads and writes the on-disk container formats.
//
// A multi-record container has the following layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Magic: "IWAD" or "PWAD"
//	0x04    4     Entry count (int32)
//	0x08    4     Directory offset (int32)
//
// The directory is a packed array of 16-byte entries:
//
//	0x00    4     Payload offset (int32)
//	0x04    4     Payload size (int32)
//	0x08    8     Name, NUL-padded
//
// Single-record containers are bare files exposed as one lump.
package format
