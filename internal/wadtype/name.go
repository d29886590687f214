package wadtype

import "strings"

// NameWidth is the fixed width of a lump name field.
const NameWidth = 8

// Name is a canonical lump name: upper-cased ASCII, at most NameWidth bytes,
// with no trailing padding.
type Name string

// CanonicalName folds s to the canonical lump name form.
//
// The name is cut at the first NUL, upper-cased (ASCII only) and truncated to
// NameWidth bytes.
func CanonicalName(s string) Name {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > NameWidth {
		s = s[:NameWidth]
	}
	var b [NameWidth]byte
	n := copy(b[:], s)
	for i := range n {
		if c := b[i]; c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return Name(b[:n])
}

// NameFromField decodes a NUL-padded fixed-width directory name field.
func NameFromField(field []byte) Name {
	return CanonicalName(string(field))
}

// Field encodes n as a NUL-padded fixed-width directory name field.
func (n Name) Field() [NameWidth]byte {
	var b [NameWidth]byte
	copy(b[:], n)
	return b
}

// String returns the name as a plain string.
func (n Name) String() string {
	return string(n)
}
