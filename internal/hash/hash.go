// Package hash computes the content digests that key derived artifacts.
//
// Multi-record containers are keyed by a digest of their raw directory
// entries only, which keeps cache-key computation cheap for large archives.
// Single-record containers are keyed by a digest of the whole file.
package hash

import (
	_ "crypto/sha256" // register SHA-256 for digest.SHA256
	_ "crypto/sha512" // register SHA-384/512 for the other algorithms
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
)

// PrefixBytes is the number of leading digest bytes used in cache file names.
const PrefixBytes = 6

// Default is the algorithm used when none is configured.
const Default = digest.SHA256

// Sum returns the digest of data.
func Sum(alg digest.Algorithm, data []byte) digest.Digest {
	return algorithm(alg).FromBytes(data)
}

// FromReader digests everything read from r.
func FromReader(alg digest.Algorithm, r io.Reader) (digest.Digest, error) {
	d, err := algorithm(alg).FromReader(r)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return d, nil
}

// Directory digests a sequence of fixed-size directory entries incrementally.
type Directory struct {
	digester digest.Digester
	entries  int
}

// NewDirectory returns an empty directory hasher.
func NewDirectory(alg digest.Algorithm) *Directory {
	return &Directory{digester: algorithm(alg).Digester()}
}

// Add feeds one raw directory entry to the hash.
func (d *Directory) Add(entry []byte) {
	_, _ = d.digester.Hash().Write(entry) //nolint:errcheck // hash writes never fail
	d.entries++
}

// Entries returns the number of entries hashed so far.
func (d *Directory) Entries() int {
	return d.entries
}

// Digest returns the digest of all entries added so far.
func (d *Directory) Digest() digest.Digest {
	return d.digester.Digest()
}

// Prefix returns the lower-case hex of the first PrefixBytes bytes of d.
func Prefix(d digest.Digest) string {
	enc := d.Encoded()
	if len(enc) > 2*PrefixBytes {
		enc = enc[:2*PrefixBytes]
	}
	return enc
}

func algorithm(alg digest.Algorithm) digest.Algorithm {
	if alg == "" || !alg.Available() {
		return Default
	}
	return alg
}
