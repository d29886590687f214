// Package classify assigns roles to the raw directory records of one archive.
//
// Records are processed in file order: marker positions are the only signal
// for run membership, and level detection looks ahead at the names that
// follow each record.
package classify
