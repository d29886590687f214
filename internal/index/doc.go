// Package index provides the sorted name index over all lumps in a directory.
package index
