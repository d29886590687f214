// Package wadtype holds the closed enumerations and name rules shared by the
// reader, classifier, index and the public wad package.
package wadtype
