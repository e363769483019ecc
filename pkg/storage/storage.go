// Package storage holds the bytes of uploaded videos. Rows in the videos table
// point at locations returned by a Backend.
package storage

import (
	"io"
	"path/filepath"
	"strings"
)

type Backend interface {
	// Save writes r under a location derived from name and returns that
	// location. Saving the same name twice overwrites the first object.
	Save(name string, r io.Reader) (string, error)
	// Size reports the size in bytes of the object stored at location.
	Size(location string) (int64, error)
	// Remove deletes the object at location. A missing object is not an error.
	Remove(location string) error
}

// baseName strips any directory components from an uploaded file name so a
// name like "../../etc/passwd" cannot escape the storage root.
func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return name
}
