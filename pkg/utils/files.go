// Package utils maps basenames to the file artifacts the assembler
// reads and writes.
package utils

import "os"

const (
	SourceExt   = ".as"
	ExpandedExt = ".am"
	ObjectExt   = ".ob"
	EntryExt    = ".ent"
	ExternExt   = ".ext"
)

// ArtifactPath joins a basename with one of the artifact extensions.
func ArtifactPath(basename, ext string) string {
	return basename + ext
}

// RemoveOutputs deletes the object, entry, and external listings for a
// basename. Best effort; missing files are not an error.
func RemoveOutputs(basename string) {
	os.Remove(ArtifactPath(basename, ObjectExt))
	os.Remove(ArtifactPath(basename, EntryExt))
	os.Remove(ArtifactPath(basename, ExternExt))
}
