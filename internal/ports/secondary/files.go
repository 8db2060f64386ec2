package secondary

// LocalFiles defines the secondary port for the local working directories the
// pipeline moves artifacts through.
type LocalFiles interface {
	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// EnsureDir creates a directory and its parents if missing.
	EnsureDir(path string) error

	// Move relocates a file, creating the destination directory as needed.
	Move(src, dst string) error

	// Remove deletes a file. Removing a missing file is not an error.
	Remove(path string) error
}
