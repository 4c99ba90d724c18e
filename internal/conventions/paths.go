package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default opsq data directory name (relative to home).
	DefaultDataDir = ".opsq"
	// SeedFile is the filename of the seed tasks dataset.
	SeedFile = "seed.yaml"
	// DefaultActiveUser is the identity of the individual scope when none is set.
	DefaultActiveUser = "You"
)

// SeedPath returns the seed tasks file path of a home directory.
func SeedPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir, SeedFile)
}
