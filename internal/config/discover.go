package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the configuration file both binaries look for.
const DefaultFileName = "dart-portal.toml"

// SearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD and Docker fallbacks after.
// Paths are deduplicated via filepath.Abs.
func SearchPaths() []string {
	candidates := []string{
		DefaultFileName,
		filepath.Join("config", DefaultFileName),
		filepath.Join("docker", DefaultFileName),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, DefaultFileName),
		filepath.Join(binDir, "config", DefaultFileName),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// Discover returns explicit if it is non-empty, otherwise the first existing
// file from SearchPaths. No match yields nil and defaults apply.
func Discover(explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return []string{path}
		}
	}
	return nil
}
