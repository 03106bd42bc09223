// pkg/env/library.go
package env

import (
	"os"
	"path/filepath"
	"runtime"
)

// Library is a library file found under the prefix.
type Library struct {
	Name     string // library name (e.g. "ssl")
	Path     string // absolute path to the file
	Type     string // extension: ".a", ".so", ".dylib", ".dll"
	IsStatic bool
}

// libraryExtensions returns the candidate extensions for this OS, static
// last so shared libraries win when both exist.
func libraryExtensions() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{".dylib", ".a"}
	case "windows":
		return []string{".dll", ".lib", ".a"}
	default:
		return []string{".so", ".a"}
	}
}

// FindLibrary locates lib<name>.<ext> (or a versioned variant like
// libssl.so.3) in the prefix's library directories.
func (p *Prefix) FindLibrary(name string) *Library {
	for _, dir := range p.LibraryPaths() {
		for _, ext := range libraryExtensions() {
			filename := "lib" + name + ext

			full := filepath.Join(dir, filename)
			if _, err := os.Stat(full); err == nil {
				return &Library{
					Name:     name,
					Path:     full,
					Type:     ext,
					IsStatic: ext == ".a" || ext == ".lib",
				}
			}

			matches, _ := filepath.Glob(full + ".*")
			if len(matches) > 0 {
				return &Library{
					Name:     name,
					Path:     matches[0],
					Type:     ext,
					IsStatic: ext == ".a" || ext == ".lib",
				}
			}
		}
	}
	return nil
}
