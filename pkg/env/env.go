// pkg/env/env.go
package env

import (
	"os"
	"path/filepath"
)

// layoutDirs are the prefix subdirectories a build backend may populate.
var (
	includeDirs = []string{"include"}
	libraryDirs = []string{"lib", "lib64"}
	binaryDirs  = []string{"bin"}
)

// Prefix inspects a quarry install prefix.
type Prefix struct {
	root string
}

// New creates a Prefix for root. The directory does not need to exist yet;
// missing subtrees simply produce empty results.
func New(root string) *Prefix {
	return &Prefix{root: root}
}

// Root returns the prefix root directory.
func (p *Prefix) Root() string {
	return p.root
}

// IncludePaths returns the existing include directories under the prefix.
func (p *Prefix) IncludePaths() []string {
	return p.existing(includeDirs)
}

// LibraryPaths returns the existing library directories under the prefix.
func (p *Prefix) LibraryPaths() []string {
	return p.existing(libraryDirs)
}

// BinPaths returns the existing binary directories under the prefix.
func (p *Prefix) BinPaths() []string {
	return p.existing(binaryDirs)
}

// CompilerFlags holds the flags needed to compile and link against the
// prefix.
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
}

// CompilerFlags derives -I/-L flags from the prefix layout.
func (p *Prefix) CompilerFlags() CompilerFlags {
	var flags CompilerFlags
	for _, dir := range p.IncludePaths() {
		flags.IncludeFlags = append(flags.IncludeFlags, "-I"+dir)
	}
	for _, dir := range p.LibraryPaths() {
		flags.LibraryFlags = append(flags.LibraryFlags, "-L"+dir)
	}
	return flags
}

func (p *Prefix) existing(subdirs []string) []string {
	var out []string
	for _, sub := range subdirs {
		dir := filepath.Join(p.root, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}
