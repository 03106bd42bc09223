// pkg/manifest/types.go
package manifest

// Type selects the build backend used for a package.
type Type string

const (
	// TypeBoost builds with the package's own bootstrap.sh + b2 (boost-style).
	TypeBoost Type = "boost"
	// TypeCMake builds any package that ships a CMakeLists.txt.
	TypeCMake Type = "cmake"
	// TypeHeader installs a header-only package by copying its include tree.
	TypeHeader Type = "header"
	// TypeConfigMake builds with a classic Configure script + make.
	TypeConfigMake Type = "config/make"
)

// KnownTypes lists every type with a built-in backend.
var KnownTypes = []Type{
	TypeBoost,
	TypeCMake,
	TypeHeader,
	TypeConfigMake,
}

// IsKnown reports whether a type has a built-in backend.
func IsKnown(t Type) bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// PackageSpec is one manifest entry. Manifest order is the authoritative
// build order and must already respect inter-package dependencies; the
// orchestrator never infers or verifies a dependency graph.
type PackageSpec struct {
	Name string // unique identifier, also the install-subdirectory key
	Type Type   // backend selector
	Src  string // source URL; may reference a specific tag or commit

	// Options are backend-specific strings (flags, variable assignments),
	// passed through verbatim and never interpreted here.
	Options []string

	// PlatformOptions maps a platform flag expression (the part after
	// "options+" in the manifest, e.g. "arm64" or "linux+!arm64") to extra
	// options merged in only when the expression matches the active platform.
	PlatformOptions map[string][]string

	Interface string // header type: archive-relative dir to expose as include root
	Target    string // config/make type: make target, defaults to "all"
	Notes     string // documentation only, never interpreted
}

// ResolvedSpec is a PackageSpec after platform-conditional option merging.
// It is immutable once computed and is the unit handed to a backend; its
// fields are also the input to fingerprinting, so Notes is deliberately
// dropped here.
type ResolvedSpec struct {
	Name      string
	Type      Type
	Src       string
	Options   []string
	Interface string
	Target    string
}
