// pkg/backend/registry.go
package backend

import (
	"sort"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// Registry maps manifest types to backend constructors. A fresh backend is
// created per package so backends may keep small per-build state (like a
// discovered CMakeLists.txt location).
type Registry struct {
	ctors map[manifest.Type]func() Backend
}

// NewRegistry returns a registry with every built-in backend registered.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[manifest.Type]func() Backend)}
	r.Register(manifest.TypeBoost, func() Backend { return &boostBackend{} })
	r.Register(manifest.TypeCMake, func() Backend { return &cmakeBackend{} })
	r.Register(manifest.TypeHeader, func() Backend { return &headerBackend{} })
	r.Register(manifest.TypeConfigMake, func() Backend { return &configMakeBackend{} })
	return r
}

// Register adds or replaces the constructor for a type.
func (r *Registry) Register(t manifest.Type, ctor func() Backend) {
	r.ctors[t] = ctor
}

// Known reports whether a type has a registered backend.
func (r *Registry) Known(t manifest.Type) bool {
	_, ok := r.ctors[t]
	return ok
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []manifest.Type {
	types := make([]manifest.Type, 0, len(r.ctors))
	for t := range r.ctors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// New constructs a backend for a type. Unknown types are rejected during
// manifest validation; this error is the dispatch-time backstop.
func (r *Registry) New(t manifest.Type) (Backend, error) {
	ctor, ok := r.ctors[t]
	if !ok {
		return nil, &manifest.UnsupportedTypeError{Type: t}
	}
	return ctor(), nil
}
