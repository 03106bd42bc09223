// pkg/platform/resolver.go
package platform

import (
	"sort"
	"strings"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// Match evaluates a platform flag expression against the active tag set.
// The expression is "+"-separated flags; a "!" prefix negates a flag. Every
// positive flag must be present and no negated flag may be, so
// "linux+!arm64" matches x86_64 Linux but not ARM Linux.
func Match(expr string, tags []string) bool {
	have := make(map[string]bool, len(tags))
	for _, t := range tags {
		have[t] = true
	}

	for _, flag := range strings.Split(expr, "+") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		if negated := strings.TrimPrefix(flag, "!"); negated != flag {
			if have[negated] {
				return false
			}
			continue
		}
		if !have[flag] {
			return false
		}
	}
	return true
}

// Resolve merges a package's platform-conditional options into its base
// options. Base options come first, then every matching platform group in
// sorted key order. Nothing is deduplicated: if the same flag appears in
// both base and override, both are passed through and last-wins behavior is
// the underlying tool's concern.
//
// The merge is pure and deterministic: the same (spec, tags) pair always
// yields an identical ResolvedSpec, which is what fingerprinting relies on.
func Resolve(spec manifest.PackageSpec, tags []string) manifest.ResolvedSpec {
	opts := make([]string, 0, len(spec.Options))
	opts = append(opts, spec.Options...)

	exprs := make([]string, 0, len(spec.PlatformOptions))
	for expr := range spec.PlatformOptions {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	for _, expr := range exprs {
		if Match(expr, tags) {
			opts = append(opts, spec.PlatformOptions[expr]...)
		}
	}

	return manifest.ResolvedSpec{
		Name:      spec.Name,
		Type:      spec.Type,
		Src:       spec.Src,
		Options:   opts,
		Interface: spec.Interface,
		Target:    spec.Target,
	}
}
