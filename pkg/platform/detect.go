// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// machineAliases maps Go architecture names to the uname-style spellings
// manifests commonly use, so "options+x86_64" matches on GOARCH=amd64 and
// vice versa.
var machineAliases = map[string][]string{
	"amd64": {"x86_64"},
	"arm64": {"aarch64"},
	"386":   {"i386", "i686"},
	"arm":   {"armv7l"},
}

// Tags returns the active platform flag set: the OS name, the architecture
// and its common aliases. The result is sorted and duplicate-free.
func Tags() []string {
	return tagsFor(runtime.GOOS, runtime.GOARCH)
}

func tagsFor(goos, goarch string) []string {
	set := map[string]bool{
		goos:   true,
		goarch: true,
	}
	for _, alias := range machineAliases[goarch] {
		set[alias] = true
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// String renders a tag set the way the CLI reports it.
func String(tags []string) string {
	return fmt.Sprintf("[%s]", strings.Join(tags, ","))
}
