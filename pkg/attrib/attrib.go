// pkg/attrib/attrib.go

// Package attrib collects third-party license texts so downstream binaries
// can embed an attribution notice. Each installed package's source tree is
// scanned for a license file; the collected texts are glued into a single
// C++ header under the install prefix.
package attrib

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// headerTemplate is the generated attribution header; <text> is replaced by
// the joined license texts.
const headerTemplate = `#pragma once

namespace third_party {

inline constexpr const char* attribution = R"(

<text>

)";

}
`

// sourceExtensions are skipped when scanning for license files; headers
// named "license.hpp" and the like are code, not license texts.
var sourceExtensions = []string{".h", ".hpp", ".c", ".cpp", ".cc"}

// Scan looks for a license file in a package's unpacked source tree and
// writes <prefix>/attrib.<name>.txt. A package without a license file is a
// logged warning, never an error.
func Scan(sourceDir, prefix, name string, logger *log.Logger) error {
	licPath := findLicense(sourceDir)
	if licPath == "" {
		if logger != nil {
			logger.Printf("⚠️  Warning: no license file for %s", name)
		}
		return nil
	}

	text, err := os.ReadFile(licPath)
	if err != nil {
		return fmt.Errorf("reading license %s: %w", licPath, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This software may include the package %s.\n", name)
	b.WriteString("This package has the following license:\n")
	b.Write(text)

	out := filepath.Join(prefix, "attrib."+name+".txt")
	if logger != nil {
		logger.Printf("Writing attribution to %s", out)
	}
	return os.WriteFile(out, []byte(b.String()), 0644)
}

// Rebuild glues every attrib.<name>.txt under prefix into
// <prefix>/include/attribution.h.
func Rebuild(prefix string) error {
	paths, err := filepath.Glob(filepath.Join(prefix, "attrib.*.txt"))
	if err != nil {
		return err
	}
	sort.Strings(paths)

	contents := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		contents = append(contents, string(data))
	}

	header := strings.Replace(headerTemplate, "<text>", strings.Join(contents, "\n----\n"), 1)

	includeDir := filepath.Join(prefix, "include")
	if err := os.MkdirAll(includeDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(includeDir, "attribution.h"), []byte(header), 0644)
}

// findLicense returns the shallowest license-looking file under root, or "".
func findLicense(root string) string {
	var best string
	bestDepth := -1

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !looksLikeLicense(d.Name()) {
			return nil
		}
		depth := strings.Count(path, string(filepath.Separator))
		if bestDepth == -1 || depth < bestDepth || (depth == bestDepth && path < best) {
			best, bestDepth = path, depth
		}
		return nil
	})

	return best
}

func looksLikeLicense(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return strings.HasPrefix(lower, "license") ||
		strings.HasPrefix(lower, "licence") ||
		strings.HasPrefix(lower, "copying")
}
