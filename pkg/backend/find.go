// pkg/backend/find.go
package backend

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FindShortest returns the shallowest path under root whose base name equals
// name case-insensitively. Build trees often vendor copies of their own
// build files; the shallowest match is the project's real one.
func FindShortest(root, name string) (string, error) {
	want := strings.ToLower(name)

	var best string
	bestDepth := -1

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), want) {
			return nil
		}
		depth := strings.Count(path, string(filepath.Separator))
		if bestDepth == -1 || depth < bestDepth || (depth == bestDepth && path < best) {
			best, bestDepth = path, depth
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no %s found under %s", name, root)
	}
	return best, nil
}
