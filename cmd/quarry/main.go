// cmd/quarry/main.go
package main

import (
	"os"

	"github.com/quarrybuild/quarry"
	"github.com/quarrybuild/quarry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Manifest problems and build problems get distinct exit codes
		// so callers can tell a bad deps file from a broken build.
		if quarry.IsManifestError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
