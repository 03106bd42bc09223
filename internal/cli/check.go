// internal/cli/check.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

var checkManifest string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse and validate the manifest without building anything",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkManifest, "manifest", "", "manifest file (default is deps.txt/deps.json/deps.yaml)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	manifestPath, err := findManifest(checkManifest)
	if err != nil {
		return err
	}

	specs, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s: %d packages\n", manifestPath, len(specs))
	for _, spec := range specs {
		fmt.Printf("  %-20s %s\n", spec.Name, spec.Type)
	}
	return nil
}
