// internal/cli/env.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/env"
	"github.com/quarrybuild/quarry/pkg/pipeline"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print compiler and linker flags for the install prefix",
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	prefixPath := settings.Prefix
	if prefixPath == "" {
		prefixPath = pipeline.DefaultPrefix
	}

	prefix := env.New(prefixPath)
	flags := prefix.CompilerFlags()

	fmt.Printf("CPPFLAGS=%s\n", strings.Join(flags.IncludeFlags, " "))
	fmt.Printf("LDFLAGS=%s\n", strings.Join(flags.LibraryFlags, " "))
	if bins := prefix.BinPaths(); len(bins) > 0 {
		fmt.Printf("PATH=%s\n", strings.Join(bins, ":"))
	}
	return nil
}
