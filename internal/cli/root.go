// internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry"
)

var (
	cfgFile   string
	prefixDir string
	debug     bool
	settings  *quarry.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Third-party native dependency builder",
	Long: `quarry - third-party native dependency builder

Consumes an ordered manifest of native-code dependencies, fetches each
package's source, builds it with the matching backend (cmake, boost,
config/make, header) and installs everything into a shared prefix your
build can link against.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/quarry/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&prefixDir, "prefix", "", "install prefix directory (default is third_party beside the manifest)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(versionCmd)
}

func initSettings() {
	var err error
	settings, err = quarry.LoadSettings(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		settings = quarry.DefaultSettings()
	}

	if prefixDir != "" {
		settings.Prefix = prefixDir
	}
	if debug {
		settings.Debug = true
	}
}

// manifestCandidates are tried in order when no --manifest flag is given,
// mirroring the manifest formats the loader understands.
var manifestCandidates = []string{"deps.txt", "deps.json", "deps.yaml"}

// findManifest resolves the manifest path from the flag or the candidates
// in the current directory.
func findManifest(flagValue string) (string, error) {
	if flagValue != "" {
		if _, err := os.Stat(flagValue); err != nil {
			return "", fmt.Errorf("manifest %s: %w", flagValue, err)
		}
		return flagValue, nil
	}
	for _, candidate := range manifestCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no manifest found (looked for %v)", manifestCandidates)
}

// resolvePrefix picks the install prefix: flag/config first, otherwise a
// third_party directory beside the manifest.
func resolvePrefix(manifestPath string) string {
	if settings.Prefix != "" {
		return settings.Prefix
	}
	return filepath.Join(filepath.Dir(manifestPath), "third_party")
}
