// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry"
	"github.com/quarrybuild/quarry/pkg/pipeline"
)

var (
	installManifest string
	installPackage  string
	installJobs     int
	installForce    bool
	installPurge    bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Fetch, build and install every package in the manifest",
	Long: `Process the manifest strictly in order: fetch each package's source,
build it with its backend and install the artifacts into the prefix.
Packages whose manifest entry is unchanged since their last successful
install are skipped.

Examples:
  quarry install
  quarry install --manifest deps.json --prefix build/third_party
  quarry install --package zlib --force`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installManifest, "manifest", "", "manifest file (default is deps.txt/deps.json/deps.yaml)")
	installCmd.Flags().StringVar(&installPackage, "package", "", "build only a specific package")
	installCmd.Flags().IntVar(&installJobs, "jobs", 0, "parallel jobs per build (default is the CPU count)")
	installCmd.Flags().BoolVar(&installForce, "force", false, "reinstall packages regardless of their installed status")
	installCmd.Flags().BoolVar(&installPurge, "purge", false, "remove the install prefix before any other action")
}

func runInstall(cmd *cobra.Command, args []string) error {
	manifestPath, err := findManifest(installManifest)
	if err != nil {
		return err
	}
	prefix := resolvePrefix(manifestPath)

	if installPurge {
		fmt.Printf("Purging %s\n", prefix)
		if err := os.RemoveAll(prefix); err != nil {
			return fmt.Errorf("purging prefix: %w", err)
		}
	}

	jobs := installJobs
	if jobs == 0 {
		jobs = settings.Jobs
	}

	cfg := &pipeline.Config{
		Prefix:   prefix,
		CacheDir: settings.CacheDir,
		Jobs:     jobs,
		Force:    installForce,
		Only:     installPackage,
		Logger:   log.New(os.Stdout, "", 0),
	}

	fmt.Printf("Manifest: %s\n", manifestPath)
	fmt.Printf("Prefix:   %s\n", prefix)

	results, err := quarry.Install(context.Background(), manifestPath, cfg)

	if len(results) > 0 {
		fmt.Println()
		for _, res := range results {
			fmt.Println(res)
		}
	}

	if err != nil {
		if phase := quarry.FailedPhase(err); phase != "" {
			fmt.Fprintf(os.Stderr, "✗ Build stopped at the %s phase; earlier installs remain usable\n", phase)
		}
		return err
	}

	fmt.Println("\n✓ All packages up to date")
	return nil
}
