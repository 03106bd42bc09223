// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/pipeline"
	"github.com/quarrybuild/quarry/pkg/state"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List install records in the prefix",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := settings.Prefix
	if prefix == "" {
		prefix = pipeline.DefaultPrefix
	}

	tracker, err := state.NewTracker(prefix, nil)
	if err != nil {
		return err
	}

	records := tracker.Records()
	if len(records) == 0 {
		fmt.Printf("No packages installed under %s\n", prefix)
		return nil
	}

	fmt.Printf("%-20s %-10s %-19s %s\n", "NAME", "STATUS", "BUILT", "FINGERPRINT")
	for _, rec := range records {
		fmt.Printf("%-20s %-10s %-19s %s\n",
			rec.Name, rec.Status, rec.BuiltAt.Local().Format("2006-01-02 15:04:05"), rec.Fingerprint)
	}
	return nil
}
