// pkg/pipeline/status.go
package pipeline

import (
	"fmt"

	"github.com/quarrybuild/quarry/pkg/backend"
)

// Status is a package's terminal pipeline state.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Result records how one manifest entry ended.
type Result struct {
	Name   string
	Status Status
	Phase  backend.Phase // the failing phase when Status is StatusFailed
	Err    error
}

// String renders a result the way the CLI reports it.
func (r Result) String() string {
	switch r.Status {
	case StatusFailed:
		return fmt.Sprintf("✗ %s (%s phase)", r.Name, r.Phase)
	case StatusSkipped:
		return fmt.Sprintf("- %s (up to date)", r.Name)
	default:
		return fmt.Sprintf("✓ %s", r.Name)
	}
}
