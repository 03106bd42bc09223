// quarry.go

// Package quarry orchestrates third-party native dependency builds: it
// consumes an ordered manifest of packages, fetches each package's source,
// builds it with the backend matching its type and installs the artifacts
// into a shared prefix for a downstream build to link against.
package quarry

import (
	"context"

	"github.com/quarrybuild/quarry/pkg/backend"
	"github.com/quarrybuild/quarry/pkg/manifest"
	"github.com/quarrybuild/quarry/pkg/pipeline"
	"github.com/quarrybuild/quarry/pkg/state"
)

// Re-export the manifest and pipeline types external tools need.
type (
	PackageSpec  = manifest.PackageSpec
	ResolvedSpec = manifest.ResolvedSpec
	Type         = manifest.Type
	Record       = state.Record
	Result       = pipeline.Result
	Config       = pipeline.Config
	BuildError   = backend.BuildError
)

// Re-export the built-in backend types.
const (
	TypeBoost      = manifest.TypeBoost
	TypeCMake      = manifest.TypeCMake
	TypeHeader     = manifest.TypeHeader
	TypeConfigMake = manifest.TypeConfigMake
)

// Install loads and validates a manifest, then runs the full pipeline
// against it. The returned results cover every package reached before the
// run ended.
func Install(ctx context.Context, manifestPath string, cfg *pipeline.Config) ([]pipeline.Result, error) {
	specs, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	driver, err := pipeline.NewDriver(specs, cfg)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx)
}
