// pkg/backend/boost.go
package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// boostBackend drives boost-style packages: the project's own bootstrap.sh
// once, then b2 with the manifest options. b2 stages headers and libs into
// the prefix itself, so Build is a no-op and Install does the staging.
type boostBackend struct {
	scriptDir string // directory of the discovered bootstrap.sh
}

func (b *boostBackend) Name() string {
	return string(manifest.TypeBoost)
}

func (b *boostBackend) Configure(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	script, err := FindShortest(bctx.SourceDir, "bootstrap.sh")
	if err != nil {
		return phaseErr(bctx, PhaseConfigure, err)
	}
	b.scriptDir = filepath.Dir(script)
	bctx.logf("Found bootstrap script at %s", script)

	return Run(ctx, bctx, PhaseConfigure, b.scriptDir, "sh", "./bootstrap.sh")
}

func (b *boostBackend) Build(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	// b2 compiles and stages in one pass during Install.
	return nil
}

func (b *boostBackend) Install(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	if b.scriptDir == "" {
		return phaseErr(bctx, PhaseInstall, fmt.Errorf("install before configure"))
	}

	args := make([]string, 0, len(spec.Options)+2)
	args = append(args, spec.Options...)
	args = append(args, "--prefix="+bctx.InstallPrefix, "install")

	return Run(ctx, bctx, PhaseInstall, b.scriptDir, "./b2", args...)
}
