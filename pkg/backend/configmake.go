// pkg/backend/configmake.go
package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// defaultMakeTarget is built when the manifest names no target.
const defaultMakeTarget = "all"

// configMakeBackend drives classic Configure-script packages: run the script
// with the prefix and manifest options, make the target, make install.
type configMakeBackend struct {
	script    string // base name, "configure" or "Configure"
	scriptDir string
}

func (b *configMakeBackend) Name() string {
	return string(manifest.TypeConfigMake)
}

func (b *configMakeBackend) Configure(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	script, err := FindShortest(bctx.SourceDir, "configure")
	if err != nil {
		return phaseErr(bctx, PhaseConfigure,
			fmt.Errorf("no configure script found under %s", bctx.SourceDir))
	}
	b.script = filepath.Base(script)
	b.scriptDir = filepath.Dir(script)
	bctx.logf("Using config script %s", script)

	args := make([]string, 0, len(spec.Options)+1)
	args = append(args, "--prefix="+bctx.InstallPrefix)
	args = append(args, spec.Options...)

	return Run(ctx, bctx, PhaseConfigure, b.scriptDir, "./"+b.script, args...)
}

func (b *configMakeBackend) Build(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	if b.scriptDir == "" {
		return phaseErr(bctx, PhaseBuild, fmt.Errorf("build before configure"))
	}

	target := spec.Target
	if target == "" {
		target = defaultMakeTarget
	}

	return Run(ctx, bctx, PhaseBuild, b.scriptDir, "make",
		"-j"+strconv.Itoa(bctx.JobCount()), target)
}

func (b *configMakeBackend) Install(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	if b.scriptDir == "" {
		return phaseErr(bctx, PhaseInstall, fmt.Errorf("install before configure"))
	}
	return Run(ctx, bctx, PhaseInstall, b.scriptDir, "make", "install")
}
