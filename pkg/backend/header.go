// pkg/backend/header.go
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// headerBackend installs header-only packages. There is nothing to configure
// or compile; install copies the manifest entry's interface directory out of the
// source tree into <prefix>/include/<name>.
type headerBackend struct{}

func (b *headerBackend) Name() string {
	return string(manifest.TypeHeader)
}

func (b *headerBackend) Configure(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	return nil
}

func (b *headerBackend) Build(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	return nil
}

func (b *headerBackend) Install(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	src := filepath.Join(bctx.SourceDir, filepath.FromSlash(spec.Interface))
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return phaseErr(bctx, PhaseInstall,
			fmt.Errorf("interface directory %q not found in source tree", spec.Interface))
	}

	dest := filepath.Join(bctx.InstallPrefix, "include", bctx.Name)
	bctx.logf("Copying %s to %s", src, dest)

	// Replace any previous copy wholesale so removed headers disappear.
	if err := os.RemoveAll(dest); err != nil {
		return phaseErr(bctx, PhaseInstall, err)
	}
	if err := copyDir(src, dest); err != nil {
		return phaseErr(bctx, PhaseInstall, err)
	}
	return nil
}
