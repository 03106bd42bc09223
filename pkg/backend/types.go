// pkg/backend/types.go
package backend

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// Phase identifies one step of a package's build lifecycle.
type Phase string

const (
	PhaseFetch     Phase = "fetch"
	PhaseConfigure Phase = "configure"
	PhaseBuild     Phase = "build"
	PhaseInstall   Phase = "install"
)

// Context carries everything a backend needs to build one package. It is
// threaded explicitly through every phase call so backends never rely on the
// process working directory or mutate global environment.
type Context struct {
	Name          string      // package name
	SourceDir     string      // unpacked source tree
	BuildDir      string      // scratch dir for out-of-tree builds
	InstallPrefix string      // shared prefix receiving headers/libs
	Env           []string    // process environment snapshot for tool invocations
	Jobs          int         // parallel jobs for the underlying tool
	Output        io.Writer   // per-package build log sink (optional)
	Logger        *log.Logger // step logging (optional)
}

// JobCount returns the configured job count, defaulting to the machine's
// CPU count.
func (c *Context) JobCount() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

func (c *Context) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Backend builds one package type through the configure/build/install
// contract. Phases are independently failable; each receives the context and
// the resolved spec rather than keeping them as ambient state.
type Backend interface {
	// Name returns the backend's type tag.
	Name() string

	// Configure prepares the source tree for building.
	Configure(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error

	// Build compiles the package.
	Build(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error

	// Install places artifacts into the install prefix.
	Install(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error
}

// BuildError reports a failed backend phase: a non-zero exit or a missing
// expected artifact. The tail of the tool's output is attached for
// diagnostics rather than swallowed.
type BuildError struct {
	Package string
	Phase   Phase
	Output  string // bounded tail of captured tool output
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("package %s: %s phase failed: %v", e.Package, e.Phase, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// phaseErr wraps an error as a BuildError unless it already is one.
func phaseErr(bctx *Context, phase Phase, err error) error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BuildError); ok {
		return be
	}
	return &BuildError{Package: bctx.Name, Phase: phase, Err: err}
}
