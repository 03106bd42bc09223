// pkg/backend/exec.go
package backend

import (
	"context"
	"io"
	"os/exec"
	"strings"
)

// outputTailSize bounds how much tool output a BuildError carries.
const outputTailSize = 32 * 1024

// Run executes one build-tool invocation as a structured argument list (no
// shell), with dir as working directory and the context's environment
// snapshot. Combined stdout/stderr goes to the package log; on failure the
// bounded tail is attached to the returned BuildError.
func Run(ctx context.Context, bctx *Context, phase Phase, dir, bin string, args ...string) error {
	bctx.logf("Running %s %s", bin, strings.Join(args, " "))

	tail := newTailBuffer(outputTailSize)
	var sink io.Writer = tail
	if bctx.Output != nil {
		sink = io.MultiWriter(bctx.Output, tail)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = bctx.Env
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		return &BuildError{
			Package: bctx.Name,
			Phase:   phase,
			Output:  tail.String(),
			Err:     err,
		}
	}
	return nil
}

// tailBuffer keeps the last n bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
