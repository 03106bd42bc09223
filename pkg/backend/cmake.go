// pkg/backend/cmake.go
package backend

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// cmakeBackend builds any package that ships a CMakeLists.txt: a configure
// step with -D defines, a parallel build, then the install target.
type cmakeBackend struct {
	cmakeDir string // directory of the discovered CMakeLists.txt
}

func (b *cmakeBackend) Name() string {
	return string(manifest.TypeCMake)
}

func (b *cmakeBackend) Configure(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	cmakelist, err := FindShortest(bctx.SourceDir, "CMakeLists.txt")
	if err != nil {
		return phaseErr(bctx, PhaseConfigure, err)
	}
	b.cmakeDir = filepath.Dir(cmakelist)
	bctx.logf("Found CMakeLists.txt at %s", cmakelist)

	args := append([]string{"-S", b.cmakeDir, "-B", bctx.BuildDir},
		cmakeDefines(bctx.InstallPrefix, spec.Options)...)

	return Run(ctx, bctx, PhaseConfigure, bctx.SourceDir, "cmake", args...)
}

func (b *cmakeBackend) Build(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	return Run(ctx, bctx, PhaseBuild, bctx.SourceDir, "cmake",
		"--build", bctx.BuildDir, "-j", strconv.Itoa(bctx.JobCount()))
}

func (b *cmakeBackend) Install(ctx context.Context, bctx *Context, spec manifest.ResolvedSpec) error {
	return Run(ctx, bctx, PhaseInstall, bctx.SourceDir, "cmake",
		"--build", bctx.BuildDir, "--target", "install")
}

// cmakeDefines renders the baseline cache entries plus the manifest options
// as -DKEY=VALUE arguments. The baseline pins every lookup path to the
// shared prefix so packages see their predecessors' artifacts.
func cmakeDefines(prefix string, options []string) []string {
	baseline := [][2]string{
		{"CMAKE_INSTALL_PREFIX", prefix},
		{"CMAKE_PREFIX_PATH", prefix},
		{"CMAKE_SYSTEM_PREFIX_PATH", prefix},
		{"CMAKE_POSITION_INDEPENDENT_CODE", "ON"},
		{"CMAKE_FIND_ROOT_PATH", prefix},
		{"CMAKE_BUILD_TYPE", "Release"},
	}

	args := make([]string, 0, len(baseline)+len(options))
	for _, kv := range baseline {
		args = append(args, "-D"+kv[0]+"="+kv[1])
	}
	for _, opt := range options {
		key, value := splitOption(opt)
		if strings.HasPrefix(key, "-") {
			// Pass-through for raw cmake arguments.
			args = append(args, strings.TrimSpace(opt))
			continue
		}
		args = append(args, "-D"+key+"="+value)
	}
	return args
}

// splitOption splits a "KEY VALUE" option string on the first run of
// whitespace. Values may themselves contain spaces.
func splitOption(opt string) (key, value string) {
	opt = strings.TrimSpace(opt)
	idx := strings.IndexAny(opt, " \t")
	if idx < 0 {
		return opt, ""
	}
	return opt[:idx], strings.TrimSpace(opt[idx+1:])
}
