// pkg/pipeline/driver.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/quarrybuild/quarry/pkg/attrib"
	"github.com/quarrybuild/quarry/pkg/backend"
	"github.com/quarrybuild/quarry/pkg/fetch"
	"github.com/quarrybuild/quarry/pkg/manifest"
	"github.com/quarrybuild/quarry/pkg/platform"
	"github.com/quarrybuild/quarry/pkg/state"
)

// DefaultPrefix is the install prefix used when none is configured.
const DefaultPrefix = "third_party"

// Config configures a pipeline run.
type Config struct {
	Prefix   string   // install prefix; defaults to DefaultPrefix
	CacheDir string   // archive cache; defaults to a "<prefix>_cache" sibling
	Platform []string // active platform tags; defaults to platform.Tags()
	Jobs     int      // parallel jobs per build-tool invocation
	Force    bool     // rebuild regardless of install records
	Only     string   // restrict the run to a single package

	Logger *log.Logger // optional

	// Fetcher and Registry may be substituted, mainly by tests.
	Fetcher  fetch.Fetcher
	Registry *backend.Registry

	// Env is the environment snapshot handed to build tools; defaults to
	// the ambient process environment. Backends never mutate it, so one
	// package's toolchain selection cannot leak into the next.
	Env []string
}

// Driver processes a manifest strictly in order: fetch, configure, build,
// install, record. Execution is sequential because a later package's build
// may read headers and libraries an earlier package installed into the
// shared prefix.
type Driver struct {
	specs    []manifest.PackageSpec
	cfg      *Config
	fetcher  fetch.Fetcher
	registry *backend.Registry
	tracker  *state.Tracker
	logger   *log.Logger
}

// NewDriver validates nothing (the manifest loader already has) and prepares
// the prefix, install state and fetcher, filling config defaults.
func NewDriver(specs []manifest.PackageSpec, cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Clean(cfg.Prefix) + "_cache"
	}
	if cfg.Platform == nil {
		cfg.Platform = platform.Tags()
	}
	if cfg.Env == nil {
		cfg.Env = os.Environ()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := os.MkdirAll(cfg.Prefix, 0755); err != nil {
		return nil, fmt.Errorf("creating install prefix: %w", err)
	}

	tracker, err := state.NewTracker(cfg.Prefix, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Force {
		logger.Printf("Force requested, dropping all install records")
		if err := tracker.Reset(); err != nil {
			return nil, err
		}
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewSourceFetcher(&fetch.Config{
			CacheDir: cfg.CacheDir,
			Logger:   logger,
		})
	}

	registry := cfg.Registry
	if registry == nil {
		registry = backend.NewRegistry()
	}

	return &Driver{
		specs:    specs,
		cfg:      cfg,
		fetcher:  fetcher,
		registry: registry,
		tracker:  tracker,
		logger:   logger,
	}, nil
}

// Tracker exposes the install state, mainly for status reporting.
func (d *Driver) Tracker() *state.Tracker {
	return d.tracker
}

// Run executes the pipeline. On the first unrecoverable failure the
// remainder of the manifest is abandoned: later entries may assume earlier
// ones are present in the prefix, so best-effort continuation would only
// produce misleading secondary failures. Artifacts of packages already
// installed stay on disk untouched.
func (d *Driver) Run(ctx context.Context) ([]Result, error) {
	specs := d.specs
	if d.cfg.Only != "" {
		specs = nil
		for _, s := range d.specs {
			if s.Name == d.cfg.Only {
				specs = append(specs, s)
			}
		}
		if len(specs) == 0 {
			return nil, fmt.Errorf("package %q not in manifest", d.cfg.Only)
		}
	}

	d.logger.Printf("This platform has flags: %s", platform.String(d.cfg.Platform))

	var results []Result
	for _, spec := range specs {
		resolved := platform.Resolve(spec, d.cfg.Platform)

		if !d.cfg.Force && d.tracker.ShouldSkip(resolved) {
			d.logger.Printf("Package %s is already installed, skipping...", spec.Name)
			results = append(results, Result{Name: spec.Name, Status: StatusSkipped})
			continue
		}

		res := d.buildOne(ctx, resolved)
		results = append(results, res)
		if res.Err != nil {
			return results, res.Err
		}
	}

	if err := attrib.Rebuild(d.cfg.Prefix); err != nil {
		d.logger.Printf("⚠️  Warning: rebuilding attribution header: %v", err)
	}

	return results, nil
}

// buildOne takes a single package through fetch, configure, build and
// install. The package's working directory is removed on both success and
// failure; only the prefix and the install record survive.
func (d *Driver) buildOne(ctx context.Context, resolved manifest.ResolvedSpec) Result {
	d.logger.Printf("Building %s", resolved.Name)

	workDir := filepath.Join(d.cfg.Prefix, resolved.Name)
	srcDir := filepath.Join(workDir, "src")
	buildDir := filepath.Join(workDir, "build")
	logDir := filepath.Join(d.cfg.Prefix, "log", resolved.Name)

	for _, dir := range []string{srcDir, buildDir, logDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return d.failed(resolved, backend.PhaseFetch, err)
		}
	}
	defer os.RemoveAll(workDir)

	logFile, err := os.Create(filepath.Join(logDir, logFileName()))
	if err != nil {
		return d.failed(resolved, backend.PhaseFetch, err)
	}
	defer logFile.Close()

	bctx := &backend.Context{
		Name:          resolved.Name,
		SourceDir:     srcDir,
		BuildDir:      buildDir,
		InstallPrefix: d.cfg.Prefix,
		Env:           d.cfg.Env,
		Jobs:          d.cfg.Jobs,
		Output:        logFile,
		Logger:        d.logger,
	}

	d.logger.Printf("  [%s] fetching", resolved.Name)
	if err := d.fetcher.Fetch(ctx, resolved, srcDir); err != nil {
		// The package's state is unchanged on disk, so no record is
		// written: the next run retries from scratch.
		return Result{Name: resolved.Name, Status: StatusFailed, Phase: backend.PhaseFetch, Err: err}
	}

	be, err := d.registry.New(resolved.Type)
	if err != nil {
		return d.failed(resolved, backend.PhaseConfigure, err)
	}

	phases := []struct {
		phase backend.Phase
		fn    func(context.Context, *backend.Context, manifest.ResolvedSpec) error
	}{
		{backend.PhaseConfigure, be.Configure},
		{backend.PhaseBuild, be.Build},
		{backend.PhaseInstall, be.Install},
	}
	for _, p := range phases {
		d.logger.Printf("  [%s] %s", resolved.Name, p.phase)
		if err := p.fn(ctx, bctx, resolved); err != nil {
			return d.failed(resolved, p.phase, err)
		}
	}

	if err := attrib.Scan(srcDir, d.cfg.Prefix, resolved.Name, d.logger); err != nil {
		d.logger.Printf("⚠️  Warning: attribution for %s: %v", resolved.Name, err)
	}

	if err := d.tracker.RecordSuccess(resolved, installPath(d.cfg.Prefix, resolved)); err != nil {
		return d.failed(resolved, backend.PhaseInstall, err)
	}

	d.logger.Printf("✓ Installed %s", resolved.Name)
	return Result{Name: resolved.Name, Status: StatusInstalled}
}

// failed records the failure and builds the terminal result. The recorded
// fingerprint keeps the failure visible in `quarry list` while never
// matching a skip check.
func (d *Driver) failed(resolved manifest.ResolvedSpec, phase backend.Phase, err error) Result {
	var be *backend.BuildError
	if errors.As(err, &be) {
		phase = be.Phase
	}
	if rerr := d.tracker.RecordFailure(resolved); rerr != nil {
		d.logger.Printf("⚠️  Warning: recording failure for %s: %v", resolved.Name, rerr)
	}
	return Result{Name: resolved.Name, Status: StatusFailed, Phase: phase, Err: err}
}

// installPath is where a package's artifacts primarily land.
func installPath(prefix string, resolved manifest.ResolvedSpec) string {
	if resolved.Type == manifest.TypeHeader {
		return filepath.Join(prefix, "include", resolved.Name)
	}
	return prefix
}

func logFileName() string {
	return "build_" + time.Now().Format("02-01-2006_15-04-05") + ".txt"
}
