// pkg/pipeline/driver_test.go
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/quarrybuild/quarry/pkg/backend"
	"github.com/quarrybuild/quarry/pkg/fetch"
	"github.com/quarrybuild/quarry/pkg/manifest"
)

// stubFetcher materializes a canned source tree and counts calls.
type stubFetcher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *stubFetcher) Fetch(ctx context.Context, spec manifest.ResolvedSpec, destDir string) error {
	f.mu.Lock()
	f.calls = append(f.calls, spec.Name)
	f.mu.Unlock()

	if err := f.fail[spec.Name]; err != nil {
		return &fetch.Error{Package: spec.Name, Src: spec.Src, Err: err}
	}

	incDir := filepath.Join(destDir, "include")
	if err := os.MkdirAll(incDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(incDir, spec.Name+".h"), []byte("// "+spec.Name), 0644)
}

// stubBackend records the phases it ran and can fail a chosen phase.
type stubBackend struct {
	log  *[]string
	fail map[string]backend.Phase // package -> phase to fail in
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) step(phase backend.Phase, bctx *backend.Context, spec manifest.ResolvedSpec) error {
	*b.log = append(*b.log, spec.Name+":"+string(phase))
	if b.fail[spec.Name] == phase {
		return &backend.BuildError{Package: spec.Name, Phase: phase, Err: errors.New("boom")}
	}
	return nil
}

func (b *stubBackend) Configure(ctx context.Context, bctx *backend.Context, spec manifest.ResolvedSpec) error {
	return b.step(backend.PhaseConfigure, bctx, spec)
}

func (b *stubBackend) Build(ctx context.Context, bctx *backend.Context, spec manifest.ResolvedSpec) error {
	return b.step(backend.PhaseBuild, bctx, spec)
}

func (b *stubBackend) Install(ctx context.Context, bctx *backend.Context, spec manifest.ResolvedSpec) error {
	return b.step(backend.PhaseInstall, bctx, spec)
}

type harness struct {
	prefix   string
	fetcher  *stubFetcher
	phaseLog []string
	specs    []manifest.PackageSpec
}

func newHarness(t *testing.T, specs []manifest.PackageSpec) *harness {
	t.Helper()
	return &harness{
		prefix:  filepath.Join(t.TempDir(), "third_party"),
		fetcher: &stubFetcher{fail: map[string]error{}},
		specs:   specs,
	}
}

func (h *harness) run(t *testing.T, failures map[string]backend.Phase) ([]Result, error) {
	t.Helper()

	registry := backend.NewRegistry()
	stub := func() backend.Backend {
		return &stubBackend{log: &h.phaseLog, fail: failures}
	}
	registry.Register(manifest.TypeCMake, stub)
	registry.Register(manifest.TypeBoost, stub)
	registry.Register(manifest.TypeConfigMake, stub)

	driver, err := NewDriver(h.specs, &Config{
		Prefix:   h.prefix,
		Fetcher:  h.fetcher,
		Registry: registry,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return driver.Run(context.Background())
}

func twoPackages() []manifest.PackageSpec {
	return []manifest.PackageSpec{
		{Name: "zlib", Type: manifest.TypeCMake, Src: "https://example.com/zlib.tar.gz"},
		{Name: "openssl", Type: manifest.TypeConfigMake, Src: "https://example.com/openssl.tar.gz"},
	}
}

func statuses(results []Result) map[string]Status {
	out := make(map[string]Status, len(results))
	for _, r := range results {
		out[r.Name] = r.Status
	}
	return out
}

func TestRunInstallsInOrder(t *testing.T) {
	h := newHarness(t, twoPackages())

	results, err := h.run(t, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := statuses(results)
	if got["zlib"] != StatusInstalled || got["openssl"] != StatusInstalled {
		t.Errorf("statuses = %v", got)
	}
	if len(h.fetcher.calls) != 2 || h.fetcher.calls[0] != "zlib" || h.fetcher.calls[1] != "openssl" {
		t.Errorf("fetch order = %v", h.fetcher.calls)
	}

	want := []string{
		"zlib:configure", "zlib:build", "zlib:install",
		"openssl:configure", "openssl:build", "openssl:install",
	}
	if len(h.phaseLog) != len(want) {
		t.Fatalf("phase log = %v", h.phaseLog)
	}
	for i, p := range want {
		if h.phaseLog[i] != p {
			t.Errorf("phase[%d] = %q, want %q", i, h.phaseLog[i], p)
		}
	}
}

func TestRunSecondRunSkipsEverything(t *testing.T) {
	h := newHarness(t, twoPackages())
	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	h.phaseLog = nil
	results, err := h.run(t, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, r := range results {
		if r.Status != StatusSkipped {
			t.Errorf("%s = %s, want skipped", r.Name, r.Status)
		}
	}
	if len(h.fetcher.calls) != 2 {
		t.Errorf("fetcher called again on an up-to-date run: %v", h.fetcher.calls)
	}
	if len(h.phaseLog) != 0 {
		t.Errorf("backend phases ran on an up-to-date run: %v", h.phaseLog)
	}
}

func TestRunChangedOptionsRebuildOnePackage(t *testing.T) {
	h := newHarness(t, twoPackages())
	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	h.specs[1].Options = []string{"no-shared"}
	h.phaseLog = nil

	results, err := h.run(t, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	got := statuses(results)
	if got["zlib"] != StatusSkipped {
		t.Errorf("zlib = %s, want skipped", got["zlib"])
	}
	if got["openssl"] != StatusInstalled {
		t.Errorf("openssl = %s, want installed", got["openssl"])
	}
	for _, p := range h.phaseLog {
		if p[:4] == "zlib" {
			t.Errorf("unchanged package rebuilt: %v", h.phaseLog)
		}
	}
}

func TestRunAbortsOnFailure(t *testing.T) {
	specs := append(twoPackages(), manifest.PackageSpec{
		Name: "curl", Type: manifest.TypeCMake, Src: "https://example.com/curl.tar.gz",
	})
	h := newHarness(t, specs)

	results, err := h.run(t, map[string]backend.Phase{"openssl": backend.PhaseBuild})
	if err == nil {
		t.Fatal("expected Run to fail")
	}

	var be *backend.BuildError
	if !errors.As(err, &be) || be.Phase != backend.PhaseBuild {
		t.Errorf("err = %v", err)
	}

	got := statuses(results)
	if got["zlib"] != StatusInstalled {
		t.Errorf("zlib = %s, want installed", got["zlib"])
	}
	if got["openssl"] != StatusFailed {
		t.Errorf("openssl = %s, want failed", got["openssl"])
	}
	if _, ran := got["curl"]; ran {
		t.Error("curl ran after an earlier failure")
	}
	for _, name := range h.fetcher.calls {
		if name == "curl" {
			t.Error("curl was fetched after an earlier failure")
		}
	}

	// The earlier success must survive: a follow-up run retries only the
	// failed package onward.
	h.phaseLog = nil
	results, err = h.run(t, nil)
	if err != nil {
		t.Fatalf("recovery run: %v", err)
	}
	got = statuses(results)
	if got["zlib"] != StatusSkipped || got["openssl"] != StatusInstalled || got["curl"] != StatusInstalled {
		t.Errorf("recovery statuses = %v", got)
	}
}

func TestRunFetchFailureLeavesNoRecord(t *testing.T) {
	h := newHarness(t, twoPackages())
	h.fetcher.fail["zlib"] = errors.New("connection refused")

	results, err := h.run(t, nil)
	if err == nil {
		t.Fatal("expected Run to fail")
	}
	var fe *fetch.Error
	if !errors.As(err, &fe) {
		t.Errorf("err = %v, want *fetch.Error", err)
	}
	if results[0].Phase != backend.PhaseFetch {
		t.Errorf("Phase = %q, want fetch", results[0].Phase)
	}

	// Clearing the fault must let the same manifest succeed.
	delete(h.fetcher.fail, "zlib")
	results, err = h.run(t, nil)
	if err != nil {
		t.Fatalf("recovery run: %v", err)
	}
	if got := statuses(results); got["zlib"] != StatusInstalled {
		t.Errorf("zlib = %s after recovery", got["zlib"])
	}
}

func TestRunOnlyFiltersManifest(t *testing.T) {
	h := newHarness(t, twoPackages())

	registry := backend.NewRegistry()
	registry.Register(manifest.TypeCMake, func() backend.Backend {
		return &stubBackend{log: &h.phaseLog}
	})

	driver, err := NewDriver(h.specs, &Config{
		Prefix:   h.prefix,
		Fetcher:  h.fetcher,
		Registry: registry,
		Only:     "zlib",
	})
	if err != nil {
		t.Fatal(err)
	}
	results, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || results[0].Name != "zlib" {
		t.Errorf("results = %v", results)
	}

	driver, err = NewDriver(h.specs, &Config{
		Prefix:  h.prefix,
		Fetcher: h.fetcher,
		Only:    "nonexistent",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background()); err == nil {
		t.Error("expected an error for a package missing from the manifest")
	}
}

func TestRunForceRebuildsEverything(t *testing.T) {
	h := newHarness(t, twoPackages())
	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	registry := backend.NewRegistry()
	stub := func() backend.Backend { return &stubBackend{log: &h.phaseLog} }
	registry.Register(manifest.TypeCMake, stub)
	registry.Register(manifest.TypeConfigMake, stub)

	h.phaseLog = nil
	driver, err := NewDriver(h.specs, &Config{
		Prefix:   h.prefix,
		Fetcher:  h.fetcher,
		Registry: registry,
		Force:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	results, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	for _, r := range results {
		if r.Status != StatusInstalled {
			t.Errorf("%s = %s, want installed on forced run", r.Name, r.Status)
		}
	}
	if len(h.phaseLog) == 0 {
		t.Error("no phases ran on a forced run")
	}
}

func TestRunHeaderPackageEndToEnd(t *testing.T) {
	h := newHarness(t, []manifest.PackageSpec{
		{
			Name:      "span-lite",
			Type:      manifest.TypeHeader,
			Src:       "https://example.com/span-lite.tar.gz",
			Interface: "include",
		},
	})

	results, err := h.run(t, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Status != StatusInstalled {
		t.Fatalf("status = %s", results[0].Status)
	}

	installed := filepath.Join(h.prefix, "include", "span-lite", "span-lite.h")
	if _, err := os.Stat(installed); err != nil {
		t.Errorf("installed header missing: %v", err)
	}

	// Work tree is transient; only the prefix artifacts survive.
	if _, err := os.Stat(filepath.Join(h.prefix, "span-lite", "src")); !os.IsNotExist(err) {
		t.Errorf("work tree not cleaned up: %v", err)
	}

	results, err = h.run(t, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("second run status = %s, want skipped", results[0].Status)
	}
}

func TestRunPlatformOptionsAffectFingerprint(t *testing.T) {
	specs := []manifest.PackageSpec{
		{
			Name: "zlib",
			Type: manifest.TypeCMake,
			Src:  "https://example.com/zlib.tar.gz",
			PlatformOptions: map[string][]string{
				"linux": {"LINUX_ONLY ON"},
			},
		},
	}

	prefix := filepath.Join(t.TempDir(), "third_party")
	fetcher := &stubFetcher{fail: map[string]error{}}
	var phaseLog []string
	registry := backend.NewRegistry()
	registry.Register(manifest.TypeCMake, func() backend.Backend {
		return &stubBackend{log: &phaseLog}
	})

	run := func(tags []string) []Result {
		driver, err := NewDriver(specs, &Config{
			Prefix:   prefix,
			Platform: tags,
			Fetcher:  fetcher,
			Registry: registry,
		})
		if err != nil {
			t.Fatal(err)
		}
		results, err := driver.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return results
	}

	if got := run([]string{"linux", "x86_64"}); got[0].Status != StatusInstalled {
		t.Fatalf("first run = %s", got[0].Status)
	}
	// Same platform: up to date.
	if got := run([]string{"linux", "x86_64"}); got[0].Status != StatusSkipped {
		t.Errorf("same-platform rerun = %s, want skipped", got[0].Status)
	}
	// A platform without the conditional flag resolves differently, so the
	// record no longer matches.
	if got := run([]string{"darwin", "arm64"}); got[0].Status != StatusInstalled {
		t.Errorf("cross-platform rerun = %s, want installed", got[0].Status)
	}
}
