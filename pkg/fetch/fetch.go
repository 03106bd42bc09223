// pkg/fetch/fetch.go
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// Error reports a failed fetch. The package's working tree is left unchanged
// on disk, so a corrected re-run starts clean.
type Error struct {
	Package string
	Src     string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetching %s from %s: %v", e.Package, e.Src, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher obtains a package's source tree into a directory. The pipeline is
// driven through this interface so tests can substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, spec manifest.ResolvedSpec, destDir string) error
}

// Config configures the source fetcher.
type Config struct {
	CacheDir string        // where downloaded archives are kept for reuse
	Timeout  time.Duration // per-download timeout
	Logger   *log.Logger   // optional
}

// SourceFetcher downloads and unpacks source archives, caching the archives
// for reuse across runs. Sources that point at a git repository are cloned
// at the requested ref instead.
type SourceFetcher struct {
	client   *Client
	cacheDir string
	logger   *log.Logger
}

// NewSourceFetcher creates a fetcher, filling config defaults.
func NewSourceFetcher(cfg *Config) *SourceFetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(os.TempDir(), "quarry-cache")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &SourceFetcher{
		client:   NewClientWithTimeout(cfg.Timeout),
		cacheDir: cfg.CacheDir,
		logger:   logger,
	}
}

// Fetch downloads (or reuses) the package source and materializes it under
// destDir. The call blocks until the source tree is fully on disk.
func (f *SourceFetcher) Fetch(ctx context.Context, spec manifest.ResolvedSpec, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &Error{Package: spec.Name, Src: spec.Src, Err: err}
	}

	if isGitSource(spec.Src) {
		if err := f.clone(ctx, spec.Src, destDir); err != nil {
			return &Error{Package: spec.Name, Src: spec.Src, Err: err}
		}
		return nil
	}

	archive, err := f.ensureArchive(ctx, spec)
	if err != nil {
		return &Error{Package: spec.Name, Src: spec.Src, Err: err}
	}

	f.logger.Printf("Unpacking %s", archive)
	if err := Extract(archive, destDir); err != nil {
		return &Error{Package: spec.Name, Src: spec.Src, Err: err}
	}
	return nil
}

// ensureArchive returns the path of the cached archive for spec, downloading
// it first when absent or empty.
func (f *SourceFetcher) ensureArchive(ctx context.Context, spec manifest.ResolvedSpec) (string, error) {
	archive := filepath.Join(f.cacheDir, archiveName(spec.Name, spec.Src))

	if info, err := os.Stat(archive); err == nil && info.Size() > 0 {
		f.logger.Printf("Using cached archive %s", archive)
		return archive, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	f.logger.Printf("Downloading %s", spec.Src)

	tmp, err := os.CreateTemp(f.cacheDir, spec.Name+"-*.part")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := f.client.Download(ctx, spec.Src, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if written == 0 {
		return "", fmt.Errorf("empty download from %s", spec.Src)
	}

	if err := os.Rename(tmp.Name(), archive); err != nil {
		return "", fmt.Errorf("caching archive: %w", err)
	}

	f.logger.Printf("  ✓ Downloaded %d bytes to %s", written, archive)
	return archive, nil
}

// archiveName keys the cache by package name plus the archive's base name,
// so two packages pulling the same file never collide.
func archiveName(name, src string) string {
	base := "src"
	if u, err := url.Parse(src); err == nil {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			base = b
		}
	}
	return name + "-" + base
}
