// pkg/fetch/git.go
package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitSource reports whether a src URL names a git repository rather than
// an archive: a ".git" path or an explicit "#<ref>" fragment.
func isGitSource(src string) bool {
	repo, _, _ := strings.Cut(src, "#")
	return strings.HasSuffix(repo, ".git")
}

// clone performs a shallow clone of src into destDir. A "#<ref>" fragment
// selects a tag or branch; tags are tried first.
func (f *SourceFetcher) clone(ctx context.Context, src, destDir string) error {
	repo, ref, _ := strings.Cut(src, "#")

	f.logger.Printf("Cloning %s", repo)

	opts := &git.CloneOptions{
		URL:          repo,
		Depth:        1,
		SingleBranch: true,
	}

	if ref == "" {
		_, err := git.PlainCloneContext(ctx, destDir, false, opts)
		if err != nil {
			return fmt.Errorf("git clone failed: %w", err)
		}
		return nil
	}

	tagOpts := *opts
	tagOpts.ReferenceName = plumbing.NewTagReferenceName(ref)
	if _, err := git.PlainCloneContext(ctx, destDir, false, &tagOpts); err == nil {
		return nil
	}

	// A failed tag clone may leave a partial tree behind.
	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("resetting clone dir: %w", err)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("resetting clone dir: %w", err)
	}

	branchOpts := *opts
	branchOpts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	if _, err := git.PlainCloneContext(ctx, destDir, false, &branchOpts); err != nil {
		return fmt.Errorf("git clone of %s at %q failed: %w", repo, ref, err)
	}
	return nil
}
