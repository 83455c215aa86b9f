package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/banux/manga-server/internal/descriptor"
)

// foundWork is a directory whose info.toml was found and parsed, paired
// with its descriptor. Directories whose descriptor fails to parse are
// warned about and produce no foundWork.
type foundWork struct {
	dir  string
	desc *descriptor.Descriptor
}

// warnFunc logs a non-fatal problem encountered during loading.
type warnFunc func(format string, args ...interface{})

// walkLibrary recursively scans root for work directories. It descends
// into directories, following symlinks (a symlinked entry is Stat'ed and
// descended into when it points at a directory), and prunes a subtree
// as soon as it finds an info.toml, whether or not that descriptor parses
// — matching the reference loader's skip_current_dir-on-Some(..) behavior:
// once a work root is found, nothing beneath it is considered part of the
// library, even if the descriptor itself turns out to be malformed.
func walkLibrary(ctx context.Context, root string, sem *semaphore.Weighted, warn warnFunc) ([]foundWork, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	sem.Release(1)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		warn("%s: cannot read directory: %v", root, err)
		return nil, nil
	}

	infoPath := filepath.Join(root, "info.toml")
	data, err := os.ReadFile(infoPath)
	switch {
	case err == nil:
		desc, perr := descriptor.Parse(data)
		if perr != nil {
			warn("%s: malformed descriptor: %v", root, perr)
			return nil, nil
		}
		return []foundWork{{dir: root, desc: desc}}, nil
	case !os.IsNotExist(err):
		warn("%s: cannot read info.toml: %v", root, err)
		return nil, nil
	}

	var subdirs []string
	for _, e := range entries {
		child := filepath.Join(root, e.Name())
		// Stat (not Lstat) so symlinked directories are followed, per
		// spec.md §4.2 step 1.
		if e.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(child)
			if err != nil || !info.IsDir() {
				continue
			}
			subdirs = append(subdirs, child)
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, child)
		}
	}
	if len(subdirs) == 0 {
		return nil, nil
	}

	results := make([][]foundWork, len(subdirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range subdirs {
		i, dir := i, dir
		g.Go(func() error {
			sub, err := walkLibrary(gctx, dir, sem, warn)
			if err != nil {
				return err
			}
			results[i] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	var found []foundWork
	for _, r := range results {
		found = append(found, r...)
	}
	return found, nil
}
