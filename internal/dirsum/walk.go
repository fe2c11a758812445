package dirsum

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
)

// Visitor receives the entries found by a Walker.
type Visitor interface {
	// VisitFile is called for every entry that is not a directory.
	VisitFile(path string)
	// VisitDir is called for every directory below the root.
	VisitDir(path string)
}

// Walker traverses every descendant of a root directory exactly once.
//
// A root that is missing or not a directory yields zero visits and no error.
// A directory that cannot be listed aborts the walk.
type Walker interface {
	Walk(ctx context.Context, root string, visitor Visitor) error
}

// isDir reports whether root exists and is a directory, following symbolic links.
func isDir(root string) bool {
	info, err := os.Stat(root)

	return err == nil && info.IsDir()
}

// entryIsDir reports whether the entry at path is a directory.
// Symbolic links are resolved; a link that cannot be resolved is a file.
func entryIsDir(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}

	return isDir(path)
}

// StackWalker walks the tree sequentially using an explicit worklist of
// pending directories instead of recursion. Directories are taken from the
// end of the worklist.
//
// Symbolic links are classified by their target, so a link to a directory is
// visited as a directory and descended into. Cyclic links are not detected.
type StackWalker struct{}

// Walk visits every entry below root.
func (StackWalker) Walk(ctx context.Context, root string, visitor Visitor) error {
	if !isDir(root) {
		return nil
	}

	pending := []string{root}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading directory %q: %w", dir, err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			if entryIsDir(path, entry) {
				pending = append(pending, path)
				visitor.VisitDir(path)
			} else {
				visitor.VisitFile(path)
			}
		}
	}

	return nil
}

// FastWalker walks the tree with fastwalk, listing directories in parallel.
// Visits arrive from multiple goroutines, so the visitor must be safe for
// concurrent use.
//
// fastwalk does not descend into symbolic links itself; a link to a directory
// is visited as a directory and its subtree is walked with a StackWalker.
type FastWalker struct{}

// Walk visits every entry below root.
func (FastWalker) Walk(ctx context.Context, root string, visitor Visitor) error {
	if !isDir(root) {
		return nil
	}

	conf := &fastwalk.Config{
		Follow: false, // Symlinked directories are walked by StackWalker
	}

	//nolint:varnamelen // d is standard for DirEntry
	return fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("reading directory %q: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == root {
			return nil
		}

		switch {
		case d.IsDir():
			visitor.VisitDir(path)
		case entryIsDir(path, d):
			visitor.VisitDir(path)

			return StackWalker{}.Walk(ctx, path, visitor)
		default:
			visitor.VisitFile(path)
		}

		return nil
	})
}
