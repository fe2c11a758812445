package dirsum

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

const (
	// FrameworksDir is the bundle directory reported as frameworks items.
	FrameworksDir = "Frameworks"
	// PluginsDir is the bundle directory reported as plugins items.
	PluginsDir = "Plugins"
)

// BundleSizer computes recursive sizes of bundle items.
type BundleSizer struct {
	// Probe reports file sizes.
	Probe SizeProbe
	// Workers bounds the number of items sized concurrently.
	Workers int
	// Logger receives probe failures.
	Logger zerolog.Logger
}

// sizeSum is a Visitor that only sums file sizes.
type sizeSum struct {
	probe SizeProbe
	log   zerolog.Logger
	total uint64
}

func (s *sizeSum) VisitDir(string) {}

func (s *sizeSum) VisitFile(path string) {
	size, err := s.probe.SizeOnDisk(path)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("size probe failed, counting as zero")

		return
	}

	s.total += size
}

// TotalSize returns the cumulative size of every file below path.
// Nested bundle directories get no special treatment.
func (s BundleSizer) TotalSize(ctx context.Context, path string) (uint64, error) {
	sum := &sizeSum{probe: s.Probe, log: s.Logger}

	if err := (StackWalker{}).Walk(ctx, path, sum); err != nil {
		return 0, err
	}

	return sum.total, nil
}

// Items sizes every directory directly inside root/name.
// Entries that are not directories are skipped. A missing bundle directory
// yields no items. Items are ordered by name.
func (s BundleSizer) Items(ctx context.Context, root, name string) ([]DirInfo, error) {
	dir := filepath.Join(root, name)
	if !isDir(dir) {
		return []DirInfo{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bundle directory %q: %w", dir, err)
	}

	p := pool.NewWithResults[DirInfo]().
		WithMaxGoroutines(max(s.Workers, 1)).
		WithContext(ctx).
		WithCancelOnError()

	for _, entry := range entries {
		entry := entry // per-iteration copy; go.mod targets go1.21 loop semantics
		path := filepath.Join(dir, entry.Name())

		if !entryIsDir(path, entry) {
			continue
		}

		p.Go(func(ctx context.Context) (DirInfo, error) {
			size, err := s.TotalSize(ctx, path)
			if err != nil {
				return DirInfo{}, err
			}

			return DirInfo{
				Name: sanitize(entry.Name()),
				Size: size,
				Path: relativePath(root, path),
			}, nil
		})
	}

	items, err := p.Wait()
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []DirInfo{}
	}

	slices.SortFunc(items, func(a, b DirInfo) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return items, nil
}
