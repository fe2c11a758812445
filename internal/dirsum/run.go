package dirsum

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
	// DefaultTopN is the default number of largest files reported.
	DefaultTopN = 10
)

// Options configures a directory summary.
type Options struct {
	// Path is the directory to summarize.
	Path string
	// TopN is the number of largest files to report.
	TopN int
	// Probe reports file sizes. Defaults to DiskProbe.
	Probe SizeProbe
	// Parallel selects the concurrent walker.
	Parallel bool
	// Workers bounds concurrent bundle sizing in parallel mode (0=NumCPU).
	Workers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output. Nil disables logging.
	Logger *zerolog.Logger
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, e *engine, hook func(uint32, uint64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(e.progress())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run walks the directory tree at opt.Path once and returns its summary.
//
// After the walk, every directory directly inside the "Frameworks" and
// "Plugins" directories of the root is sized recursively.
//
// A path that is missing or not a directory produces an empty report.
// Failing to list any directory aborts the run and no report is returned.
// Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(uint32, uint64)) (*Report, error) {
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = *opt.Logger
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	if opt.Probe == nil {
		opt.Probe = DiskProbe{}
	}

	var walker Walker = StackWalker{}

	workers := 1

	if opt.Parallel {
		walker = FastWalker{}

		workers = opt.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
	}

	log.Debug().
		Str("path", opt.Path).
		Int("top", opt.TopN).
		Bool("parallel", opt.Parallel).
		Int("workers", workers).
		Msg("starting scan")

	collector := newEngine(opt.Path, opt.Probe, opt.TopN, log)

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	start := time.Now()

	if err := walker.Walk(ctx, opt.Path, collector); err != nil {
		return nil, fmt.Errorf("walking %q: %w", opt.Path, err)
	}

	report := collector.finalize()

	sizer := BundleSizer{Probe: opt.Probe, Workers: workers, Logger: log}

	var err error

	if report.Frameworks, err = sizer.Items(ctx, opt.Path, FrameworksDir); err != nil {
		return nil, err
	}

	if report.Plugins, err = sizer.Items(ctx, opt.Path, PluginsDir); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)

	log.Debug().
		Uint32("dirs", report.DirectoryCount).
		Uint32("files", report.FileCount).
		Uint64("bytes", report.TotalFileSize).
		Uint32("probe_errors", report.ProbeErrors).
		Dur("elapsed", report.Elapsed).
		Msg("scan complete")

	return report, nil
}
