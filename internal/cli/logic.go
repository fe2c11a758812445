package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/idelchi/dirsum/internal/config"
	"github.com/idelchi/dirsum/internal/dirsum"
)

// ErrUnknownOutput is returned for an unsupported output format.
var ErrUnknownOutput = errors.New("unknown output format")

// newLogger writes human-friendly log lines to w.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, cfg config.Config, path string, stdout, stderr io.Writer) error {
	log := newLogger(stderr, cfg.Debug)

	enableProgress := cfg.Output != "json" && !cfg.Debug && isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files uint32, bytes uint64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files uint32, bytes uint64) {
			msg := fmt.Sprintf("Scanning… %d files, %s", files, humanize.IBytes(bytes))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	options := dirsum.Options{
		Path:     path,
		TopN:     cfg.Top,
		Parallel: cfg.Parallel,
		Workers:  cfg.Workers,
		Logger:   &log,
	}

	if cfg.Apparent {
		options.Probe = dirsum.ApparentProbe{}
	}

	report, err := dirsum.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if report.ProbeErrors > 0 {
		log.Warn().Uint32("files", report.ProbeErrors).Msg("some file sizes could not be read and were counted as zero")
	}

	switch cfg.Output {
	case "json":
		return PrintJSON(report, stdout)
	case "table":
		return PrintTable(report, stdout)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutput, cfg.Output)
	}
}
