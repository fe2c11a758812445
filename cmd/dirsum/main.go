// Command dirsum prints a summary of a directory tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/dirsum/internal/cli"
)

// version is set via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(version).Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
