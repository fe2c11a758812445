package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dirsum/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Command builds the root command. Each call uses its own viper instance.
func (c CLI) Command() *cobra.Command {
	var (
		path       string
		configPath string
		asJSON     bool
	)

	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dirsum [flags] [path]",
		Short: "Summarize the contents of a directory tree",
		Long: heredoc.Doc(`
			dirsum walks a directory tree and reports directory and file counts,
			on-disk usage per file extension, files without an extension and the
			largest files.

			Directories directly inside the "Frameworks" and "Plugins" directories
			of the scanned root (as found in application bundles) are reported
			with their recursive size.

			Settings can also be provided through a .dirsum.yaml file or
			DIRSUM_* environment variables.
		`),
		Example: heredoc.Doc(`
			dirsum /Applications/Safari.app/Contents
			dirsum --json --top 20 ~/Downloads
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}

			if asJSON {
				cfg.Output = "json"
			}

			if len(args) > 0 {
				path = args[0]
			}

			return logic(cmd.Context(), *cfg, path, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringVarP(&path, "path", "p", ".", "Directory to summarize")
	flags.BoolVarP(&asJSON, "json", "j", false, "Print with json format (same as --output json)")
	flags.StringP("output", "o", "table", "Output format: json or table")
	flags.IntP("top", "t", 10, "Number of largest files to report")
	flags.Bool("apparent", false, "Report logical file lengths instead of allocated disk usage")
	flags.Bool("parallel", false, "Walk the tree concurrently")
	flags.Int("workers", 0, "Concurrent bundle sizing in parallel mode (0=number of CPUs)")
	flags.Bool("debug", false, "Enable debug output")
	flags.StringVar(&configPath, "config", "", "Config file (default is .dirsum.yaml)")

	if err := bindFlags(v, flags, "output", "top", "apparent", "parallel", "workers", "debug"); err != nil {
		panic(err)
	}

	return cmd
}

// bindFlags binds the named flags to viper keys of the same name.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %q: %w", name, err)
		}
	}

	return nil
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}
