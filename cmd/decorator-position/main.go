// Package main is the entry point for decorator-position.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/cache"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	_ "github.com/rwwagner90/eslint-plugin-decorator-position/internal/rules" // Register rules via init().
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/rules/position"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// flags holds the root command's flag values.
type flags struct {
	check         bool
	diff          bool
	fix           bool
	configPath    string
	quiet         bool
	verbose       bool
	jobs          int
	color         string
	cache         bool
	cacheLocation string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := runner.ExitOK
	root := newRootCmd(&code)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "decorator-position: %v\n", err)
		code = runner.ExitError
	}

	stop()
	os.Exit(code)
}

func newRootCmd(code *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "decorator-position [flags] [paths...]",
		Short: "Enforce consistent decorator position on class members",
		Long: `Check that each class member's single decorator sits inline or on the
line above, as configured. With no paths, reads from stdin.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor, err := colorEnabled(f.color, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			*code = runner.Run(cmd.Context(), &runner.Options{
				Files:      args,
				Check:      f.check,
				Diff:       f.diff,
				Fix:        f.fix,
				ConfigPath: f.configPath,
				Quiet:      f.quiet,
				Verbose:    f.verbose,
				Jobs:       f.jobs,
				Cache:      f.cache,
				CachePath:  f.cacheLocation,
				Color:      useColor,
				Version:    version,
				Commit:     commit,
				Stdin:      cmd.InOrStdin(),
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.check, "check", false, "exit 1 if any file has misplaced decorators")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print unified diff of fixes")
	cmd.Flags().BoolVarP(&f.fix, "fix", "w", false, "write fixes to files (stdin: print fixed source)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print files as they are processed")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "files processed in parallel (default GOMAXPROCS)")
	cmd.Flags().StringVar(&f.color, "color", "auto", "colorize output (auto|always|never)")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "skip files found clean by a previous run")
	cmd.Flags().StringVar(&f.cacheLocation, "cache-location", cache.DefaultLocation, "path to the cache file")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress informational output")

	cmd.MarkFlagsMutuallyExclusive("check", "diff", "fix")

	cmd.AddCommand(configCmd(&f))
	cmd.AddCommand(versionCmd())

	return cmd
}

func configCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			cfg.DecoratorPosition = position.Normalize(cfg.DecoratorPosition).Config()

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "decorator-position %s (%s) %s\n", version, commit, date)
		},
	}
}

// colorEnabled resolves the --color mode. auto enables color only when w is
// a terminal.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
	}
}
