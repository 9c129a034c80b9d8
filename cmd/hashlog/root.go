// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the complete command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hashlog",
		Short: "Build and read hash tables for hash-based logging",
		Long: TitleStyle.Render("hashlog") + SubtitleStyle.Render(" - build and read hash tables for hash-based logging") + `

hashlog scans C++ sources for logging calls such as Info("Hello, {}!", name),
hashes every message with FNV-1a and writes the hash-to-message table to a
.hashlog file. Loggers then emit the 32-bit hash instead of the text, and the
table turns hashes back into messages.

` + SubtitleStyle.Render("Examples:") + `
  hashlog generate               Scan the current tree and write .hashlog
  hashlog generate -C src -o x   Scan ./src and write ./src/x
  hashlog view                   Print every entry of the nearest .hashlog
  hashlog view --format json     Print entries as JSON
  hashlog lookup 0x5E4DAA9D      Resolve hashes to messages
  hashlog hash "Hello, {}!"      Print the hash of a message`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &UsageError{Msg: fmt.Sprintf("unknown command %q", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Usage()
			return &UsageError{Msg: "no command given"}
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is ./hashlog.cue, then the user config dir)")
	flags.StringVarP(&app.flags.dir, "dir", "C", "", "run as if started in this directory")

	rootCmd.SetHelpCommand(newHelpCommand(app))
	rootCmd.AddCommand(
		newGenerateCommand(app),
		newViewCommand(app),
		newLookupCommand(app),
		newHashCommand(app),
		newVersionCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// Run executes the command line args and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) types.ExitCode {
	rootCmd := NewRootCommand(a)
	rootCmd.SetArgs(args)

	// fang.Execute prints the error headline itself; details follow below.
	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		a.renderErrorDetails(a.stderr, err)
		return exitCodeFor(err)
	}
	return a.exitCode
}

// Execute runs the hashlog CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	os.Exit(int(app.Run(context.Background(), os.Args[1:])))
}

func newHelpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long:  "Print help for hashlog or one of its commands. Exits with status 1.",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, rest, err := cmd.Root().Find(args)
			if err != nil || target == nil || len(rest) > 0 {
				return &UsageError{Msg: fmt.Sprintf("unknown help topic %q", strings.Join(args, " "))}
			}
			if err := target.Help(); err != nil {
				return err
			}
			app.exitCode = types.ExitFailure
			return nil
		},
	}
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit with status 1",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionString())
			app.exitCode = types.ExitFailure
			return nil
		},
	}
}

// renderErrorDetails writes what the error headline leaves out: the
// suggestions of an ActionableError, its cause chain in verbose mode, and
// the Markdown help card of a linked issue.
func (a *App) renderErrorDetails(w io.Writer, err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, context.Canceled) {
		return
	}

	verbose := a.flags.verbose || (a.session != nil && a.session.verbose)

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if details := strings.TrimPrefix(ae.Format(verbose), ae.Error()); strings.TrimSpace(details) != "" {
			fmt.Fprintln(w, strings.TrimLeft(details, "\n"))
		}
	}

	if iss := issue.IssueOf(err); iss != nil {
		if rendered, renderErr := iss.Render(a.session.glamourStyle()); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
