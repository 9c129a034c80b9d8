// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/discovery"
	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/internal/watch"
	"github.com/hashlog/hashlog/pkg/hashlog"
)

type generateOptions struct {
	output   string
	dryRun   bool
	watch    bool
	debounce time.Duration
}

func newGenerateCommand(app *App) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan the source tree and write the .hashlog file",
		Long: `Scan every source file below the working directory for logging calls,
hash each distinct message and write the table to .hashlog.

Two different messages with the same hash abort the run and nothing is
written.

With --watch the file is regenerated whenever a source file changes, until
interrupted. A failed regeneration is reported and watching continues.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, relative to the working directory (default from config: .hashlog)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "discover messages without writing the output file")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever a source file changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating in watch mode")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, opts generateOptions) error {
	ctx := cmd.Context()
	s, err := app.loadSession(ctx, configRequired)
	if err != nil {
		return err
	}

	s.logger.Info("Working path", "path", s.workDir)

	if !opts.watch {
		return generate(ctx, cmd, s, opts)
	}
	return watchAndGenerate(ctx, cmd, s, opts)
}

// watchAndGenerate runs generate once and again after every batch of source
// changes until ctx is canceled.
func watchAndGenerate(ctx context.Context, cmd *cobra.Command, s *session, opts generateOptions) error {
	if err := generate(ctx, cmd, s, opts); err != nil {
		s.logger.Error("Generation failed", "err", err)
	}

	w, err := watch.New(watch.Config{
		BaseDir:    s.workDir,
		Extensions: s.cfg.ExtensionStrings(),
		SkipHidden: s.cfg.SkipHidden,
		Ignore:     []string{s.relPath(outputPath(s, opts))},
		Debounce:   opts.debounce,
		Logger:     s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Info("Source changed, regenerating", "files", len(changed))
			return generate(ctx, cmd, s, opts)
		},
	})
	if err != nil {
		return err
	}

	s.logger.Info("Watching for changes", "extensions", s.cfg.ExtensionStrings())
	return w.Run(ctx)
}

// generate performs one discovery pass and writes the table unless this is a
// dry run.
func generate(ctx context.Context, cmd *cobra.Command, s *session, opts generateOptions) error {
	stdout := cmd.OutOrStdout()
	cfg := s.cfg

	observer := discovery.ObserverFuncs{
		OnScanning: func(path string) {
			s.logger.Debug("Scanning", "file", s.relPath(path))
		},
		OnDiscovered: func(entry hashlog.Entry, _ discovery.Location) {
			fmt.Fprintf(stdout, "Discovered logging message: \"%s\" with hash = %s\n", entry.Message, entry.Hash)
		},
	}

	d := discovery.New(s.workDir,
		discovery.WithSeverities(cfg.SeverityStrings()...),
		discovery.WithExtensions(cfg.ExtensionStrings()...),
		discovery.WithSkipHidden(cfg.SkipHidden),
		discovery.WithFollowSymlinks(cfg.FollowSymlinks),
		discovery.WithWorkers(int(cfg.Workers)),
		discovery.WithObserver(observer),
	)

	result, err := d.Discover(ctx, hashlog.NewTable())
	if err != nil {
		var collErr *discovery.CollisionError
		if errors.As(err, &collErr) {
			reportCollision(cmd.ErrOrStderr(), s, collErr)
			return issue.NewErrorContext().
				WithOperation("generate .hashlog").
				WithResource(s.workDir).
				WithSuggestion("Reword one of the two colliding messages").
				WithIssue(issue.HashCollisionId).
				Wrap(err).
				BuildError()
		}
		return err
	}

	for _, diag := range result.Diagnostics {
		args := []any{"at", locationString(s, diag.Location), "code", diag.Code}
		if diag.Severity == discovery.SeverityWarning {
			s.logger.Warn(diag.Message, args...)
		} else {
			s.logger.Debug(diag.Message, args...)
		}
	}

	if opts.dryRun {
		s.logger.Info("Dry run, nothing written",
			"files", result.Files,
			"calls", result.Calls,
			"messages", result.Table.Len(),
		)
		return nil
	}

	output := outputPath(s, opts)
	if err := hashlog.WriteFile(output, result.Table); err != nil {
		return issue.NewErrorContext().
			WithOperation("write .hashlog").
			WithResource(output).
			WithSuggestion("Check that the output directory exists and is writable").
			WithIssue(issue.OutputUnwritableId).
			Wrap(err).
			BuildError()
	}

	size := "unknown size"
	if info, statErr := os.Stat(output); statErr == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	s.logger.Info("Generated .hashlog",
		"path", s.relPath(output),
		"messages", result.Table.Len(),
		"files", result.Files,
		"size", size,
	)
	return nil
}

// outputPath resolves --output, or the configured output, against the
// working directory.
func outputPath(s *session, opts generateOptions) string {
	output := opts.output
	if output == "" {
		output = string(s.cfg.Output)
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(s.workDir, output)
	}
	return output
}

// reportCollision prints both colliding messages with their hash and call
// site, the same way the discovery lines are printed.
func reportCollision(w io.Writer, s *session, collErr *discovery.CollisionError) {
	fmt.Fprintln(w, ErrorStyle.Render("Collision detected!"))
	fmt.Fprintf(w, "Previous logging message: \"%s\" with hash = %s (%s)\n",
		collErr.Err.Existing, collErr.Err.Hash, locationString(s, collErr.Existing))
	fmt.Fprintf(w, "Conflict logging message: \"%s\" with hash = %s (%s)\n",
		collErr.Err.Conflicting, collErr.Err.Hash, locationString(s, collErr.Conflicting))
}

func locationString(s *session, at discovery.Location) string {
	at.Path = s.relPath(at.Path)
	return at.String()
}
