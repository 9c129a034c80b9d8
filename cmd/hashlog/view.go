// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/internal/render"
	"github.com/hashlog/hashlog/pkg/hashlog"
)

func newViewCommand(app *App) *cobra.Command {
	var (
		hashlogPath string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print every entry of a .hashlog file",
		Long: `Print every entry of a .hashlog file in stored order, one
"0xHHHHHHHH: message" line per entry.

Without --hashlog the file is looked up in the working directory and then in
each parent directory.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return &UsageError{Err: err}
			}
			table, _, err := openHashlog(cmd.Context(), app, hashlogPath)
			if err != nil {
				return err
			}
			return render.Entries(cmd.OutOrStdout(), f, table.Entries())
		},
	}

	cmd.Flags().StringVarP(&hashlogPath, "hashlog", "x", "", "hashlog file, or directory to search from")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "output format: text, json, yaml or toml")

	return cmd
}

// openHashlog finds and decodes the .hashlog named by flagPath, or the
// nearest one above the working directory when flagPath is empty.
func openHashlog(ctx context.Context, app *App, flagPath string) (*hashlog.Table, string, error) {
	s, err := app.loadSession(ctx, configFallback)
	if err != nil {
		return nil, "", err
	}

	start := s.workDir
	if flagPath != "" {
		start = flagPath
		if !filepath.IsAbs(start) {
			start = filepath.Join(s.workDir, start)
		}
	}

	path, err := hashlog.Find(start)
	if err != nil {
		if errors.Is(err, hashlog.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, "", issue.NewErrorContext().
				WithOperation("locate .hashlog").
				WithResource(start).
				WithSuggestion("Run 'hashlog generate' in the project root").
				WithSuggestion("Pass the file explicitly with --hashlog").
				WithIssue(issue.HashlogNotFoundId).
				Wrap(err).
				BuildError()
		}
		return nil, "", issue.WrapWithContext(err, "locate .hashlog", start)
	}
	s.logger.Debug("Reading hashlog", "path", path)

	table, err := hashlog.ReadFile(path)
	if err != nil {
		var formatErr *hashlog.FormatError
		if errors.As(err, &formatErr) {
			return nil, "", issue.NewErrorContext().
				WithOperation("read .hashlog").
				WithResource(path).
				WithSuggestion("Regenerate the file with 'hashlog generate'").
				WithIssue(issue.HashlogCorruptId).
				Wrap(err).
				BuildError()
		}
		return nil, "", issue.WrapWithContext(err, "read .hashlog", path)
	}
	return table, path, nil
}
