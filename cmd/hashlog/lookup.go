// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/pkg/hashlog"
	"github.com/hashlog/hashlog/pkg/types"
)

const unknownMessage = "<unknown>"

func newLookupCommand(app *App) *cobra.Command {
	var hashlogPath string

	cmd := &cobra.Command{
		Use:   "lookup <hash>...",
		Short: "Resolve hashes to their logging messages",
		Long: `Resolve each hash against a .hashlog file. Hashes are hexadecimal, with or
without a 0x prefix. Unknown hashes print as <unknown> and make the command
exit with status 1.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashes := make([]hashlog.Hash, 0, len(args))
			for _, arg := range args {
				h, err := hashlog.ParseHash(arg)
				if err != nil {
					return &UsageError{Err: err}
				}
				hashes = append(hashes, h)
			}

			table, path, err := openHashlog(cmd.Context(), app, hashlogPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unknown := 0
			for _, h := range hashes {
				msg, ok := table.Lookup(h)
				if !ok {
					msg = unknownMessage
					unknown++
				}
				fmt.Fprintln(out, hashlog.Entry{Hash: h, Message: msg})
			}

			if unknown > 0 {
				return &ExitError{
					Code: types.ExitFailure,
					Err: issue.NewErrorContext().
						WithOperation("look up hashes").
						WithResource(path).
						WithIssue(issue.UnknownHashId).
						Wrap(fmt.Errorf("%d of %d hashes are unknown: %w", unknown, len(hashes), hashlog.ErrNotFound)).
						BuildError(),
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&hashlogPath, "hashlog", "x", "", "hashlog file, or directory to search from")

	return cmd
}
