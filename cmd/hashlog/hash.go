// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/discovery"
	"github.com/hashlog/hashlog/pkg/hashlog"
)

func newHashCommand(_ *App) *cobra.Command {
	var unescape bool

	cmd := &cobra.Command{
		Use:   "hash <message>...",
		Short: "Print the hash of each message",
		Long: `Print the FNV-1a hash of each message as "0xHHHHHHHH: message".

With --unescape, C-style escapes such as \n or \x41 are decoded first, the
same way generate decodes string literals in source files.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, msg := range args {
				if unescape {
					msg = discovery.Unescape(msg)
				}
				fmt.Fprintln(out, hashlog.Entry{Hash: hashlog.Sum(msg), Message: msg})
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unescape, "unescape", "u", false, "decode C-style escape sequences before hashing")

	return cmd
}
