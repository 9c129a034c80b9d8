// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/internal/config"
	"github.com/hashlog/hashlog/internal/issue"
)

// newConfigCommand creates the `hashlog config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hashlog configuration",
		Long: `Manage hashlog configuration.

Configuration is read from the first file found of:
  - the --config flag
  - hashlog.cue in the working directory
  - the user config file:
      Linux: ~/.config/hashlog/config.cue
      macOS: ~/Library/Application Support/hashlog/config.cue
      Windows: %APPDATA%\hashlog\config.cue

A broken file makes generate fail. The read-only commands warn and
continue with the defaults unless the file was named with --config.

HASHLOG_<KEY> environment variables override file values, for example
HASHLOG_OUTPUT=build/.hashlog or HASHLOG_SEVERITIES=Info,Error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.loadSession(cmd.Context(), configFallback)
			if err != nil {
				return err
			}
			showConfig(cmd.OutOrStdout(), s)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.loadSession(cmd.Context(), configFallback)
			if err != nil {
				return err
			}
			return showConfigPath(cmd.OutOrStdout(), s)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default user configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.flags.configPath
			if path == "" {
				userPath, err := config.UserConfigPath()
				if err != nil {
					return issue.WrapWithOperation(err, "determine config directory")
				}
				path = userPath
			}

			written, err := config.WriteDefault(path)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("create configuration").
					WithResource(path).
					WithIssue(issue.ConfigLoadFailedId).
					Wrap(err).
					BuildError()
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	var schema bool
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schema {
				fmt.Fprint(cmd.OutOrStdout(), config.Schema())
				return nil
			}
			s, err := app.loadSession(cmd.Context(), configFallback)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			return nil
		},
	}
	dumpCmd.Flags().BoolVar(&schema, "schema", false, "print the CUE schema configuration files are validated against")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(w io.Writer, s *session) {
	cfg := s.cfg
	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if s.configPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), s.configPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("severities"), valueStyle.Render(strings.Join(cfg.SeverityStrings(), ", ")))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("extensions"), valueStyle.Render(strings.Join(cfg.ExtensionStrings(), ", ")))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output"), valueStyle.Render(cfg.Output.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("skip_hidden"), valueStyle.Render(fmt.Sprint(cfg.SkipHidden)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("follow_symlinks"), valueStyle.Render(fmt.Sprint(cfg.FollowSymlinks)))
	workers := fmt.Sprint(cfg.Workers)
	if cfg.Workers == 0 {
		workers += SubtitleStyle.Render(" (walker default)")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("workers"), valueStyle.Render(workers))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}

func showConfigPath(w io.Writer, s *session) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return issue.WrapWithOperation(err, "determine config directory")
	}

	active := s.configPath
	if active == "" {
		active = SubtitleStyle.Render("(none, using defaults)")
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "User config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(w, "Project config file: %s\n", filepath.Join(s.workDir, config.LocalConfigFile))
	fmt.Fprintf(w, "Active config file: %s\n", active)
	return nil
}
