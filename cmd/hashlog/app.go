// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hashlog/hashlog/internal/config"
	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer; all Cobra command handlers receive an App reference.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		flags    globalFlags
		session  *session
		exitCode types.ExitCode
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	globalFlags struct {
		verbose    bool
		configPath string
		dir        string
	}

	// session is the configuration resolved once per invocation.
	session struct {
		cfg        *config.Config
		configPath string
		workDir    string
		verbose    bool
		logger     *log.Logger
	}
)

// configPolicy decides what loadSession does when the configuration cannot
// be loaded.
type configPolicy int

const (
	// configFallback replaces an unloadable implicit configuration with the defaults.
	configFallback configPolicy = iota
	// configRequired fails on any configuration load error.
	configRequired
)

// requiredConfigError adds the reason generate refused to run to a
// configuration load failure, keeping the loader's own suggestions.
func requiredConfigError(err error) error {
	const refusal = "Fix the configuration file; generate does not fall back to defaults"

	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId)
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Cause != nil {
		ctx = ctx.WithResource(ae.Resource).WithSuggestions(ae.Suggestions...)
		err = ae.Cause
	}
	return ctx.WithSuggestion(refusal).Wrap(err).BuildError()
}

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadSession resolves the working directory, configuration and logger for
// the running command. The result is memoized for the rest of the invocation.
//
// A broken file given with --config is always fatal. Other load failures
// follow policy: configFallback warns and uses the defaults, configRequired
// returns the error.
func (a *App) loadSession(ctx context.Context, policy configPolicy) (*session, error) {
	if a.session != nil {
		return a.session, nil
	}

	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
	})
	if a.flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	workDir, err := a.workDir()
	if err != nil {
		return nil, err
	}

	cfg, cfgPath, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		WorkDir:        workDir,
	})
	if err != nil {
		if a.flags.configPath != "" || ctx.Err() != nil {
			return nil, err
		}
		if policy == configRequired {
			return nil, requiredConfigError(err)
		}
		logger.Warn("using default configuration", "error", formatErrorForDisplay(err, a.flags.verbose))
		cfg, cfgPath = config.DefaultConfig(), ""
	}

	verbose := a.flags.verbose || cfg.UI.Verbose
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if cfgPath != "" {
		logger.Debug("Loaded configuration", "path", cfgPath)
	}

	a.session = &session{
		cfg:        cfg,
		configPath: cfgPath,
		workDir:    workDir,
		verbose:    verbose,
		logger:     logger,
	}
	return a.session, nil
}

// workDir returns the absolute directory commands operate in: --dir when
// given, else the process working directory.
func (a *App) workDir() (string, error) {
	if a.flags.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", issue.WrapWithOperation(err, "determine working directory")
		}
		return wd, nil
	}

	abs, err := filepath.Abs(a.flags.dir)
	if err != nil {
		return "", issue.WrapWithContext(err, "resolve directory", a.flags.dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &UsageError{Msg: "invalid --dir", Err: err}
	}
	if !info.IsDir() {
		return "", &UsageError{Msg: "invalid --dir", Err: fmt.Errorf("%s is not a directory", abs)}
	}
	return abs, nil
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (s *session) glamourStyle() string {
	if s == nil {
		return "auto"
	}
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// relPath shortens path for display relative to the working directory.
func (s *session) relPath(path string) string {
	if rel, err := filepath.Rel(s.workDir, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}
