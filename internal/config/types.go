// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultOutput is the generated file name, relative to the scanned root.
	DefaultOutput OutputPath = ".hashlog"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSeverityToken is returned when a SeverityToken is not an identifier.
	ErrInvalidSeverityToken = errors.New("invalid severity token")
	// ErrInvalidSourceExtension is returned when a SourceExtension is malformed.
	ErrInvalidSourceExtension = errors.New("invalid source extension")
	// ErrInvalidOutputPath is returned when an OutputPath is blank.
	ErrInvalidOutputPath = errors.New("invalid output path")
	// ErrInvalidWorkerCount is returned when a WorkerCount is negative.
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SeverityToken is the identifier of a logging call, e.g. "Info".
	SeverityToken string

	// InvalidSeverityTokenError is returned when a SeverityToken is not a
	// C identifier. It wraps ErrInvalidSeverityToken.
	InvalidSeverityTokenError struct {
		Value SeverityToken
	}

	// SourceExtension is a scanned file extension including its dot, e.g. ".cpp".
	SourceExtension string

	// InvalidSourceExtensionError is returned when a SourceExtension does not
	// start with a dot or contains a path separator.
	InvalidSourceExtensionError struct {
		Value SourceExtension
	}

	// OutputPath is where generate writes the .hashlog file. Relative paths
	// resolve against the scanned root.
	OutputPath string

	// InvalidOutputPathError is returned when an OutputPath is empty or blank.
	InvalidOutputPathError struct {
		Value OutputPath
	}

	// WorkerCount is the directory walker concurrency. Zero selects the default.
	WorkerCount int

	// InvalidWorkerCountError is returned when a WorkerCount is negative.
	InvalidWorkerCountError struct {
		Value WorkerCount
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Severities lists the log-call tokens to extract.
		Severities []SeverityToken `json:"severities" mapstructure:"severities"`
		// Extensions lists the scanned source file extensions.
		Extensions []SourceExtension `json:"extensions" mapstructure:"extensions"`
		// Output is the generated file path.
		Output OutputPath `json:"output" mapstructure:"output"`
		// SkipHidden skips files and directories whose name starts with '.'.
		SkipHidden bool `json:"skip_hidden" mapstructure:"skip_hidden"`
		// FollowSymlinks makes the walker follow symbolic links. Unfollowed
		// links to sources or directories are reported as warnings.
		FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks"`
		// Workers sets the directory walker concurrency.
		Workers WorkerCount `json:"workers" mapstructure:"workers"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and info-level diagnostics
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// SeverityStrings returns the severities as plain strings.
func (c Config) SeverityStrings() []string {
	out := make([]string, len(c.Severities))
	for i, s := range c.Severities {
		out[i] = string(s)
	}
	return out
}

// ExtensionStrings returns the extensions as plain strings.
func (c Config) ExtensionStrings() []string {
	out := make([]string, len(c.Extensions))
	for i, e := range c.Extensions {
		out[i] = string(e)
	}
	return out
}

// IsValid returns whether the Config has valid fields, delegating to each
// field's IsValid. An empty Severities or Extensions list is invalid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if len(c.Severities) == 0 {
		errs = append(errs, &InvalidSeverityTokenError{})
	}
	for _, s := range c.Severities {
		if valid, fieldErrs := s.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, &InvalidSourceExtensionError{})
	}
	for _, e := range c.Extensions {
		if valid, fieldErrs := e.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Workers.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

func (s SeverityToken) String() string { return string(s) }

// IsValid reports whether s is a C identifier: a letter or underscore
// followed by letters, digits or underscores.
func (s SeverityToken) IsValid() (bool, []error) {
	if s == "" {
		return false, []error{&InvalidSeverityTokenError{Value: s}}
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false, []error{&InvalidSeverityTokenError{Value: s}}
		}
	}
	return true, nil
}

func (e *InvalidSeverityTokenError) Error() string {
	if e.Value == "" {
		return "invalid severity token: severities must list at least one non-empty identifier"
	}
	return fmt.Sprintf("invalid severity token %q: must be an identifier", e.Value)
}

func (e *InvalidSeverityTokenError) Unwrap() error { return ErrInvalidSeverityToken }

func (x SourceExtension) String() string { return string(x) }

// IsValid reports whether x starts with a dot, has at least one more
// character and contains no path separator.
func (x SourceExtension) IsValid() (bool, []error) {
	if len(x) < 2 || x[0] != '.' || strings.ContainsAny(string(x[1:]), `./\`) {
		return false, []error{&InvalidSourceExtensionError{Value: x}}
	}
	return true, nil
}

func (e *InvalidSourceExtensionError) Error() string {
	if e.Value == "" {
		return "invalid source extension: extensions must list at least one entry such as \".cpp\""
	}
	return fmt.Sprintf("invalid source extension %q: must look like \".cpp\"", e.Value)
}

func (e *InvalidSourceExtensionError) Unwrap() error { return ErrInvalidSourceExtension }

func (p OutputPath) String() string { return string(p) }

// IsValid returns whether the OutputPath is non-empty and not whitespace-only.
func (p OutputPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidOutputPathError{Value: p}}
	}
	return true, nil
}

func (e *InvalidOutputPathError) Error() string {
	return fmt.Sprintf("invalid output path %q: must be non-empty", e.Value)
}

func (e *InvalidOutputPathError) Unwrap() error { return ErrInvalidOutputPath }

// IsValid returns whether the WorkerCount is zero or positive.
func (n WorkerCount) IsValid() (bool, []error) {
	if n < 0 {
		return false, []error{&InvalidWorkerCountError{Value: n}}
	}
	return true, nil
}

func (e *InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid worker count %d: must be >= 0", e.Value)
}

func (e *InvalidWorkerCountError) Unwrap() error { return ErrInvalidWorkerCount }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Severities:     []SeverityToken{"Trace", "Debug", "Info", "Warn", "Error", "Fatal"},
		Extensions:     []SourceExtension{".h", ".inl", ".cpp"},
		Output:         DefaultOutput,
		SkipHidden:     true,
		FollowSymlinks: true,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
