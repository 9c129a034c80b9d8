// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashlog/hashlog/pkg/types"
)

type (
	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code types.ExitCode
		Err  error
	}

	// UsageError reports a command line mistake: no command, an unknown
	// command, bad flags or bad arguments. It exits with types.ExitUsage.
	UsageError struct {
		Msg string
		Err error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *UsageError) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Msg
	}
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps an error returned from command execution to the process
// exit status.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return types.ExitUsage
	}
	return types.ExitFailure
}

// usageArgs turns a cobra argument validator's failure into a UsageError.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
