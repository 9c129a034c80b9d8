// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want types.ExitCode
	}{
		{"no command", nil, types.ExitUsage},
		{"unknown command", []string{"frobnicate"}, types.ExitUsage},
		{"help", []string{"help"}, types.ExitFailure},
		{"help for a command", []string{"help", "generate"}, types.ExitFailure},
		{"help for an unknown topic", []string{"help", "frobnicate"}, types.ExitUsage},
		{"version", []string{"version"}, types.ExitFailure},
		{"version with args", []string{"version", "x"}, types.ExitUsage},
		{"generate with args", []string{"generate", "src"}, types.ExitUsage},
		{"hash without args", []string{"hash"}, types.ExitUsage},
		{"hash", []string{"hash", "a"}, types.ExitSuccess},
		{"view bad format", []string{"view", "--format", "xml"}, types.ExitUsage},
		{"lookup bad hash", []string{"lookup", "xyz"}, types.ExitUsage},
		{"missing dir", []string{"generate", "-C", "/definitely/not/here"}, types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, nil, tt.args...)
			if res.code != tt.want {
				t.Errorf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", res.code, tt.want, res.stdout, res.stderr)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "version")
	if !strings.Contains(res.stdout, getVersionString()) {
		t.Errorf("version output = %q, want it to contain %q", res.stdout, getVersionString())
	}
}

func TestRun_HelpPrintsUsage(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "help")
	for _, want := range []string{"generate", "view", "lookup"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("help output should mention %q:\n%s", want, res.stdout)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain", errors.New("boom"), types.ExitFailure},
		{"usage", &UsageError{Msg: "unknown command \"x\""}, types.ExitUsage},
		{"wrapped usage", fmt.Errorf("outer: %w", &UsageError{Msg: "bad"}), types.ExitUsage},
		{"exit error", &ExitError{Code: 3}, 3},
		{"actionable", issue.WrapWithOperation(errors.New("boom"), "scan"), types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestUsageError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("accepts 0 arg(s), received 1")
	tests := []struct {
		err  *UsageError
		want string
	}{
		{&UsageError{Msg: `unknown command "x"`}, `unknown command "x"`},
		{&UsageError{Err: cause}, cause.Error()},
		{&UsageError{Msg: "invalid --dir", Err: cause}, "invalid --dir: " + cause.Error()},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !errors.Is(&UsageError{Err: cause}, cause) {
		t.Error("UsageError should unwrap to its cause")
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 1}).Error(); got != "exit status 1" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("boom")
	e := &ExitError{Code: 1, Err: cause}
	if e.Error() != "boom" || !errors.Is(e, cause) {
		t.Errorf("ExitError should expose and unwrap its cause, got %q", e.Error())
	}
}
