// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/hashlog/hashlog/internal/config"
	"github.com/hashlog/hashlog/pkg/types"
)

// staticProvider serves a fixed configuration so tests never read the host's
// config files or HASHLOG_* variables.
type staticProvider struct {
	cfg  *config.Config
	path string
	err  error
}

func (p staticProvider) Load(_ context.Context, _ config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	cfg := *p.cfg
	return &cfg, p.path, nil
}

type cliResult struct {
	code   types.ExitCode
	stdout string
	stderr string
}

func runCLI(t *testing.T, provider ConfigProvider, args ...string) cliResult {
	t.Helper()
	return runCLIContext(t.Context(), t, provider, args...)
}

// runCLIContext runs the CLI until it returns or ctx is canceled.
func runCLIContext(ctx context.Context, t *testing.T, provider ConfigProvider, args ...string) cliResult {
	t.Helper()

	if provider == nil {
		provider = staticProvider{cfg: config.DefaultConfig()}
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	code := app.Run(ctx, args)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
