// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashlog/hashlog/internal/render"
	"github.com/hashlog/hashlog/internal/testutil"
	"github.com/hashlog/hashlog/pkg/hashlog"
	"github.com/hashlog/hashlog/pkg/types"
)

// writeHashlog stores messages, in order, as dir/.hashlog.
func writeHashlog(t *testing.T, dir string, messages ...string) string {
	t.Helper()

	table := hashlog.NewTable()
	for _, msg := range messages {
		if _, _, err := table.Insert(msg); err != nil {
			t.Fatalf("Insert(%q): %v", msg, err)
		}
	}
	path := filepath.Join(dir, hashlog.FileName)
	if err := hashlog.WriteFile(path, table); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestView_Text(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeHashlog(t, root, "foobar", "a")

	res := runCLI(t, nil, "view", "-C", root)
	if res.code != types.ExitSuccess {
		t.Fatalf("view exit = %d\nstderr:\n%s", res.code, res.stderr)
	}
	if want := "0xBF9CF968: foobar\n0xE40C292C: a\n"; res.stdout != want {
		t.Errorf("view output = %q, want %q", res.stdout, want)
	}
}

func TestView_FindsParentHashlog(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeHashlog(t, root, "a")
	nested := filepath.Join(root, "src", "deep")
	testutil.MustMkdirAll(t, nested, 0o755)

	res := runCLI(t, nil, "view", "-C", nested)
	if res.code != types.ExitSuccess {
		t.Fatalf("view exit = %d\nstderr:\n%s", res.code, res.stderr)
	}
	if res.stdout != "0xE40C292C: a\n" {
		t.Errorf("view output = %q", res.stdout)
	}
}

func TestView_ExplicitPath(t *testing.T) {
	t.Parallel()

	store := t.TempDir()
	path := writeHashlog(t, store, "b")

	for _, arg := range []string{path, store} {
		res := runCLI(t, nil, "view", "-C", t.TempDir(), "--hashlog", arg)
		if res.code != types.ExitSuccess {
			t.Fatalf("view --hashlog %s exit = %d\nstderr:\n%s", arg, res.code, res.stderr)
		}
		if res.stdout != "0xE70C2DE5: b\n" {
			t.Errorf("view --hashlog %s output = %q", arg, res.stdout)
		}
	}
}

func TestView_JSON(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeHashlog(t, root, "a", "b")

	res := runCLI(t, nil, "view", "-C", root, "--format", "json")
	if res.code != types.ExitSuccess {
		t.Fatalf("view exit = %d\nstderr:\n%s", res.code, res.stderr)
	}
	var records []render.Record
	if err := json.Unmarshal([]byte(res.stdout), &records); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, res.stdout)
	}
	if len(records) != 2 || records[0].Hash != "0xE40C292C" || records[1].Message != "b" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestView_Corrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// Count of 1 with no record behind it.
	testutil.MustWriteFile(t, filepath.Join(root, hashlog.FileName), []byte{1, 0, 0, 0})

	res := runCLI(t, nil, "view", "-C", root)
	if res.code != types.ExitFailure {
		t.Fatalf("view exit = %d, want 1", res.code)
	}
	if res.stdout != "" {
		t.Errorf("nothing may be printed for a corrupt file, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "Regenerate the file") {
		t.Errorf("stderr should suggest regenerating:\n%s", res.stderr)
	}
}

func TestView_Missing(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "view", "-C", t.TempDir(), "--hashlog", "nope/.hashlog")
	if res.code != types.ExitFailure {
		t.Fatalf("view exit = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "hashlog generate") {
		t.Errorf("stderr should suggest generating:\n%s", res.stderr)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeHashlog(t, root, "a", "foobar")

	res := runCLI(t, nil, "lookup", "-C", root, "0xBF9CF968", "e40c292c")
	if res.code != types.ExitSuccess {
		t.Fatalf("lookup exit = %d\nstderr:\n%s", res.code, res.stderr)
	}
	if want := "0xBF9CF968: foobar\n0xE40C292C: a\n"; res.stdout != want {
		t.Errorf("lookup output = %q, want %q", res.stdout, want)
	}

	res = runCLI(t, nil, "lookup", "-C", root, "0xE40C292C", "0x12345678")
	if res.code != types.ExitFailure {
		t.Fatalf("lookup with unknown hash exit = %d, want 1", res.code)
	}
	if want := "0xE40C292C: a\n0x12345678: <unknown>\n"; res.stdout != want {
		t.Errorf("lookup output = %q, want %q", res.stdout, want)
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "hash", "a", "foobar", "")
	if res.code != types.ExitSuccess {
		t.Fatalf("hash exit = %d\nstderr:\n%s", res.code, res.stderr)
	}
	if want := "0xE40C292C: a\n0xBF9CF968: foobar\n0x811C9DC5: \n"; res.stdout != want {
		t.Errorf("hash output = %q, want %q", res.stdout, want)
	}

	res = runCLI(t, nil, "hash", "--unescape", `\x61`)
	if res.stdout != "0xE40C292C: a\n" {
		t.Errorf("hash --unescape output = %q", res.stdout)
	}
}
