// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSetConfigHome(t *testing.T) {
	key := "XDG_CONFIG_HOME"
	switch runtime.GOOS {
	case "windows":
		key = "APPDATA"
	case "darwin":
		key = "HOME"
	}

	tmpDir := t.TempDir()
	original, had := os.LookupEnv(key)

	cleanup := SetConfigHome(t, tmpDir)
	if got := os.Getenv(key); got != tmpDir {
		t.Errorf("%s = %q, want %q", key, got, tmpDir)
	}

	cleanup()
	got, has := os.LookupEnv(key)
	if has != had || got != original {
		t.Errorf("after cleanup %s = %q (set=%v), want %q (set=%v)", key, got, has, original, had)
	}
}

func TestWriteTree(t *testing.T) {
	root := t.TempDir()
	WriteTree(t, root, map[string]string{
		"a.cpp":        "one",
		"nested/b/c.h": "two",
		"nested/d.inl": "",
	})

	for rel, want := range map[string]string{"a.cpp": "one", "nested/b/c.h": "two", "nested/d.inl": ""} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", rel, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", rel, data, want)
		}
	}
}

func TestMustUnsetenv(t *testing.T) {
	const key = "HASHLOG_TESTUTIL_PROBE"
	t.Cleanup(MustSetenv(t, key, "x"))

	restore := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Fatalf("%s still set", key)
	}
	restore()
	if got := os.Getenv(key); got != "x" {
		t.Errorf("%s = %q after restore, want x", key, got)
	}
}
