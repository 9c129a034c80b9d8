// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashlog/hashlog/internal/config"
	"github.com/hashlog/hashlog/internal/discovery"
	"github.com/hashlog/hashlog/internal/render"
	"github.com/hashlog/hashlog/internal/testutil"
	"github.com/hashlog/hashlog/pkg/cueutil"
	"github.com/hashlog/hashlog/pkg/hashlog"
)

const (
	// sampleConfig is a representative hashlog.cue.
	sampleConfig = `
severities: ["Trace", "Debug", "Info", "Warn", "Error", "Fatal", "Audit"]
extensions: [".h", ".inl", ".cpp", ".cc"]
output: "build/.hashlog"
skip_hidden: true
follow_symlinks: false
workers: 8
ui: {
	color_scheme: "dark"
	verbose: false
}
`

	// sampleLine exercises the escape decoder and the argument separator.
	sampleLine = `    Warn("Value \"{}\" out of range [{}..{}]\tat \x41é\101", value, lo, hi); // trailing`

	filesPerDir = 20
	dirs        = 10
)

// messages returns n distinct log messages.
func messages(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Request %d handled in {} ms by worker {}", i)
	}
	return out
}

// sourceTree writes dirs*filesPerDir source files, each with a few calls and
// some unrelated code, and returns the root.
func sourceTree(b *testing.B) string {
	b.Helper()

	root := b.TempDir()
	files := make(map[string]string, dirs*filesPerDir)
	n := 0
	for d := range dirs {
		for f := range filesPerDir {
			var sb strings.Builder
			sb.WriteString("#include <cstdio>\n\nvoid handler() {\n")
			for range 5 {
				fmt.Fprintf(&sb, "    Info(\"Step %d done: {}\", result);\n", n)
				fmt.Fprintf(&sb, "    int x%d = compute(%d);\n", n, n)
				n++
			}
			sb.WriteString("    Error(\"handler failed: {}\", err);\n}\n")
			ext := []string{".cpp", ".h", ".inl"}[f%3]
			files[fmt.Sprintf("mod%02d/file%02d%s", d, f, ext)] = sb.String()
		}
	}
	testutil.WriteTree(b, root, files)
	return root
}

func filledTable(b *testing.B, n int) *hashlog.Table {
	b.Helper()

	t := hashlog.NewTable()
	for _, msg := range messages(n) {
		if _, _, err := t.Insert(msg); err != nil {
			b.Fatalf("Insert: %v", err)
		}
	}
	return t
}

func BenchmarkSum(b *testing.B) {
	msg := "Bytes: {} of {} transferred to é✓ destination"
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	for b.Loop() {
		_ = hashlog.Sum(msg)
	}
}

func BenchmarkTableInsert(b *testing.B) {
	msgs := messages(1000)
	b.ReportAllocs()
	for b.Loop() {
		t := hashlog.NewTable()
		for _, msg := range msgs {
			if _, _, err := t.Insert(msg); err != nil {
				b.Fatalf("Insert: %v", err)
			}
		}
	}
}

func BenchmarkUnescape(b *testing.B) {
	s := `Value \"{}\" out of range\n\tat \x41é\101\U0001F600`
	b.ReportAllocs()
	for b.Loop() {
		_ = discovery.Unescape(s)
	}
}

func BenchmarkMatcherFindAll(b *testing.B) {
	m, err := discovery.NewMatcher(config.DefaultConfig().SeverityStrings()...)
	if err != nil {
		b.Fatalf("NewMatcher: %v", err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if len(m.FindAll(sampleLine)) != 1 {
			b.Fatal("expected one match")
		}
	}
}

func BenchmarkDiscovery(b *testing.B) {
	root := sourceTree(b)
	cfg := config.DefaultConfig()
	d := discovery.New(root,
		discovery.WithSeverities(cfg.SeverityStrings()...),
		discovery.WithExtensions(cfg.ExtensionStrings()...),
	)

	b.ResetTimer()
	for b.Loop() {
		res, err := d.Discover(b.Context(), hashlog.NewTable())
		if err != nil {
			b.Fatalf("Discover: %v", err)
		}
		if res.Files != dirs*filesPerDir {
			b.Fatalf("scanned %d files, want %d", res.Files, dirs*filesPerDir)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	t := filledTable(b, 1000)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if err := hashlog.Encode(io.Discard, t); err != nil {
			b.Fatalf("Encode: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := hashlog.Marshal(filledTable(b, 1000))
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := hashlog.Decode(bytes.NewReader(data)); err != nil {
			b.Fatalf("Decode: %v", err)
		}
	}
}

func BenchmarkRoundTripFile(b *testing.B) {
	t := filledTable(b, 1000)
	path := filepath.Join(b.TempDir(), hashlog.FileName)

	b.ResetTimer()
	for b.Loop() {
		if err := hashlog.WriteFile(path, t); err != nil {
			b.Fatalf("WriteFile: %v", err)
		}
		if _, err := hashlog.ReadFile(path); err != nil {
			b.Fatalf("ReadFile: %v", err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	entries := filledTable(b, 500).Entries()
	for _, format := range render.Formats() {
		b.Run(format.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if err := render.Entries(io.Discard, format, entries); err != nil {
					b.Fatalf("Entries(%s): %v", format, err)
				}
			}
		})
	}
}

func BenchmarkConfigParsing(b *testing.B) {
	schema := []byte(config.Schema())
	data := []byte(sampleConfig)

	b.ResetTimer()
	for b.Loop() {
		if _, err := cueutil.ParseAndDecode[config.Config](schema, data, "#Config"); err != nil {
			b.Fatalf("ParseAndDecode: %v", err)
		}
	}
}
