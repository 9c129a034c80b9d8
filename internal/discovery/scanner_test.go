// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"slices"
	"testing"
)

func TestMatcher_FindAll(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher()
	if err != nil {
		t.Fatalf("NewMatcher() returned error: %v", err)
	}

	tests := []struct {
		name string
		line string
		want []Match
	}{
		{
			name: "single call",
			line: `    Info("Hello, {}!", name);`,
			want: []Match{{Token: "Info", Raw: "Hello, {}!", Column: 5}},
		},
		{
			name: "every severity",
			line: `Trace("t", 1); Debug("d", 1); Warn("w", 1); Error("e", 1); Fatal("f", 1);`,
			want: []Match{
				{Token: "Trace", Raw: "t", Column: 1},
				{Token: "Debug", Raw: "d", Column: 16},
				{Token: "Warn", Raw: "w", Column: 31},
				{Token: "Error", Raw: "e", Column: 45},
				{Token: "Fatal", Raw: "f", Column: 60},
			},
		},
		{
			name: "escaped quote stays inside the literal",
			line: `Warn("say \"hi\", twice", x);`,
			want: []Match{{Token: "Warn", Raw: `say \"hi\", twice`, Column: 1}},
		},
		{
			name: "escaped backslash before closing quote",
			line: `Error("path C:\\", p);`,
			want: []Match{{Token: "Error", Raw: `path C:\\`, Column: 1}},
		},
		{
			name: "no trailing arguments",
			line: `Info("done");`,
			want: nil,
		},
		{
			name: "comma without space",
			line: `Info("x",y);`,
			want: nil,
		},
		{
			name: "skipped call does not hide the next one",
			line: `Info("a"); Debug("b", 2);`,
			want: []Match{{Token: "Debug", Raw: "b", Column: 12}},
		},
		{
			name: "space before paren is not a call",
			line: `Info ("a", 1);`,
			want: nil,
		},
		{
			name: "tokens are case-sensitive",
			line: `info("a", 1); INFO("b", 1);`,
			want: nil,
		},
		{
			name: "token suffix of a longer identifier still matches",
			line: `LogInfo("a", 1);`,
			want: []Match{{Token: "Info", Raw: "a", Column: 4}},
		},
		{
			name: "empty literal",
			line: `Debug("", 0);`,
			want: []Match{{Token: "Debug", Raw: "", Column: 1}},
		},
		{
			name: "unterminated literal",
			line: `Info("never closed, x);`,
			want: nil,
		},
		{
			name: "non-ASCII literal",
			line: `Info("日本語 ✓", 1);`,
			want: []Match{{Token: "Info", Raw: "日本語 ✓", Column: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.FindAll(tt.line)
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindAll(%q) =\n  %+v\nwant\n  %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatcher_Misses(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher("Info")
	if err != nil {
		t.Fatalf("NewMatcher() returned error: %v", err)
	}

	_, misses := m.scan(`Info("a"); Info("b", 1); Info("open`)
	want := []miss{
		{token: "Info", column: 1, code: CodeNoTrailingArguments},
		{token: "Info", column: 26, code: CodeUnterminatedLiteral},
	}
	if !slices.Equal(misses, want) {
		t.Errorf("misses = %+v, want %+v", misses, want)
	}
}

func TestMatcher_CustomTokens(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher("LOG_INFO", "Notice")
	if err != nil {
		t.Fatalf("NewMatcher() returned error: %v", err)
	}
	got := m.FindAll(`LOG_INFO("a", 1); Info("skipped", 1); Notice("b", 2);`)
	want := []Match{
		{Token: "LOG_INFO", Raw: "a", Column: 1},
		{Token: "Notice", Raw: "b", Column: 39},
	}
	if !slices.Equal(got, want) {
		t.Errorf("FindAll() = %+v, want %+v", got, want)
	}
	if tokens := m.Tokens(); !slices.Equal(tokens, []string{"LOG_INFO", "Notice"}) {
		t.Errorf("Tokens() = %v", tokens)
	}
}

func TestNewMatcher_InvalidTokens(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "Info(", `Bad"`} {
		if _, err := NewMatcher("Info", tok); err == nil {
			t.Errorf("NewMatcher(%q) should fail", tok)
		}
	}
}
