// SPDX-License-Identifier: MPL-2.0

package discovery

import "testing"

func TestUnescape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no escapes", "Hello, {}!", "Hello, {}!"},
		{"newline and tab", `a\nb\tc`, "a\nb\tc"},
		{"quotes and backslash", `\"q\" \'s\' \\`, `"q" 's' \`},
		{"control escapes", `\a\b\f\r\v`, "\a\b\f\r\v"},
		{"octal one digit", `\0`, "\x00"},
		{"octal three digits", `\101\102`, "AB"},
		{"octal stops at three digits", `\1014`, "A4"},
		{"octal stops at non-octal", `\18`, "\x018"},
		{"octal above one byte", `\777`, "\u01FF"},
		{"hex", `\x41\x7a`, "Az"},
		{"hex high byte is a code point", `\xe9`, "é"},
		{"hex too short", `\x4`, `\x4`},
		{"hex not hex", `\xZZ`, `\xZZ`},
		{"unicode", `\u00e9\u2713`, "\u00e9\u2713"},
		{"unicode upper", `\U0001F600`, "😀"},
		{"surrogate", `\ud800`, "\uFFFD"},
		{"out of range", `\U00110000`, "\uFFFD"},
		{"unknown escape kept", `\q\d`, `\q\d`},
		{"named escape kept", `\N{BULLET}`, `\N{BULLET}`},
		{"trailing backslash kept", `end\`, `end\`},
		{"raw non-ASCII untouched", `日本\n語`, "日本\n語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Unescape(tt.in); got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
