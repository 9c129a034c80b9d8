// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"strings"
	"unicode/utf8"
)

// Unescape decodes the backslash escapes of a captured string literal.
//
// Recognized: \\ \' \" \a \b \f \n \r \t \v, octal \o \oo \ooo, \xhh,
// \uhhhh and \Uhhhhhhhh. Anything else, including an escape with too few
// hex digits and a trailing lone backslash, is kept verbatim. Surrogates
// and values above U+10FFFF decode to U+FFFD.
func Unescape(s string) string {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])

	for i < len(s) {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte('\\')
			break
		}

		next := s[i+1]
		if r, ok := simpleEscapes[next]; ok {
			b.WriteByte(r)
			i += 2
			continue
		}

		switch {
		case isOctal(next):
			v, n := 0, 0
			for n < 3 && i+1+n < len(s) && isOctal(s[i+1+n]) {
				v = v*8 + int(s[i+1+n]-'0')
				n++
			}
			b.WriteRune(rune(v))
			i += 1 + n
		case next == 'x' || next == 'u' || next == 'U':
			width := hexWidth[next]
			v, ok := parseHex(s, i+2, width)
			if !ok {
				b.WriteString(s[i : i+2])
				i += 2
				continue
			}
			writeCodePoint(&b, v)
			i += 2 + width
		default:
			b.WriteString(s[i : i+2])
			i += 2
		}
	}
	return b.String()
}

var (
	simpleEscapes = map[byte]byte{
		'\\': '\\',
		'\'': '\'',
		'"':  '"',
		'a':  '\a',
		'b':  '\b',
		'f':  '\f',
		'n':  '\n',
		'r':  '\r',
		't':  '\t',
		'v':  '\v',
	}

	hexWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}
)

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

func parseHex(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	var v rune
	for _, c := range []byte(s[start : start+width]) {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		v = v<<4 | rune(d)
	}
	return v, true
}

// writeCodePoint writes v, mapping values WriteRune cannot encode to U+FFFD.
func writeCodePoint(b *strings.Builder, v rune) {
	if !utf8.ValidRune(v) {
		v = utf8.RuneError
	}
	b.WriteRune(v)
}
