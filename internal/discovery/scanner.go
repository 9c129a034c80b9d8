// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeverities are the log-call tokens recognized when none are configured.
var DefaultSeverities = []string{"Trace", "Debug", "Info", "Warn", "Error", "Fatal"}

var errEmptyToken = errors.New("empty severity token")

type (
	// Matcher finds log calls of the form Token("literal", in a line.
	Matcher struct {
		tokens []string
	}

	// Match is one extracted log call.
	Match struct {
		// Token is the severity token that introduced the call.
		Token string
		// Raw is the literal text between the quotes, escapes not decoded.
		Raw string
		// Column is the 1-based byte column of Token.
		Column int
	}

	// miss is a call that starts like a log call but is not extracted.
	miss struct {
		token  string
		column int
		code   string
	}
)

// NewMatcher returns a Matcher for the given tokens. Tokens are case-sensitive.
func NewMatcher(tokens ...string) (*Matcher, error) {
	if len(tokens) == 0 {
		tokens = DefaultSeverities
	}
	for _, tok := range tokens {
		if tok == "" {
			return nil, errEmptyToken
		}
		if strings.ContainsAny(tok, "(\"") {
			return nil, fmt.Errorf("severity token %q must not contain '(' or '\"'", tok)
		}
	}
	return &Matcher{tokens: append([]string(nil), tokens...)}, nil
}

// Tokens returns a copy of the configured tokens.
func (m *Matcher) Tokens() []string {
	return append([]string(nil), m.tokens...)
}

// FindAll returns every log call in line, left to right.
func (m *Matcher) FindAll(line string) []Match {
	matches, _ := m.scan(line)
	return matches
}

// scan walks line once. A call whose literal is closed but not followed by
// ", " is reported as a miss and scanning resumes after its closing quote;
// an unclosed literal ends the line.
func (m *Matcher) scan(line string) ([]Match, []miss) {
	var (
		matches []Match
		misses  []miss
	)

	for i := 0; i < len(line); {
		tok, ok := m.callAt(line, i)
		if !ok {
			i++
			continue
		}

		open := i + len(tok) + 2
		end := closingQuote(line, open)
		if end < 0 {
			misses = append(misses, miss{token: tok, column: i + 1, code: CodeUnterminatedLiteral})
			break
		}

		if strings.HasPrefix(line[end+1:], ", ") {
			matches = append(matches, Match{Token: tok, Raw: line[open:end], Column: i + 1})
			i = end + 3
			continue
		}

		misses = append(misses, miss{token: tok, column: i + 1, code: CodeNoTrailingArguments})
		i = end + 1
	}
	return matches, misses
}

// callAt reports the token that starts a Token(" sequence at offset i.
func (m *Matcher) callAt(line string, i int) (string, bool) {
	rest := line[i:]
	for _, tok := range m.tokens {
		if strings.HasPrefix(rest, tok) && strings.HasPrefix(rest[len(tok):], `("`) {
			return tok, true
		}
	}
	return "", false
}

// closingQuote returns the index of the quote that ends the literal starting
// at from, skipping backslash-escaped characters, or -1.
func closingQuote(line string, from int) int {
	for j := from; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}
