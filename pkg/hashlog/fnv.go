// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"fmt"
	"hash"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// OffsetBasis is the FNV-1a 32-bit offset basis. It is also the hash of
	// the empty message.
	OffsetBasis uint32 = 2166136261
	// Prime is the FNV-1a 32-bit prime.
	Prime uint32 = 16777619

	// Size is the size of a hash in bytes.
	Size = 4
)

// Hash is the 32-bit identifier of a log message.
type Hash uint32

// compile-time check
var _ hash.Hash32 = (*Hasher)(nil)

// String renders the hash as 0x followed by 8 upper-case hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("0x%08X", uint32(h))
}

// ParseHash parses a hash written as hex, with or without a 0x prefix.
func ParseHash(s string) (Hash, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("invalid hash %q: no hex digits", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Hash(v), nil
}

// Sum returns the FNV-1a hash of msg. Each Unicode code point is mixed in as
// one unit (xor, then multiply), so non-ASCII messages do not hash like their
// UTF-8 bytes. Invalid UTF-8 bytes are mixed in as U+FFFD.
func Sum(msg string) Hash {
	h := OffsetBasis
	for _, r := range msg {
		h ^= uint32(r)
		h *= Prime
	}
	return Hash(h)
}

// Hasher computes Sum incrementally over UTF-8 input. A code point split
// across Write calls is buffered until it is complete.
type Hasher struct {
	state   uint32
	pending [utf8.UTFMax]byte
	n       int
}

// NewHasher returns a Hasher in its initial state.
func NewHasher() *Hasher {
	return &Hasher{state: OffsetBasis}
}

// Write mixes p into the hash. It never returns an error.
func (h *Hasher) Write(p []byte) (int, error) {
	total := len(p)
	if h.n > 0 {
		for len(p) > 0 && !utf8.FullRune(h.pending[:h.n]) {
			h.pending[h.n] = p[0]
			h.n++
			p = p[1:]
		}
		if !utf8.FullRune(h.pending[:h.n]) {
			return total, nil
		}
		r, size := utf8.DecodeRune(h.pending[:h.n])
		h.state = mix(h.state, r)
		rest := append([]byte(nil), h.pending[size:h.n]...)
		h.n = 0
		if len(rest) > 0 {
			p = append(rest, p...)
		}
	}
	for len(p) > 0 {
		if !utf8.FullRune(p) {
			h.n = copy(h.pending[:], p)
			break
		}
		r, size := utf8.DecodeRune(p)
		h.state = mix(h.state, r)
		p = p[size:]
	}
	return total, nil
}

// WriteString mixes s into the hash.
func (h *Hasher) WriteString(s string) (int, error) {
	return h.Write([]byte(s))
}

// Sum32 returns the hash of everything written so far. Buffered bytes of an
// incomplete code point are mixed in as U+FFFD, as Sum would.
func (h *Hasher) Sum32() uint32 {
	state := h.state
	tail := h.pending[:h.n]
	for len(tail) > 0 {
		r, size := utf8.DecodeRune(tail)
		state = mix(state, r)
		tail = tail[size:]
	}
	return state
}

// Sum appends the big-endian hash to b.
func (h *Hasher) Sum(b []byte) []byte {
	s := h.Sum32()
	return append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Reset restores the initial state.
func (h *Hasher) Reset() {
	h.state = OffsetBasis
	h.n = 0
}

// Size returns the number of bytes Sum appends.
func (h *Hasher) Size() int { return Size }

// BlockSize returns 1; the hash has no block structure.
func (h *Hasher) BlockSize() int { return 1 }

func mix(state uint32, r rune) uint32 {
	state ^= uint32(r)
	return state * Prime
}
