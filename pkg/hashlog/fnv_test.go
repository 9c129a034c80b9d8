// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"hash/fnv"
	"testing"
)

func TestSum_ReferenceVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Hash
	}{
		{"", 0x811C9DC5},
		{"a", 0xE40C292C},
		{"b", 0xE70C2DE5},
		{"foobar", 0xBF9CF968},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := Sum(tt.in); got != tt.want {
				t.Errorf("Sum(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSum_EmptyIsOffsetBasis(t *testing.T) {
	t.Parallel()

	if got := Sum(""); uint32(got) != OffsetBasis {
		t.Errorf("Sum(\"\") = %d, want %d", uint32(got), OffsetBasis)
	}
}

func TestSum_MatchesByteFNVForASCII(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Hello, {}!",
		"Discovered logging message",
		"tab\there\nnewline",
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	}
	for _, in := range inputs {
		ref := fnv.New32a()
		_, _ = ref.Write([]byte(in))
		if got := Sum(in); uint32(got) != ref.Sum32() {
			t.Errorf("Sum(%q) = %s, hash/fnv gives 0x%08X", in, got, ref.Sum32())
		}
	}
}

func TestSum_CodePointsNotBytes(t *testing.T) {
	t.Parallel()

	in := "café ✓"
	want := OffsetBasis
	for _, r := range []rune(in) {
		want ^= uint32(r)
		want *= Prime
	}
	if got := Sum(in); uint32(got) != want {
		t.Errorf("Sum(%q) = %s, want 0x%08X", in, got, want)
	}

	byteHash := fnv.New32a()
	_, _ = byteHash.Write([]byte(in))
	if uint32(Sum(in)) == byteHash.Sum32() {
		t.Errorf("Sum(%q) unexpectedly equals the UTF-8 byte hash", in)
	}
}

func TestSum_Deterministic(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "x", "Error: {}", "ünïcödé"} {
		if Sum(in) != Sum(in) {
			t.Errorf("Sum(%q) is not deterministic", in)
		}
	}
}

func TestHasher_SplitWrites(t *testing.T) {
	t.Parallel()

	in := []byte("naïve ✓ message 日本")
	want := Sum(string(in))

	for split := 0; split <= len(in); split++ {
		h := NewHasher()
		_, _ = h.Write(in[:split])
		_, _ = h.Write(in[split:])
		if got := Hash(h.Sum32()); got != want {
			t.Errorf("split at %d: Sum32() = %s, want %s", split, got, want)
		}
	}

	h := NewHasher()
	for i := range in {
		_, _ = h.Write(in[i : i+1])
	}
	if got := Hash(h.Sum32()); got != want {
		t.Errorf("byte-at-a-time: Sum32() = %s, want %s", got, want)
	}
}

func TestHasher_InvalidUTF8MatchesSum(t *testing.T) {
	t.Parallel()

	tests := []string{
		"\xff",
		"ok\xe2\x82",
		"\xe2a",
		"mid\xc3dle",
	}
	for _, in := range tests {
		h := NewHasher()
		_, _ = h.WriteString(in)
		if got, want := Hash(h.Sum32()), Sum(in); got != want {
			t.Errorf("Hasher(%q) = %s, Sum = %s", in, got, want)
		}
	}
}

func TestHasher_ResetAndSum(t *testing.T) {
	t.Parallel()

	h := NewHasher()
	_, _ = h.WriteString("something")
	h.Reset()
	if got := h.Sum32(); got != OffsetBasis {
		t.Errorf("Sum32() after Reset = 0x%08X, want 0x%08X", got, OffsetBasis)
	}

	_, _ = h.WriteString("a")
	got := h.Sum([]byte{0xAA})
	want := []byte{0xAA, 0xE4, 0x0C, 0x29, 0x2C}
	if string(got) != string(want) {
		t.Errorf("Sum() = % X, want % X", got, want)
	}
	if h.Size() != 4 || h.BlockSize() != 1 {
		t.Errorf("Size/BlockSize = %d/%d, want 4/1", h.Size(), h.BlockSize())
	}
}

func TestHash_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		h    Hash
		want string
	}{
		{0, "0x00000000"},
		{1, "0x00000001"},
		{0xE40C292C, "0xE40C292C"},
		{0xFFFFFFFF, "0xFFFFFFFF"},
	}
	for _, tt := range tests {
		if got := tt.h.String(); got != tt.want {
			t.Errorf("Hash(%d).String() = %q, want %q", uint32(tt.h), got, tt.want)
		}
	}
}

func TestParseHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Hash
		wantErr bool
	}{
		{"0xE40C292C", 0xE40C292C, false},
		{"0xe40c292c", 0xE40C292C, false},
		{"e40c292c", 0xE40C292C, false},
		{"0X1", 1, false},
		{" 0x10 ", 0x10, false},
		{"", 0, true},
		{"0x", 0, true},
		{"0xZZ", 0, true},
		{"0x100000000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseHash(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHash(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHash(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHash(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
