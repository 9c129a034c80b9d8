// SPDX-License-Identifier: MPL-2.0

// Package hashlog implements the message hash table used by hash-based logging
// and its on-disk ".hashlog" encoding.
//
// A logging runtime that emits hashes instead of format strings needs a stable
// identifier per message. Sum computes that identifier (FNV-1a 32-bit over the
// Unicode code points of the message), Table accumulates messages while
// rejecting distinct messages that share a hash, and Encode/Decode convert a
// Table to and from the binary layout:
//
//	uint32 record_count
//	record_count × { uint32 hash; uint32 length; [length]byte utf8 message }
//
// All integers are little-endian. The layout carries no header, version or
// checksum; the file is always regenerated from source and never merged.
package hashlog
