// SPDX-License-Identifier: MPL-2.0

// Package render writes hashlog entries in the output formats accepted by
// `hashlog view --format`. The text format is the canonical viewer output,
// one "0xHHHHHHHH: message" line per entry; json, yaml and toml carry the
// same records for tooling.
package render
