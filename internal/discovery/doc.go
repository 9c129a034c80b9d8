// SPDX-License-Identifier: MPL-2.0

// Package discovery finds logging messages in a source tree and collects them
// into a hashlog.Table.
//
// File organization:
//   - discovery.go: Discovery, its options and the Discover pass
//   - scanner.go: the log-call matcher applied to each line
//   - unescape.go: backslash escape decoding of captured literals
//   - observer.go: progress callbacks for the CLI layer
//   - diagnostic.go: non-fatal findings returned with the Result
package discovery
