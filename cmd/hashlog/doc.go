// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the hashlog command line: generate scans a source
// tree for logging calls and writes the .hashlog table, view and lookup read
// it back, hash computes message hashes, and config manages configuration.
//
// Every command is built by a constructor that takes the *App composition
// root, so tests drive the full tree through App.Run with their own writers
// and configuration provider.
package cmd
