// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the generate and view hot paths:
//   - FNV-1a hashing and table insertion
//   - escape decoding and call matching
//   - source tree discovery
//   - .hashlog encoding, decoding and rendering
//   - CUE configuration parsing
//
// They double as a PGO workload:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
