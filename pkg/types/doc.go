// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the hashlog command line
// and anything that embeds it.
package types
