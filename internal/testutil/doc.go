// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail fast on
// setup errors instead of repeating the same error checks in every test.
//
// Helpers cover environment and working directory changes (MustSetenv,
// MustChdir, SetConfigHome) and source tree fixtures (WriteTree).
package testutil
