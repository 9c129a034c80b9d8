// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// ParseAndDecode runs the three-step flow used for every CUE input:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schema,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("hashlog.cue"),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return err // error includes the CUE path of the offending field
//	}
package cueutil
