// SPDX-License-Identifier: MPL-2.0

// Package config handles hashlog configuration using Viper with CUE as the file format.
//
// Configuration is read from the file named by --config, otherwise from
// <user config dir>/hashlog/config.cue, otherwise from hashlog.cue in the
// working directory. Environment variables prefixed with HASHLOG_ override
// file values (HASHLOG_OUTPUT, HASHLOG_UI_VERBOSE, ...). Files are validated
// against the embedded CUE schema (config_schema.cue).
package config
