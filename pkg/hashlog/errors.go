// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"errors"
	"fmt"
)

var (
	// ErrCollision is the sentinel error wrapped by CollisionError.
	ErrCollision = errors.New("hash collision")
	// ErrTruncated is returned when a .hashlog ends before its declared records do.
	ErrTruncated = errors.New("unexpected end of data")
	// ErrTrailingData is returned when bytes follow the last declared record.
	ErrTrailingData = errors.New("trailing data after last record")
	// ErrInvalidUTF8 is returned when a stored message is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("message is not valid UTF-8")
	// ErrDuplicateHash is returned when a .hashlog stores the same hash twice.
	ErrDuplicateHash = errors.New("duplicate hash")
	// ErrTooLarge is returned when a table or message does not fit the
	// 32-bit fields of the layout.
	ErrTooLarge = errors.New("value exceeds 32-bit field")
	// ErrNotFound is returned by Find when no .hashlog exists on the search path.
	ErrNotFound = errors.New(".hashlog not found")
)

type (
	// CollisionError reports two distinct messages that share a hash. It
	// wraps ErrCollision for errors.Is() compatibility.
	CollisionError struct {
		Hash Hash
		// Existing is the message already stored under Hash.
		Existing string
		// Conflicting is the message that was rejected.
		Conflicting string
	}

	// FormatError reports malformed .hashlog contents. Err is one of the
	// package sentinels (ErrTruncated, ErrTrailingData, ...).
	FormatError struct {
		// Offset is the byte offset at which decoding failed.
		Offset int64
		// Record is the zero-based index of the record being decoded, or -1
		// when the failure is in the record count.
		Record int
		Err    error
	}
)

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("hash collision on %s: %q conflicts with %q", e.Hash, e.Conflicting, e.Existing)
}

// Unwrap returns ErrCollision.
func (e *CollisionError) Unwrap() error { return ErrCollision }

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("malformed hashlog at offset %d: record count: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("malformed hashlog at offset %d: record %d: %v", e.Offset, e.Record, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *FormatError) Unwrap() error { return e.Err }
