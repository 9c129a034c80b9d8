// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hashlog/hashlog/pkg/hashlog"
)

const (
	// FormatText prints one "0xHHHHHHHH: message" line per entry.
	FormatText Format = "text"
	// FormatJSON prints a JSON array of {"hash", "message"} objects.
	FormatJSON Format = "json"
	// FormatYAML prints a YAML sequence of hash/message mappings.
	FormatYAML Format = "yaml"
	// FormatTOML prints an [[entry]] array of tables.
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format names an output format.
	Format string

	// InvalidFormatError is returned when a Format is not one of the known formats.
	InvalidFormatError struct {
		Value Format
	}

	// Record is the serialized shape of one entry. Hash keeps the viewer's
	// 0x-prefixed upper-case spelling so every format agrees on it.
	Record struct {
		Hash    string `json:"hash" yaml:"hash" toml:"hash"`
		Message string `json:"message" yaml:"message" toml:"message"`
	}

	tomlDocument struct {
		Entry []Record `toml:"entry,omitempty"`
	}
)

// Formats lists the accepted formats, text first.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is one of the defined formats,
// and a list of validation errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// ParseFormat converts a flag value into a Format. Matching ignores case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	return f, nil
}

func (e *InvalidFormatError) Error() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid output format %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Records converts entries to their serialized shape, preserving order.
func Records(entries []hashlog.Entry) []Record {
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = Record{Hash: e.Hash.String(), Message: e.Message}
	}
	return out
}

// Entries writes entries to w in the given format, in the order given.
func Entries(w io.Writer, format Format, entries []hashlog.Entry) error {
	switch format {
	case FormatText:
		return writeText(w, entries)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(Records(entries))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Records(entries)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		enc := toml.NewEncoder(w)
		return enc.Encode(tomlDocument{Entry: Records(entries)})
	default:
		return &InvalidFormatError{Value: format}
	}
}

func writeText(w io.Writer, entries []hashlog.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, e.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
