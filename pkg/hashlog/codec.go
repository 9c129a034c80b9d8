// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"
)

const (
	// FileName is the conventional name of the hash table file.
	FileName = ".hashlog"

	// recordHeaderSize is the fixed part of a record (hash + length).
	recordHeaderSize = 8
)

// Encode writes the table to w in insertion order. Size limits are checked
// before the first byte is written.
func Encode(w io.Writer, t *Table) error {
	entries := t.Entries()
	if uint64(len(entries)) > math.MaxUint32 {
		return &FormatError{Record: -1, Err: ErrTooLarge}
	}
	for i, e := range entries {
		if uint64(len(e.Message)) > math.MaxUint32 {
			return &FormatError{Record: i, Err: ErrTooLarge}
		}
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, recordHeaderSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entries)))
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for _, e := range entries {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Hash))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(e.Message)))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Message); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Marshal returns the encoded form of the table.
func Marshal(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a complete .hashlog image. Every short read, oversized
// length, stray trailing byte, invalid UTF-8 message and repeated hash is a
// *FormatError.
func Unmarshal(data []byte) (*Table, error) {
	var off int64
	if len(data) < 4 {
		return nil, &FormatError{Offset: 0, Record: -1, Err: ErrTruncated}
	}
	count := binary.LittleEndian.Uint32(data)
	off = 4

	// Every record needs at least its header, so a count that cannot fit in
	// the remaining bytes is rejected before anything is allocated.
	if uint64(count)*recordHeaderSize > uint64(len(data))-uint64(off) {
		return nil, &FormatError{Offset: off, Record: -1, Err: ErrTruncated}
	}

	t := NewTable()
	for i := 0; i < int(count); i++ {
		remaining := int64(len(data)) - off
		if remaining < recordHeaderSize {
			return nil, &FormatError{Offset: off, Record: i, Err: ErrTruncated}
		}
		h := Hash(binary.LittleEndian.Uint32(data[off:]))
		n := int64(binary.LittleEndian.Uint32(data[off+4:]))
		off += recordHeaderSize

		if n > int64(len(data))-off {
			return nil, &FormatError{Offset: off, Record: i, Err: fmt.Errorf("%w: message length %d exceeds %d remaining bytes", ErrTruncated, n, int64(len(data))-off)}
		}
		msg := data[off : off+n]
		if !utf8.Valid(msg) {
			return nil, &FormatError{Offset: off, Record: i, Err: ErrInvalidUTF8}
		}
		inserted, err := t.Add(Entry{Hash: h, Message: string(msg)})
		if err != nil || !inserted {
			return nil, &FormatError{Offset: off - recordHeaderSize, Record: i, Err: fmt.Errorf("%w %s", ErrDuplicateHash, h)}
		}
		off += n
	}

	if off != int64(len(data)) {
		return nil, &FormatError{Offset: off, Record: int(count), Err: fmt.Errorf("%w: %d bytes", ErrTrailingData, int64(len(data))-off)}
	}
	return t, nil
}

// Decode reads a complete .hashlog image from r. See Unmarshal.
func Decode(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// WriteFile encodes the table to path, replacing any existing file. The write
// is direct; a failure part way through can leave a truncated file behind.
func WriteFile(path string, t *Table) error {
	// Encode into memory first so size errors never touch the destination.
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() // the write error is the one worth reporting
		return err
	}
	return f.Close()
}

// ReadFile decodes the .hashlog at path.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
