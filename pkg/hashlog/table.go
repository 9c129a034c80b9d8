// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"slices"
	"sync"
)

// Entry is one hash-to-message record.
type Entry struct {
	Hash    Hash
	Message string
}

// String renders the entry the way the viewer prints it.
func (e Entry) String() string {
	return e.Hash.String() + ": " + e.Message
}

// Table maps hashes to messages. Entries keep their insertion order and no
// two distinct messages ever share a hash. It is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	entries []Entry
	index   map[Hash]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[Hash]int)}
}

// Insert hashes msg and adds it to the table. It reports whether the entry
// is new; re-inserting an identical message is not an error. A different
// message under an existing hash returns a *CollisionError and leaves the
// table unchanged.
func (t *Table) Insert(msg string) (Entry, bool, error) {
	e := Entry{Hash: Sum(msg), Message: msg}
	inserted, err := t.Add(e)
	return e, inserted, err
}

// Add inserts a precomputed entry with the same rules as Insert. The check
// and the insertion happen under one lock.
func (t *Table) Add(e Entry) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i, ok := t.index[e.Hash]; ok {
		existing := t.entries[i].Message
		if existing == e.Message {
			return false, nil
		}
		return false, &CollisionError{Hash: e.Hash, Existing: existing, Conflicting: e.Message}
	}
	t.index[e.Hash] = len(t.entries)
	t.entries = append(t.entries, e)
	return true, nil
}

// Lookup returns the message stored under h.
func (t *Table) Lookup(h Hash) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[h]
	if !ok {
		return "", false
	}
	return t.entries[i].Message, true
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}
