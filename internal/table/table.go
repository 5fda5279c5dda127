// Package table implements the open-addressed, tombstone-aware hash table
// used for both string interning and global storage, ported from
// original_source/table.c's findEntry/tableGet/tableSet/tableDelete.
package table

import "github.com/lox-lang/loxvm/internal/value"

const maxLoad = 0.75
const initialCapacity = 8

// entry is one bucket. Three states distinguish it:
//   - empty:     key == nil, value == Nil
//   - live:      key != nil
//   - tombstone: key == nil, value == Bool(true)
//
// Any sentinel distinguishable from both empty and live works (spec §9);
// this is the same encoding original_source/table.c uses.
type entry struct {
	key   *value.String
	value value.Value
}

func isTombstone(e entry) bool {
	if e.key != nil {
		return false
	}
	b, ok := e.value.(value.BoolValue)
	return ok && bool(b)
}

// Table is a linear-probing hash table keyed by interned-string pointer
// identity. count tracks live entries plus tombstones so the 0.75 load
// factor trigger still forces a rehash under delete-heavy workloads.
type Table struct {
	count    int
	capacity int
	entries  []entry
}

// New returns an empty table. Capacity is allocated lazily on first Set,
// matching clox's initTable (count=0, capacity=0, entries=nil).
func New() *Table {
	return &Table{}
}

// Get returns the stored value and true, or (nil, false) on a miss.
func (t *Table) Get(key *value.String) (value.Value, bool) {
	if t.count == 0 {
		return nil, false
	}

	e := t.findEntry(t.entries, t.capacity, key)
	if e.key == nil {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, growing the table first if the insertion
// would push the load factor past 0.75. Returns true iff key was not
// already present (a true "new key" insertion, not a tombstone overwrite of
// an existing live key — tombstone *reuse* for a fresh key still counts as
// new for this return value, matching tableSet's isNewKey).
//
// count is incremented exactly once per insertion that lands in a bucket
// that was Empty-never-tombstoned, and not incremented when reusing a
// tombstone (the tombstone already contributed to count when it was
// created). This is the fix for the double-increment bug documented in
// original_source/table.c and spec.md §9 — do not replicate it.
func (t *Table) Set(key *value.String, val value.Value) bool {
	if float64(t.count+1) > float64(t.capacity)*maxLoad {
		t.adjustCapacity(growCapacity(t.capacity))
	}

	idx := t.findEntryIndex(key)
	e := &t.entries[idx]
	isNewKey := e.key == nil

	if isNewKey && !isTombstone(*e) {
		t.count++
	}

	e.key = key
	e.value = val
	return isNewKey
}

// Delete overwrites key's bucket with a tombstone. count is NOT
// decremented: tombstones keep costing load-factor capacity until the next
// resize clears them, exactly as original_source/table.c documents.
func (t *Table) Delete(key *value.String) bool {
	if t.count == 0 {
		return false
	}

	idx := t.findEntryIndex(key)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}

	e.key = nil
	e.value = value.BoolValue(true)
	return true
}

// AddAll copies every live entry of from into to.
func AddAll(from, to *Table) {
	for _, e := range from.entries {
		if e.key != nil {
			to.Set(e.key, e.value)
		}
	}
}

// FindString walks the probe chain comparing by (length, hash, byte
// content) instead of pointer identity — it exists so the interner can ask
// "does a String with this content already exist?" before a *value.String
// has been constructed to compare pointers against.
func (t *Table) FindString(chars string, hash uint32) *value.String {
	if t.count == 0 {
		return nil
	}

	idx := hash % uint32(t.capacity)
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if !isTombstone(*e) {
				return nil
			}
		} else if e.key.Hash == hash && len(e.key.Chars) == len(chars) && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) % uint32(t.capacity)
	}
}

// Count reports the number of live entries plus tombstones.
func (t *Table) Count() int { return t.count }

// Keys returns the content of every live (non-tombstone) key, in bucket
// order (i.e. unspecified order) — callers that need a stable order should
// sort the result themselves.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.count)
	for _, e := range t.entries {
		if e.key != nil {
			keys = append(keys, e.key.Chars)
		}
	}
	return keys
}

// Capacity reports the current bucket array size.
func (t *Table) Capacity() int { return t.capacity }

// findEntryIndex locates key's bucket in the table's own (already sized)
// entries array, growing first is the caller's responsibility (Set does
// this; Get/Delete/FindString only ever probe an existing table).
func (t *Table) findEntryIndex(key *value.String) int {
	idx := key.Hash % uint32(t.capacity)
	var tombstoneIdx = -1

	for {
		e := &t.entries[idx]
		if e.key == nil {
			if isTombstone(*e) {
				if tombstoneIdx == -1 {
					tombstoneIdx = int(idx)
				}
			} else {
				if tombstoneIdx != -1 {
					return tombstoneIdx
				}
				return int(idx)
			}
		} else if e.key == key {
			return int(idx)
		}
		idx = (idx + 1) % uint32(t.capacity)
	}
}

// findEntry is findEntryIndex against an arbitrary entries slice/capacity,
// used by adjustCapacity to reinsert into the fresh array before t.entries
// is swapped in.
func (t *Table) findEntry(entries []entry, capacity int, key *value.String) *entry {
	idx := key.Hash % uint32(capacity)
	for {
		e := &entries[idx]
		if e.key == nil && !isTombstone(*e) {
			return e
		}
		if e.key == key {
			return e
		}
		idx = (idx + 1) % uint32(capacity)
	}
}

// adjustCapacity is the table's only growth path: allocate a fresh array,
// reinsert every live entry (dropping tombstones), recompute count from
// scratch. Probe chains never survive a resize because the modulus changes.
func (t *Table) adjustCapacity(newCapacity int) {
	fresh := make([]entry, newCapacity)
	for i := range fresh {
		fresh[i] = entry{key: nil, value: value.Nil}
	}

	newCount := 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		dest := t.findEntry(fresh, newCapacity, e.key)
		dest.key = e.key
		dest.value = e.value
		newCount++
	}

	t.entries = fresh
	t.capacity = newCapacity
	t.count = newCount
}

func growCapacity(capacity int) int {
	if capacity < initialCapacity {
		return initialCapacity
	}
	return capacity * 2
}
