package vm

import "github.com/loxlang/loxvm/debug"

// tableMaxLoad is the load-factor threshold past which Table doubles its
// backing array, mirrored from original_source/table/table.c's TABLE_MAX_LOAD.
const tableMaxLoad = 0.75

const tableMinCapacity = 8

type entry struct {
	// key is nil for an empty slot or a tombstone; tombstones are
	// distinguished from truly-empty slots by value being VBool(true)
	// instead of VNil{} (see findEntry).
	key   *VString
	value Value
}

// Table is an open-addressed hash table with linear probing, keyed by
// interned-string identity. It backs both the VM's globals and the
// string-intern set (used as a set by ignoring the value). Grounded on
// original_source/table/table.c — no example in the pack implements this
// algorithm in Go, so it's hand-built per spec.md's explicit open-addressing
// design rather than reached for as a map[string]Value.
type Table struct {
	count    int
	entries  []entry
	capacity int
}

func NewTable() *Table { return &Table{} }

// findEntry returns the slot where key belongs: an exact match if key is
// already present, otherwise the first tombstone seen along the probe chain
// (so a subsequent insert reuses it), or the first truly-empty slot if no
// tombstone was seen. Probing stops at a truly-empty slot (key == nil,
// value == VNil{}); tombstones (key == nil, value == VBool(true)) are
// probed past.
func findEntry(entries []entry, capacity int, key *VString) *entry {
	index := key.hash % uint32(capacity)
	var tombstone *entry
	for {
		e := &entries[index]
		if e.key == nil {
			if _, isNil := e.value.(VNil); isNil {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key {
			return e
		}
		index = (index + 1) % uint32(capacity)
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)
	for i := range entries {
		entries[i] = entry{key: nil, value: VNil{}}
	}

	t.count = 0
	for i := 0; i < t.capacity; i++ {
		old := &t.entries[i]
		if old.key == nil {
			continue
		}
		dest := findEntry(entries, capacity, old.key)
		dest.key = old.key
		dest.value = old.value
		t.count++
	}

	t.entries = entries
	t.capacity = capacity
	debug.AssertEq(capacity, len(t.entries))
}

// Set stores value under key, growing the table first if doing so would
// cross the load-factor threshold. Returns true if key was not already
// present.
func (t *Table) Set(key *VString, value Value) bool {
	if float64(t.count+1) > float64(t.capacity)*tableMaxLoad {
		capacity := t.capacity * 2
		if capacity < tableMinCapacity {
			capacity = tableMinCapacity
		}
		t.adjustCapacity(capacity)
	}

	e := findEntry(t.entries, t.capacity, key)
	isNewKey := e.key == nil
	if _, isNil := e.value.(VNil); isNewKey && isNil {
		t.count++
	}

	e.key = key
	e.value = value
	return isNewKey
}

// Get looks up key, returning (value, true) if present.
func (t *Table) Get(key *VString) (Value, bool) {
	if t.count == 0 {
		return nil, false
	}
	e := findEntry(t.entries, t.capacity, key)
	if e.key == nil {
		return nil, false
	}
	return e.value, true
}

// Delete removes key, leaving a tombstone so later probe chains through this
// slot aren't broken.
func (t *Table) Delete(key *VString) bool {
	if t.count == 0 {
		return false
	}
	e := findEntry(t.entries, t.capacity, key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = VBool(true)
	return true
}

// FindString is the sole content-based lookup: it probes by hash and content
// equality rather than identity, used exclusively by the interning step to
// decide whether a content-equal string already exists on the heap.
func (t *Table) FindString(chars string, hash uint32) *VString {
	if t.count == 0 {
		return nil
	}
	index := hash % uint32(t.capacity)
	for {
		e := &t.entries[index]
		if e.key == nil {
			if _, isNil := e.value.(VNil); isNil {
				return nil
			}
		} else if e.key.hash == hash && e.key.chars == chars {
			return e.key
		}
		index = (index + 1) % uint32(t.capacity)
	}
}
