package gnest

import (
	"sort"
	"sync"
)

// Table is an ordered name -> value mapping. It backs both the middleware
// alias table and the namespace table: populated at startup, extended by
// explicit merges, never shrunk.
type Table struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]string
}

// Entry is one ordered table row.
type Entry struct {
	Key   string
	Value string
}

// NewTable seeds a table from a map. Maps carry no order, so the keys are
// sorted; use NewOrderedTable when the order matters.
func NewTable(entries map[string]string) *Table {
	return NewOrderedTable(entriesOf(entries))
}

// NewOrderedTable seeds a table in the given order. A repeated key keeps
// its first position and takes the last value.
func NewOrderedTable(entries []Entry) *Table {
	t := &Table{values: make(map[string]string, len(entries))}
	t.push(entries, true)
	return t
}

func (t *Table) Get(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[key]
	return v, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

// Keys returns the keys in table order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.keys...)
}

// Merge folds entries into the table.
//
// With end set, new keys are appended after the existing ones and incoming
// values override existing ones. Otherwise new keys are placed in front and
// existing values win.
func (t *Table) Merge(entries map[string]string, end bool) {
	t.Push(entriesOf(entries), end)
}

// Push is Merge for ordered entries; new keys keep their relative order.
func (t *Table) Push(entries []Entry, end bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.push(entries, end)
}

func (t *Table) push(entries []Entry, end bool) {
	var fresh []string
	for _, e := range entries {
		if _, ok := t.values[e.Key]; ok {
			if end {
				t.values[e.Key] = e.Value
			}
			continue
		}
		fresh = append(fresh, e.Key)
		t.values[e.Key] = e.Value
	}
	if end {
		t.keys = append(t.keys, fresh...)
	} else {
		t.keys = append(fresh, t.keys...)
	}
}

// Clone returns an independent copy; dispatch works on clones so a
// concurrent Merge can never be observed half-way.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := &Table{
		keys:   append([]string(nil), t.keys...),
		values: make(map[string]string, len(t.values)),
	}
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

func entriesOf(m map[string]string) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k, Value: m[k]}
	}
	return out
}
