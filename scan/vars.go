package scan

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Map is a mapping from variable name to the most recently seen binding.
//
// The zero value is an empty Map ready to use. Iteration is in name order.
type Map struct {
	entries map[string]Binding
}

// NewMap returns a Map containing bindings, applied in order.
func NewMap(bindings ...Binding) *Map {
	m := &Map{entries: make(map[string]Binding, len(bindings))}

	for _, b := range bindings {
		m.Set(b)
	}

	return m
}

// Set inserts b, replacing any earlier binding with the same name.
func (m *Map) Set(b Binding) {
	if m.entries == nil {
		m.entries = make(map[string]Binding)
	}

	m.entries[b.Name] = b
}

// Get returns the raw value bound to name.
func (m *Map) Get(name string) (string, bool) {
	b, ok := m.Lookup(name)

	return b.Value, ok
}

// Lookup returns the binding for name.
func (m *Map) Lookup(name string) (Binding, bool) {
	if m == nil {
		return Binding{}, false
	}

	b, ok := m.entries[name]

	return b, ok
}

// Len returns the number of distinct names.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Names returns the bound names in sorted order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(m.entries))
}

// All returns an iterator over name/value pairs in name order.
func (m *Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range m.Names() {
			if !yield(name, m.entries[name].Value) {
				return
			}
		}
	}
}

// Bindings returns an iterator over bindings in name order.
func (m *Map) Bindings() iter.Seq[Binding] {
	return func(yield func(Binding) bool) {
		for _, name := range m.Names() {
			if !yield(m.entries[name]) {
				return
			}
		}
	}
}

// ToMap returns a copy of the mapping as a native map.
func (m *Map) ToMap() map[string]string {
	result := make(map[string]string, m.Len())

	for name, value := range m.All() {
		result[name] = value
	}

	return result
}

// Equal reports whether m and other bind the same names to the same values.
// Line numbers are not compared.
func (m *Map) Equal(other *Map) bool {
	return maps.Equal(m.ToMap(), other.ToMap())
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return NewMap()
	}

	return &Map{entries: maps.Clone(m.entries)}
}

// LogValue implements slog.LogValuer.
func (m *Map) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("count", m.Len()))
}
