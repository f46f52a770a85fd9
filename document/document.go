// Package document provides the ordered key/value tree that item codecs
// encode to and decode from.
//
// A Document is the format-neutral form of an item: keys keep the order in
// which they were set (or read from the wire), and setting an existing key
// replaces its value without moving it. Values are limited to:
//
//	nil, bool, string, int64, float64, []any, *Document
//
// Codecs producing documents normalise their scalars to this set.
package document

// Field is a single key/value pair of a Document.
type Field struct {
	Key   string
	Value any
}

// Document is an ordered set of fields with unique keys.
// The zero value is an empty document ready to use.
type Document struct {
	fields []Field
	index  map[string]int
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Set stores value under key. An existing key keeps its position.
func (d *Document) Set(key string, value any) *Document {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.fields[i].Value = value
		return d
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, Field{Key: key, Value: value})
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.fields[i].Value, true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	for _, f := range d.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Fields returns a copy of the fields in document order.
func (d *Document) Fields() []Field {
	if d == nil {
		return nil
	}
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}
