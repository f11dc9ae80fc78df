package model

import "strings"

// KeyValue is one component of an identity tuple.
type KeyValue struct {
	Key   Dimension `json:"key"`
	Value string    `json:"value"`
}

// Identity is an ordered tuple of dimension values identifying a series.
type Identity []KeyValue

// IdentityOf extracts the identity tuple of a record for the given keys.
func IdentityOf(r Record, keys []Dimension) Identity {
	id := make(Identity, len(keys))
	for i, k := range keys {
		id[i] = KeyValue{Key: k, Value: r.Dims[k]}
	}
	return id
}

// Get returns the value for a key, "" when the key is not part of the tuple
func (id Identity) Get(d Dimension) string {
	for _, kv := range id {
		if kv.Key == d {
			return kv.Value
		}
	}
	return ""
}

// Key returns a compact string usable as a map key.
func (id Identity) Key() string {
	var b strings.Builder
	for i, kv := range id {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(string(kv.Key))
		b.WriteByte('=')
		b.WriteString(kv.Value)
	}
	return b.String()
}

// Label joins the values with " / " for legends and tables.
func (id Identity) Label() string {
	values := make([]string, len(id))
	for i, kv := range id {
		values[i] = kv.Value
	}
	return strings.Join(values, " / ")
}

func (id Identity) String() string {
	parts := make([]string, len(id))
	for i, kv := range id {
		parts[i] = string(kv.Key) + "=" + kv.Value
	}
	return strings.Join(parts, ", ")
}

func (id Identity) Equal(other Identity) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// CompareIdentity orders two tuples component-wise by value.
func CompareIdentity(a, b Identity) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
