package dom

import "strings"

// AttributeStore backs the reflected properties of forms and controls.
type AttributeStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Keys() []string
}

// WithAttributeStore makes a form reflect its properties through s instead
// of a private Attributes value.
func WithAttributeStore(s AttributeStore) Option {
	return func(o *options) { o.attrs = s }
}

// Attributes is an ordered attribute map. Keys are ASCII-lowercased, the way
// HTML attribute names are matched.
type Attributes struct {
	values map[string]string
	order  []string
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

func (a *Attributes) Get(key string) (string, bool) {
	v, ok := a.values[strings.ToLower(key)]
	return v, ok
}

func (a *Attributes) Set(key, value string) {
	key = strings.ToLower(key)
	if _, ok := a.values[key]; !ok {
		a.order = append(a.order, key)
	}
	a.values[key] = value
}

func (a *Attributes) Remove(key string) {
	key = strings.ToLower(key)
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Keys returns attribute names in first-set order.
func (a *Attributes) Keys() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Has reports whether key is set, whatever its value.
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Clone returns an independent copy.
func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	for _, k := range a.order {
		c.Set(k, a.values[k])
	}
	return c
}

func getOr(s AttributeStore, key, fallback string) string {
	if v, ok := s.Get(key); ok && v != "" {
		return v
	}
	return fallback
}

var _ AttributeStore = (*Attributes)(nil)
