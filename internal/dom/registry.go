package dom

import (
	"github.com/zjrosen/formdom/internal/log"
)

// Option configures a ControlRegistry or a Form.
type Option func(*options)

type options struct {
	checkInvariants bool
	attrs           AttributeStore
	bus             EventPublisher
}

// WithInvariantChecks makes every registry mutation call Verify and panic
// with the *InvariantError when the views disagree. Meant for tests and
// debugging sessions.
func WithInvariantChecks() Option {
	return func(o *options) { o.checkInvariants = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// formView is the form-side cache of the registry: numeric slots and named
// entries. Only the registry writes to it.
type formView struct {
	slots []Control
	named map[string]NamedItem
}

func newFormView() *formView {
	return &formView{named: make(map[string]NamedItem)}
}

// setIndex exposes c at slot i. Slots may only be overwritten or grown by
// one; anything else would leave a hole in the numeric projection.
func (v *formView) setIndex(i int, c Control) {
	switch {
	case i >= 0 && i < len(v.slots):
		v.slots[i] = c
	case i == len(v.slots):
		v.slots = append(v.slots, c)
	default:
		panic(violation("setIndex", "slot %d would leave a gap after %d slots", i, len(v.slots)))
	}
}

// deleteIndex drops the trailing slot i.
func (v *formView) deleteIndex(i int) {
	if i != len(v.slots)-1 {
		panic(violation("deleteIndex", "slot %d is not the trailing slot of %d", i, len(v.slots)))
	}
	v.slots[i] = nil
	v.slots = v.slots[:i]
}

func (v *formView) setNamed(name string, item NamedItem) {
	v.named[name] = item
}

func (v *formView) deleteNamed(name string) {
	delete(v.named, name)
}

// ControlRegistry owns the ordered, duplicate-free set of controls attached
// to a form and the name projection derived from it.
type ControlRegistry struct {
	items  []Control
	keys   map[Control]string // name each item is registered under
	byName map[string][]Control
	names  []string // names in first-registration order
	view   *formView
	verify bool
}

// NewControlRegistry creates a registry that is not owned by a form. Forms
// create their own through NewForm.
func NewControlRegistry(opts ...Option) *ControlRegistry {
	return newControlRegistry(newFormView(), applyOptions(opts))
}

func newControlRegistry(view *formView, o options) *ControlRegistry {
	return &ControlRegistry{
		keys:   make(map[Control]string),
		byName: make(map[string][]Control),
		view:   view,
		verify: o.checkInvariants,
	}
}

// Length returns the number of attached controls.
func (r *ControlRegistry) Length() int {
	return len(r.items)
}

// Contains reports whether c is attached.
func (r *ControlRegistry) Contains(c Control) bool {
	if c == nil {
		return false
	}
	_, ok := r.keys[c]
	return ok
}

// Item returns the control at index i.
func (r *ControlRegistry) Item(i int) (Control, bool) {
	if i < 0 || i >= len(r.items) {
		return nil, false
	}
	return r.items[i], true
}

// IndexOf returns the position of c, or -1 when it is not attached.
func (r *ControlRegistry) IndexOf(c Control) int {
	if !r.Contains(c) {
		return -1
	}
	for i, item := range r.items {
		if item == c {
			return i
		}
	}
	return -1
}

// NamedItem returns every control registered under name.
func (r *ControlRegistry) NamedItem(name string) (NamedItem, bool) {
	group, ok := r.byName[name]
	if !ok {
		return NamedItem{}, false
	}
	return newNamedItem(group), true
}

// Elements returns the attached controls in order.
func (r *ControlRegistry) Elements() []Control {
	out := make([]Control, len(r.items))
	copy(out, r.items)
	return out
}

// Names returns the registered names in first-registration order.
func (r *ControlRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Attach appends c under name. Attaching a control that is already present
// is a no-op, whatever name is passed. An empty name leaves the name
// projection untouched.
func (r *ControlRegistry) Attach(c Control, name string) {
	if c == nil || r.Contains(c) {
		return
	}

	r.items = append(r.items, c)
	r.keys[c] = name
	r.view.setIndex(len(r.items)-1, c)

	if name != "" {
		r.addNamed(c, name)
	}

	log.Debug(log.CatRegistry, "attached control", "type", describe(c), "name", name, "length", len(r.items))
	r.check("attach")
}

// Detach removes c. Detaching an absent control is a no-op. The control is
// removed from the group it was registered under; a differing name argument
// is logged and otherwise ignored so the name projection cannot go stale.
func (r *ControlRegistry) Detach(c Control, name string) {
	if !r.Contains(c) {
		return
	}

	key := r.keys[c]
	if key != name {
		log.Warn(log.CatRegistry, "detach name differs from registered name", "type", describe(c), "name", name, "registered", key)
	}

	index := r.IndexOf(c)
	last := len(r.items) - 1
	copy(r.items[index:], r.items[index+1:])
	r.items[last] = nil
	r.items = r.items[:last]
	delete(r.keys, c)

	// Close the gap in the numeric projection before touching names.
	for i := index; i < len(r.items); i++ {
		r.view.setIndex(i, r.items[i])
	}
	r.view.deleteIndex(last)

	if key != "" {
		r.removeNamed(c, key)
	}

	log.Debug(log.CatRegistry, "detached control", "type", describe(c), "name", key, "index", index, "length", len(r.items))
	r.check("detach")
}

// Rename moves an attached control to the group for name without changing
// its position. No-op for absent controls or an unchanged name.
func (r *ControlRegistry) Rename(c Control, name string) {
	if !r.Contains(c) {
		return
	}
	old := r.keys[c]
	if old == name {
		return
	}

	r.keys[c] = name
	if old != "" {
		r.removeNamed(c, old)
	}
	if name != "" {
		r.addNamed(c, name)
	}

	log.Debug(log.CatRegistry, "renamed control", "type", describe(c), "from", old, "to", name)
	r.check("rename")
}

// CheckValidity walks the controls in order and returns false at the first
// invalid one; later controls are not consulted. The walk covers the controls
// attached when it starts, so a control may detach itself or others while
// being checked.
func (r *ControlRegistry) CheckValidity() bool {
	for i, c := range r.Elements() {
		if !c.CheckValidity() {
			log.Debug(log.CatRegistry, "control failed validation", "index", i, "type", describe(c), "name", r.keys[c])
			return false
		}
	}
	return true
}

func (r *ControlRegistry) addNamed(c Control, name string) {
	group, ok := r.byName[name]
	if !ok {
		r.names = append(r.names, name)
	}
	group = append(group, c)
	r.byName[name] = group
	r.view.setNamed(name, newNamedItem(group))
}

func (r *ControlRegistry) removeNamed(c Control, name string) {
	group := r.byName[name]
	for i, member := range group {
		if member == c {
			group = append(group[:i], group[i+1:]...)
			break
		}
	}

	if len(group) > 0 {
		r.byName[name] = group
		r.view.setNamed(name, newNamedItem(group))
		return
	}

	delete(r.byName, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	r.view.deleteNamed(name)
}

func (r *ControlRegistry) check(op string) {
	if !r.verify {
		return
	}
	if err := r.Verify(); err != nil {
		if ie, ok := err.(*InvariantError); ok {
			ie.Op = op + ": " + ie.Op
		}
		panic(err)
	}
}

// describe names a control for log output.
func describe(c Control) string {
	if k, ok := c.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return "control"
}
