package dom

import (
	"github.com/zjrosen/formdom/internal/log"
)

// Form is an emulated form element. It owns the registry of its controls
// and exposes that registry through numeric and name lookups.
type Form struct {
	attrs    AttributeStore
	view     *formView
	elements *ControlRegistry
	target   *EventTarget
	opts     options
}

// NewForm creates a form with an empty registry.
func NewForm(opts ...Option) *Form {
	o := applyOptions(opts)
	attrs := o.attrs
	if attrs == nil {
		attrs = NewAttributes()
	}
	view := newFormView()
	f := &Form{
		attrs:    attrs,
		view:     view,
		elements: newControlRegistry(view, o),
		target:   NewEventTarget("form"),
		opts:     o,
	}
	f.target.publisher = o.bus
	return f
}

// Elements returns the form's control registry.
func (f *Form) Elements() *ControlRegistry {
	return f.elements
}

// Attributes returns the store backing the reflected properties.
func (f *Form) Attributes() AttributeStore {
	return f.attrs
}

// EventTarget returns the target submit and reset are dispatched on.
func (f *Form) EventTarget() *EventTarget {
	return f.target
}

// Length returns the number of attached controls.
func (f *Form) Length() int {
	return len(f.view.slots)
}

// Item returns the control at index i.
func (f *Form) Item(i int) (Control, bool) {
	if i < 0 || i >= len(f.view.slots) {
		return nil, false
	}
	return f.view.slots[i], true
}

// NamedItem returns the controls registered under name.
func (f *Form) NamedItem(name string) (NamedItem, bool) {
	item, ok := f.view.named[name]
	return item, ok
}

// AppendControl attaches c under name. Called by controls when they become
// associated with the form.
func (f *Form) AppendControl(c Control, name string) {
	f.elements.Attach(c, name)
}

// RemoveControl detaches c. Called by controls when they leave the form.
func (f *Form) RemoveControl(c Control, name string) {
	f.elements.Detach(c, name)
}

// RenameControl re-keys an attached control without moving it.
func (f *Form) RenameControl(c Control, name string) {
	f.elements.Rename(c, name)
}

// CheckValidity reports whether every attached control is valid.
func (f *Form) CheckValidity() bool {
	valid := f.elements.CheckValidity()
	log.Debug(log.CatForm, "checked validity", "form", f.label(), "controls", f.Length(), "valid", valid)
	return valid
}

// ReportValidity behaves like CheckValidity.
func (f *Form) ReportValidity() bool {
	return f.CheckValidity()
}

// Submit dispatches a bubbling, cancelable submit event. Returns false when a
// listener canceled it.
func (f *Form) Submit() bool {
	return f.target.Dispatch(NewEvent(EventSubmit, EventInit{Bubbles: true, Cancelable: true}))
}

// Reset dispatches a bubbling, cancelable reset event. Returns false when a
// listener canceled it.
func (f *Form) Reset() bool {
	return f.target.Dispatch(NewEvent(EventReset, EventInit{Bubbles: true, Cancelable: true}))
}

// SetOnSubmit installs the onsubmit handler; nil clears it.
func (f *Form) SetOnSubmit(fn Listener) {
	f.target.SetHandler(EventSubmit, fn)
}

// SetOnReset installs the onreset handler; nil clears it.
func (f *Form) SetOnReset(fn Listener) {
	f.target.SetHandler(EventReset, fn)
}

// SetOnFormData installs the onformdata handler; nil clears it.
func (f *Form) SetOnFormData(fn Listener) {
	f.target.SetHandler(EventFormData, fn)
}

// Clone returns a new form with a copy of the attributes and its own
// registry. A shallow clone has no controls. A deep clone clones every
// attached control that implements Cloner and associates the copies with the
// new form, in the original order.
func (f *Form) Clone(deep bool) *Form {
	o := f.opts
	o.attrs = cloneAttributes(f.attrs)
	clone := NewForm(func(dst *options) { *dst = o })

	if deep {
		for _, c := range f.elements.items {
			cl, ok := c.(Cloner)
			if !ok {
				continue
			}
			copied := cl.CloneControl()
			if fa, ok := copied.(FormAssociated); ok {
				fa.SetForm(clone)
			} else {
				clone.AppendControl(copied, copied.Name())
			}
		}
	}

	log.Debug(log.CatForm, "cloned form", "form", f.label(), "deep", deep, "controls", clone.Length())
	return clone
}

func cloneAttributes(s AttributeStore) AttributeStore {
	if a, ok := s.(*Attributes); ok {
		return a.Clone()
	}
	c := NewAttributes()
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		c.Set(k, v)
	}
	return c
}

func (f *Form) label() string {
	if id := f.ID(); id != "" {
		return id
	}
	return f.Name()
}

// Reflected attributes.

func (f *Form) ID() string { return getOr(f.attrs, "id", "") }
func (f *Form) SetID(id string) { f.attrs.Set("id", id) }
func (f *Form) Name() string { return getOr(f.attrs, "name", "") }
func (f *Form) SetName(name string) { f.attrs.Set("name", name) }

// Method defaults to "get".
func (f *Form) Method() string { return getOr(f.attrs, "method", "get") }
func (f *Form) SetMethod(method string) { f.attrs.Set("method", method) }

func (f *Form) Target() string { return getOr(f.attrs, "target", "") }
func (f *Form) SetTarget(target string) { f.attrs.Set("target", target) }
func (f *Form) Action() string { return getOr(f.attrs, "action", "") }
func (f *Form) SetAction(action string) { f.attrs.Set("action", action) }

func (f *Form) Encoding() string { return getOr(f.attrs, "encoding", "") }
func (f *Form) SetEncoding(encoding string) { f.attrs.Set("encoding", encoding) }
func (f *Form) Enctype() string { return getOr(f.attrs, "enctype", "") }
func (f *Form) SetEnctype(enctype string) { f.attrs.Set("enctype", enctype) }

func (f *Form) Autocomplete() string { return getOr(f.attrs, "autocomplete", "") }
func (f *Form) SetAutocomplete(ac string) { f.attrs.Set("autocomplete", ac) }

func (f *Form) AcceptCharset() string { return getOr(f.attrs, "acceptcharset", "") }
func (f *Form) SetAcceptCharset(charset string) { f.attrs.Set("acceptcharset", charset) }

func (f *Form) NoValidate() string { return getOr(f.attrs, "novalidate", "") }
func (f *Form) SetNoValidate(nv string) { f.attrs.Set("novalidate", nv) }
