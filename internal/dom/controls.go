package dom

import (
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"
)

// control is the state shared by the concrete form controls.
type control struct {
	id    string
	kind  string
	attrs *Attributes
	value string
	form  *Form
	self  Control
}

func newControl(kind string, self Control) control {
	return control{
		id:    uuid.NewString(),
		kind:  kind,
		attrs: NewAttributes(),
		self:  self,
	}
}

// ID returns the identifier assigned at construction. It is for display
// only; the registry compares controls by reference.
func (c *control) ID() string { return c.id }

// Kind returns the element's tag name.
func (c *control) Kind() string { return c.kind }

// Attributes returns the control's attribute map.
func (c *control) Attributes() *Attributes { return c.attrs }

func (c *control) Name() string { return getOr(c.attrs, "name", "") }

// SetName updates the name attribute and re-keys the control in its form.
func (c *control) SetName(name string) {
	c.attrs.Set("name", name)
	if c.form != nil {
		c.form.RenameControl(c.self, name)
	}
}

func (c *control) Value() string { return c.value }
func (c *control) SetValue(value string) { c.value = value }

func (c *control) Disabled() bool { return c.attrs.Has("disabled") }
func (c *control) SetDisabled(on bool) { c.toggle("disabled", on) }
func (c *control) Required() bool { return c.attrs.Has("required") }
func (c *control) SetRequired(on bool) { c.toggle("required", on) }

func (c *control) toggle(key string, on bool) {
	if on {
		c.attrs.Set(key, "")
	} else {
		c.attrs.Remove(key)
	}
}

// Form returns the owning form, or nil.
func (c *control) Form() *Form { return c.form }

// SetForm moves the control to f; nil disassociates it. The control leaves
// its previous form before joining the next one.
func (c *control) SetForm(f *Form) {
	if c.form == f {
		return
	}
	if prev := c.form; prev != nil {
		c.form = nil
		prev.RemoveControl(c.self, c.Name())
	}
	c.form = f
	if f != nil {
		f.AppendControl(c.self, c.Name())
	}
}

func (c *control) copyInto(dst *control) {
	dst.attrs = c.attrs.Clone()
	dst.value = c.value
}

// lengthOK checks minlength/maxlength against the value in code points.
func (c *control) lengthOK() bool {
	n := utf8.RuneCountInString(c.value)
	if v, ok := c.attrs.Get("minlength"); ok {
		if min, err := strconv.Atoi(v); err == nil && min >= 0 && n < min {
			return false
		}
	}
	if v, ok := c.attrs.Get("maxlength"); ok {
		if max, err := strconv.Atoi(v); err == nil && max >= 0 && n > max {
			return false
		}
	}
	return true
}
