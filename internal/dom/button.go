package dom

import "strings"

// Button is a <button> element. Buttons are barred from constraint
// validation and always report valid.
type Button struct {
	control
}

// NewButton creates a button of the given type ("" means submit).
func NewButton(typ string) *Button {
	b := &Button{}
	b.control = newControl("button", b)
	if typ != "" {
		b.attrs.Set("type", typ)
	}
	return b
}

// Type returns the lowercased type attribute, "submit" when unset.
func (b *Button) Type() string {
	return strings.ToLower(getOr(b.attrs, "type", "submit"))
}

func (b *Button) CheckValidity() bool { return true }

// Clone copies the button without its form association.
func (b *Button) Clone() *Button {
	out := NewButton("")
	b.copyInto(&out.control)
	return out
}

func (b *Button) CloneControl() Control { return b.Clone() }

var (
	_ FormAssociated = (*Button)(nil)
	_ Cloner         = (*Button)(nil)
)
