package dom

// Control is the capability a form-associated element exposes to the
// registry. Implementations must be comparable pointer types: the registry
// tracks controls by reference identity.
type Control interface {
	// Name returns the control's current name. May be empty.
	Name() string
	// CheckValidity reports whether the control satisfies its constraints.
	CheckValidity() bool
}

// FormAssociated is implemented by controls that track their owning form and
// register themselves with it.
type FormAssociated interface {
	Control
	Form() *Form
	SetForm(f *Form)
}

// Cloner is implemented by controls that can be copied into a cloned form.
type Cloner interface {
	CloneControl() Control
}

// NamedItem is the result of looking a name up on a form: every attached
// control registered under that name, in insertion order.
type NamedItem struct {
	controls []Control
}

func newNamedItem(group []Control) NamedItem {
	controls := make([]Control, len(group))
	copy(controls, group)
	return NamedItem{controls: controls}
}

// Len returns the number of controls sharing the name.
func (n NamedItem) Len() int {
	return len(n.controls)
}

// IsGroup reports whether more than one control shares the name.
func (n NamedItem) IsGroup() bool {
	return len(n.controls) > 1
}

// Control returns the control when exactly one control has the name, nil otherwise.
func (n NamedItem) Control() Control {
	if len(n.controls) != 1 {
		return nil
	}
	return n.controls[0]
}

// Controls returns the whole group in insertion order.
func (n NamedItem) Controls() []Control {
	out := make([]Control, len(n.controls))
	copy(out, n.controls)
	return out
}

func (n NamedItem) equal(group []Control) bool {
	if len(n.controls) != len(group) {
		return false
	}
	for i := range group {
		if n.controls[i] != group[i] {
			return false
		}
	}
	return true
}
