package dom

// SelectOption is an entry of a Select.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Select is a <select> element.
type Select struct {
	control
	options []SelectOption
}

// NewSelect creates a select with no options.
func NewSelect() *Select {
	s := &Select{}
	s.control = newControl("select", s)
	return s
}

// AddOption appends an option. Selecting it clears the previous selection
// unless the select is multiple.
func (s *Select) AddOption(value, label string, selected bool) {
	if selected && !s.Multiple() {
		for i := range s.options {
			s.options[i].Selected = false
		}
	}
	s.options = append(s.options, SelectOption{Value: value, Label: label, Selected: selected})
}

// Options returns a copy of the options.
func (s *Select) Options() []SelectOption {
	out := make([]SelectOption, len(s.options))
	copy(out, s.options)
	return out
}

func (s *Select) Multiple() bool { return s.attrs.Has("multiple") }

// Value returns the first selected option's value. A single select with no
// explicit selection shows its first option.
func (s *Select) Value() string {
	for _, o := range s.options {
		if o.Selected {
			return o.Value
		}
	}
	if !s.Multiple() && len(s.options) > 0 {
		return s.options[0].Value
	}
	return ""
}

// SetValue selects the first option whose value matches; other options are
// deselected.
func (s *Select) SetValue(value string) {
	found := false
	for i := range s.options {
		s.options[i].Selected = !found && s.options[i].Value == value
		if s.options[i].Selected {
			found = true
		}
	}
}

// CheckValidity fails a required select whose selected value is empty.
func (s *Select) CheckValidity() bool {
	if s.Disabled() || !s.Required() {
		return true
	}
	return s.Value() != ""
}

// Clone copies the select and its options without its form association.
func (s *Select) Clone() *Select {
	out := NewSelect()
	s.copyInto(&out.control)
	out.options = s.Options()
	return out
}

func (s *Select) CloneControl() Control { return s.Clone() }

var (
	_ FormAssociated = (*Select)(nil)
	_ Cloner         = (*Select)(nil)
)
