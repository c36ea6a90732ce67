package dom

// TextArea is a <textarea> element.
type TextArea struct {
	control
}

// NewTextArea creates an empty text area.
func NewTextArea() *TextArea {
	ta := &TextArea{}
	ta.control = newControl("textarea", ta)
	return ta
}

// CheckValidity applies required and length constraints.
func (ta *TextArea) CheckValidity() bool {
	if ta.Disabled() {
		return true
	}
	if ta.value == "" {
		return !ta.Required()
	}
	return ta.lengthOK()
}

// Clone copies the text area without its form association.
func (ta *TextArea) Clone() *TextArea {
	out := NewTextArea()
	ta.copyInto(&out.control)
	return out
}

func (ta *TextArea) CloneControl() Control { return ta.Clone() }

var (
	_ FormAssociated = (*TextArea)(nil)
	_ Cloner         = (*TextArea)(nil)
)
