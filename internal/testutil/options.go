package testutil

// attr is one attribute of a generated element.
type attr struct {
	key string
	val string
}

// controlData holds a control to be rendered inside a form.
type controlData struct {
	tag     string
	attrs   []attr
	text    string
	options []optionData
}

type optionData struct {
	value    string
	label    string
	selected bool
}

// ControlOption configures a control during builder setup.
type ControlOption func(*controlData)

// Attr sets an arbitrary attribute.
func Attr(key, val string) ControlOption {
	return func(c *controlData) { c.attrs = append(c.attrs, attr{key, val}) }
}

// Type sets the type attribute.
func Type(t string) ControlOption { return Attr("type", t) }

// Value sets the value attribute.
func Value(v string) ControlOption { return Attr("value", v) }

// Required marks the control required.
func Required() ControlOption { return Attr("required", "") }

// Disabled marks the control disabled.
func Disabled() ControlOption { return Attr("disabled", "") }

// Pattern sets the pattern attribute.
func Pattern(p string) ControlOption { return Attr("pattern", p) }

// MinLength sets the minlength attribute.
func MinLength(n string) ControlOption { return Attr("minlength", n) }

// Owner associates the control with a form by id through the form
// attribute instead of nesting.
func Owner(formID string) ControlOption { return Attr("form", formID) }

// Text sets a textarea's content or a button's label.
func Text(s string) ControlOption {
	return func(c *controlData) { c.text = s }
}

// Option adds an option to a select.
func Option(value, label string, selected bool) ControlOption {
	return func(c *controlData) {
		c.options = append(c.options, optionData{value: value, label: label, selected: selected})
	}
}

// formData holds a form and the controls nested in it.
type formData struct {
	attrs    []attr
	controls []controlData
}

// FormOption configures a form during builder setup.
type FormOption func(*formData)

// FormAttr sets an attribute on the form element.
func FormAttr(key, val string) FormOption {
	return func(f *formData) { f.attrs = append(f.attrs, attr{key, val}) }
}

// Method sets the form's method.
func Method(m string) FormOption { return FormAttr("method", m) }

// Action sets the form's action.
func Action(a string) FormOption { return FormAttr("action", a) }

// Name sets the form's name.
func Name(n string) FormOption { return FormAttr("name", n) }
