package dom

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// emailPattern is the WHATWG valid e-mail address production.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// numberPattern is the HTML valid floating-point number production.
var numberPattern = regexp.MustCompile(`^-?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// Input types barred from constraint validation.
var barredInputTypes = map[string]bool{
	"hidden": true,
	"reset":  true,
	"button": true,
	"submit": true,
	"image":  true,
}

// Input is an <input> element.
type Input struct {
	control
	checked bool
}

// NewInput creates an input of the given type ("" means text).
func NewInput(typ string) *Input {
	in := &Input{}
	in.control = newControl("input", in)
	if typ != "" {
		in.attrs.Set("type", typ)
	}
	return in
}

// Type returns the lowercased type attribute, "text" when unset.
func (in *Input) Type() string {
	return strings.ToLower(getOr(in.attrs, "type", "text"))
}

func (in *Input) Checked() bool { return in.checked }
func (in *Input) SetChecked(on bool) { in.checked = on }

// CheckValidity applies required, length, pattern and type constraints.
func (in *Input) CheckValidity() bool {
	typ := in.Type()
	if in.Disabled() || barredInputTypes[typ] {
		return true
	}

	switch typ {
	case "checkbox":
		return !in.Required() || in.checked
	case "radio":
		return !in.Required() || in.radioGroupChecked()
	}

	if in.value == "" {
		return !in.Required()
	}
	if !in.lengthOK() || !in.patternOK() {
		return false
	}

	switch typ {
	case "email":
		return emailPattern.MatchString(in.value)
	case "url":
		u, err := url.Parse(in.value)
		return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
	case "number":
		return in.numberOK()
	}
	return true
}

func (in *Input) patternOK() bool {
	p, ok := in.attrs.Get("pattern")
	if !ok || p == "" {
		return true
	}
	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		// An invalid pattern imposes no constraint.
		return true
	}
	return re.MatchString(in.value)
}

func (in *Input) numberOK() bool {
	n, ok := parseNumber(in.value)
	if !ok {
		return false
	}
	if v, set := in.attrs.Get("min"); set {
		if min, ok := parseNumber(v); ok && n < min {
			return false
		}
	}
	if v, set := in.attrs.Get("max"); set {
		if max, ok := parseNumber(v); ok && n > max {
			return false
		}
	}
	return true
}

// parseNumber accepts decimal notation only; NaN, infinities and hex floats
// are rejected.
func parseNumber(s string) (float64, bool) {
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// radioGroupChecked looks the radio's name up on its form; any checked radio
// in the group satisfies required.
func (in *Input) radioGroupChecked() bool {
	if in.checked {
		return true
	}
	if in.form == nil || in.Name() == "" {
		return false
	}
	item, ok := in.form.NamedItem(in.Name())
	if !ok {
		return false
	}
	for _, c := range item.Controls() {
		if r, ok := c.(*Input); ok && r.Type() == "radio" && r.checked {
			return true
		}
	}
	return false
}

// Clone copies the input without its form association.
func (in *Input) Clone() *Input {
	out := NewInput("")
	in.copyInto(&out.control)
	out.checked = in.checked
	return out
}

func (in *Input) CloneControl() Control { return in.Clone() }

var (
	_ FormAssociated = (*Input)(nil)
	_ Cloner         = (*Input)(nil)
)
