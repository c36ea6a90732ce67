package htmlload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/formdom/internal/dom"
)

func parse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(markup), dom.WithInvariantChecks())
	require.NoError(t, err)
	return doc
}

func TestBuild_ControlsInDocumentOrder(t *testing.T) {
	doc := parse(t, `
<form id="signup" method="post" action="/signup">
  <input name="email" type="email" value="a@example.com" required>
  <textarea name="bio">
hello</textarea>
  <select name="plan">
    <option value="free">Free</option>
    <option selected>  Pro  </option>
  </select>
  <button>Go</button>
</form>`)

	require.Len(t, doc.Forms, 1)
	form := doc.Forms[0]
	require.Equal(t, "post", form.Method())
	require.Equal(t, "/signup", form.Action())
	require.Equal(t, 4, form.Length())

	var kinds []string
	for _, c := range form.Elements().Elements() {
		kinds = append(kinds, c.(interface{ Kind() string }).Kind())
	}
	require.Equal(t, []string{"input", "textarea", "select", "button"}, kinds)

	item, ok := form.NamedItem("bio")
	require.True(t, ok)
	require.Equal(t, "hello", item.Control().(*dom.TextArea).Value())

	item, ok = form.NamedItem("plan")
	require.True(t, ok)
	require.Equal(t, "Pro", item.Control().(*dom.Select).Value(), "option text is collapsed and used as value")

	require.True(t, form.CheckValidity())
}

func TestBuild_FormAttributeOverridesAncestry(t *testing.T) {
	doc := parse(t, `
<form id="a"><input name="x" form="b"><input name="y"></form>
<input name="z" form="a">
<form id="b"></form>
<input name="lonely">
<form id="c"><input name="ghost" form="missing"></form>`)

	require.Len(t, doc.Forms, 3)
	a, _ := doc.FormByID("a")
	b, _ := doc.FormByID("b")
	c, _ := doc.FormByID("c")

	require.Equal(t, []string{"y", "z"}, a.Elements().Names())
	require.Equal(t, []string{"x"}, b.Elements().Names())
	require.Equal(t, 0, c.Length(), "a dangling form attribute leaves the control unowned")

	require.Len(t, doc.Orphans, 2)
	require.Equal(t, "lonely", doc.Orphans[0].Name())
	require.Equal(t, "ghost", doc.Orphans[1].Name())
}

func TestBuild_SharedNamesGroup(t *testing.T) {
	doc := parse(t, `
<form>
  <input type="radio" name="size" value="s" required>
  <input type="radio" name="size" value="m" required checked>
  <input type="text" name="note">
</form>`)

	form := doc.Forms[0]
	item, ok := form.NamedItem("size")
	require.True(t, ok)
	require.True(t, item.IsGroup())
	require.Equal(t, 2, item.Len())
	require.True(t, form.CheckValidity())
}

func TestBuild_InvalidControlFailsForm(t *testing.T) {
	doc := parse(t, `<form><input name="age" type="number" min="18" value="12"></form>`)
	require.False(t, doc.Forms[0].CheckValidity())
}

func TestBuild_FormsBubbleToDocument(t *testing.T) {
	doc := parse(t, `<form id="f"></form>`)
	var got string
	doc.Target.AddEventListener(dom.EventSubmit, func(e *dom.Event) { got = e.Target.Label() })

	require.True(t, doc.Forms[0].Submit())
	require.Equal(t, "form", got)
}

func TestBuild_NoForms(t *testing.T) {
	doc := parse(t, `<p>nothing here</p><input name="q">`)
	require.Empty(t, doc.Forms)
	require.Len(t, doc.Orphans, 1)
}

func TestBuild_TextAreaKeepsContentAfterLeadingNewline(t *testing.T) {
	// The parser drops exactly one newline after <textarea>; the rest is value.
	doc := parse(t, "<form><textarea name=\"bio\" minlength=\"3\">\n\nhi</textarea></form>")

	item, ok := doc.Forms[0].NamedItem("bio")
	require.True(t, ok)
	ta := item.Control().(*dom.TextArea)
	require.Equal(t, "\nhi", ta.Value())
	require.True(t, ta.CheckValidity())
}
