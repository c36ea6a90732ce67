package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/formdom/internal/dom"
)

func signupForm() *dom.Form {
	f := dom.NewForm()
	f.SetID("signup")
	f.SetMethod("post")
	email := dom.NewInput("email")
	email.SetName("email")
	email.SetRequired(true)
	email.SetForm(f)
	dom.NewButton("").SetForm(f)
	return f
}

func TestFromForm(t *testing.T) {
	s := FromForm("a.html", 0, signupForm())

	require.NotEmpty(t, s.GUID())
	require.Equal(t, "#signup", s.FormKey())
	require.Equal(t, "post", s.Method())
	require.False(t, s.Valid())
	require.Equal(t, []ControlRecord{
		{Index: 0, Name: "email", Kind: "input", Valid: false},
		{Index: 1, Name: "", Kind: "button", Valid: true},
	}, s.Controls())
}

func TestFormKey(t *testing.T) {
	f := dom.NewForm()
	require.Equal(t, "form[3]", FormKey(3, f))
	f.SetName("login")
	require.Equal(t, "login", FormKey(3, f))
	f.SetID("x")
	require.Equal(t, "#x", FormKey(3, f))
}

func TestDiff(t *testing.T) {
	f := signupForm()
	before := FromForm("a.html", 0, f)
	require.Empty(t, Diff(before, FromForm("a.html", 0, f)))

	item, _ := f.NamedItem("email")
	in := item.Control().(*dom.Input)
	in.SetValue("a@example.com")
	after := FromForm("a.html", 0, f)

	d := Diff(before, after)
	require.Contains(t, d, "-form #signup method=post action= valid=false\n")
	require.Contains(t, d, "+form #signup method=post action= valid=true\n")
	require.Contains(t, d, "+0 input name=\"email\" valid=true\n")
	require.Contains(t, d, " 1 button name=\"\" valid=true\n")
	require.Equal(t, 5, strings.Count(d, "\n"))
}

func TestDiff_NilOldIsAllAdditions(t *testing.T) {
	cur := FromForm("a.html", 0, signupForm())

	d := Diff(nil, cur)
	lines := strings.SplitAfter(strings.TrimSuffix(d, "\n"), "\n")
	require.Len(t, lines, len(cur.Controls())+1)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "+"), "line %q", line)
	}
	require.Contains(t, d, "+form #signup method=post action= valid=false\n")
}

func TestNotFoundError(t *testing.T) {
	var err error = &NotFoundError{File: "a.html", FormKey: "#f"}
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, "no snapshot for a.html #f", err.Error())
}
