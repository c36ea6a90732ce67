package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreset_SignupForm(t *testing.T) {
	page := NewBuilder(t).WithSignupForm().Build()

	require.Equal(t, 1, strings.Count(page, "<form"))
	require.Less(t, strings.Index(page, `name="email"`), strings.Index(page, `name="age"`))
	require.Contains(t, page, `<button type="submit">Join</button>`)
}

func TestPreset_LoginForm(t *testing.T) {
	page := NewBuilder(t).WithLoginForm().Build()

	require.Contains(t, page, `<input name="user" required=""/>`)
	require.Contains(t, page, `type="password"`)
}

func TestPreset_SurveyForm(t *testing.T) {
	page := NewBuilder(t).WithSurveyForm().Build()

	require.Equal(t, 2, strings.Count(page, `name="rating"`))
	require.Contains(t, page, `name="feedback"`)
	require.Contains(t, page, "<textarea")
	require.Contains(t, page, "<select")
}

func TestPreset_Combined(t *testing.T) {
	page := NewBuilder(t).WithSignupForm().WithLoginForm().WithSurveyForm().Build()
	require.Equal(t, 3, strings.Count(page, "<form"))
}
