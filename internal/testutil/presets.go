package testutil

// WithSignupForm adds a valid form with id "signup": email, age and a
// submit button, in that order.
func (b *Builder) WithSignupForm() *Builder {
	return b.
		WithForm("signup", Method("post"), Action("/join")).
		WithInput("signup", "email", Type("email"), Required(), Value("ada@example.com")).
		WithInput("signup", "age", Type("number"), Attr("min", "1"), Value("36")).
		WithButton("signup", "", Type("submit"), Text("Join"))
}

// WithLoginForm adds an invalid form with id "login": its required user
// field is empty.
func (b *Builder) WithLoginForm() *Builder {
	return b.
		WithForm("login").
		WithInput("login", "user", Required()).
		WithInput("login", "pass", Type("password"))
}

// WithSurveyForm adds a valid form with id "survey" holding one control of
// every kind and a radio group sharing the name "rating".
func (b *Builder) WithSurveyForm() *Builder {
	return b.
		WithForm("survey", Name("feedback")).
		WithInput("survey", "rating", Type("radio"), Value("1")).
		WithInput("survey", "rating", Type("radio"), Value("2"), Attr("checked", "")).
		WithTextArea("survey", "comment", MinLength("3"), Text("great")).
		WithSelect("survey", "topic", Required(), Option("", "Pick one", false), Option("ui", "UI", true)).
		WithButton("survey", "send", Text("Send"))
}
