// Package testutil builds HTML pages for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Builder accumulates forms and loose controls and renders them as a page.
type Builder struct {
	t      *testing.T
	forms  []*formData
	byID   map[string]*formData
	loose  []controlData
	marker string
}

// NewBuilder creates an empty page builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, byID: make(map[string]*formData)}
}

// WithForm adds a form. An empty id leaves the id attribute off; controls
// can only be added to forms that have one.
func (b *Builder) WithForm(id string, opts ...FormOption) *Builder {
	f := &formData{}
	if id != "" {
		f.attrs = append(f.attrs, attr{"id", id})
		b.byID[id] = f
	}
	for _, opt := range opts {
		opt(f)
	}
	b.forms = append(b.forms, f)
	return b
}

// WithInput adds an input to the form with the given id, or outside every
// form when formID is empty.
func (b *Builder) WithInput(formID, name string, opts ...ControlOption) *Builder {
	return b.with(formID, "input", name, opts)
}

// WithButton adds a button.
func (b *Builder) WithButton(formID, name string, opts ...ControlOption) *Builder {
	return b.with(formID, "button", name, opts)
}

// WithTextArea adds a textarea.
func (b *Builder) WithTextArea(formID, name string, opts ...ControlOption) *Builder {
	return b.with(formID, "textarea", name, opts)
}

// WithSelect adds a select.
func (b *Builder) WithSelect(formID, name string, opts ...ControlOption) *Builder {
	return b.with(formID, "select", name, opts)
}

// WithText adds a paragraph after the forms. Pages without forms are built
// this way.
func (b *Builder) WithText(s string) *Builder {
	b.marker = s
	return b
}

func (b *Builder) with(formID, tag, name string, opts []ControlOption) *Builder {
	b.t.Helper()
	c := controlData{tag: tag}
	if name != "" {
		c.attrs = append(c.attrs, attr{"name", name})
	}
	for _, opt := range opts {
		opt(&c)
	}
	if formID == "" {
		b.loose = append(b.loose, c)
		return b
	}
	f, ok := b.byID[formID]
	require.True(b.t, ok, "no form with id %q", formID)
	f.controls = append(f.controls, c)
	return b
}

// Build renders the page.
func (b *Builder) Build() string {
	b.t.Helper()
	body := element(atom.Body, nil)
	for _, f := range b.forms {
		form := element(atom.Form, f.attrs)
		for _, c := range f.controls {
			form.AppendChild(controlNode(c))
		}
		body.AppendChild(form)
	}
	for _, c := range b.loose {
		body.AppendChild(controlNode(c))
	}
	if b.marker != "" {
		p := element(atom.P, nil)
		p.AppendChild(&html.Node{Type: html.TextNode, Data: b.marker})
		body.AppendChild(p)
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html, nil)
	root.AppendChild(element(atom.Head, nil))
	root.AppendChild(body)
	doc.AppendChild(root)

	var buf bytes.Buffer
	require.NoError(b.t, html.Render(&buf, doc))
	return buf.String()
}

// WriteFile renders the page into dir/name and returns the path.
func (b *Builder) WriteFile(dir, name string) string {
	b.t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(b.t, os.WriteFile(path, []byte(b.Build()), 0o600))
	return path
}

func element(a atom.Atom, attrs []attr) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, at := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: at.key, Val: at.val})
	}
	return n
}

func controlNode(c controlData) *html.Node {
	n := element(atom.Lookup([]byte(c.tag)), c.attrs)
	if c.text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: c.text})
	}
	for _, o := range c.options {
		var attrs []attr
		attrs = append(attrs, attr{"value", o.value})
		if o.selected {
			attrs = append(attrs, attr{"selected", ""})
		}
		opt := element(atom.Option, attrs)
		opt.AppendChild(&html.Node{Type: html.TextNode, Data: o.label})
		n.AppendChild(opt)
	}
	return n
}
