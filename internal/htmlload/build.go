package htmlload

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/zjrosen/formdom/internal/dom"
)

// Document is the result of loading one HTML source.
type Document struct {
	Path string

	// Forms in document order.
	Forms []*dom.Form

	// Orphans are controls that ended up with no form owner.
	Orphans []dom.Control

	// Target is the parent every form's submit and reset events bubble to.
	Target *dom.EventTarget
}

// FormByID returns the first form whose id attribute is id.
func (d *Document) FormByID(id string) (*dom.Form, bool) {
	for _, f := range d.Forms {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// element is what every concrete dom control offers.
type element interface {
	dom.FormAssociated
	Attributes() *dom.Attributes
}

type pending struct {
	ctrl    element
	owner   *html.Node
	formRef string
	hasRef  bool
}

type walkContext struct {
	form *html.Node
	sel  *dom.Select
}

type builder struct {
	opts    []dom.Option
	doc     *Document
	forms   map[*html.Node]*dom.Form
	byID    map[string]*dom.Form
	pending []pending
}

// Build creates the forms and controls found under root. opts are applied
// to every form.
func Build(root *html.Node, opts ...dom.Option) *Document {
	b := &builder{
		opts:  opts,
		doc:   &Document{Target: dom.NewEventTarget("document")},
		forms: make(map[*html.Node]*dom.Form),
		byID:  make(map[string]*dom.Form),
	}
	b.walk(root, walkContext{})
	b.associate()
	return b.doc
}

func (b *builder) walk(n *html.Node, ctx walkContext) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Form:
			b.addForm(n)
			ctx.form = n
		case atom.Input:
			in := dom.NewInput("")
			copyAttrs(in.Attributes(), n)
			in.SetValue(attr(n, "value"))
			in.SetChecked(hasAttr(n, "checked"))
			b.addControl(in, n, ctx)
		case atom.Button:
			btn := dom.NewButton("")
			copyAttrs(btn.Attributes(), n)
			btn.SetValue(attr(n, "value"))
			b.addControl(btn, n, ctx)
		case atom.Textarea:
			ta := dom.NewTextArea()
			copyAttrs(ta.Attributes(), n)
			ta.SetValue(textContent(n))
			b.addControl(ta, n, ctx)
			return
		case atom.Select:
			sel := dom.NewSelect()
			copyAttrs(sel.Attributes(), n)
			b.addControl(sel, n, ctx)
			ctx.sel = sel
		case atom.Option:
			if ctx.sel != nil {
				text := collapseSpace(textContent(n))
				value := text
				if hasAttr(n, "value") {
					value = attr(n, "value")
				}
				label := text
				if hasAttr(n, "label") {
					label = attr(n, "label")
				}
				ctx.sel.AddOption(value, label, hasAttr(n, "selected"))
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, ctx)
	}
}

func (b *builder) addForm(n *html.Node) {
	f := dom.NewForm(b.opts...)
	for _, a := range n.Attr {
		f.Attributes().Set(a.Key, a.Val)
	}
	f.EventTarget().SetParent(b.doc.Target)
	b.forms[n] = f
	if id := attr(n, "id"); id != "" {
		if _, taken := b.byID[id]; !taken {
			b.byID[id] = f
		}
	}
	b.doc.Forms = append(b.doc.Forms, f)
}

func (b *builder) addControl(ctrl element, n *html.Node, ctx walkContext) {
	b.pending = append(b.pending, pending{
		ctrl:    ctrl,
		owner:   ctx.form,
		formRef: attr(n, "form"),
		hasRef:  hasAttr(n, "form"),
	})
}

// associate runs after the walk so a form attribute may point at a form
// that appears later in the document.
func (b *builder) associate() {
	for _, p := range b.pending {
		var owner *dom.Form
		if p.hasRef {
			owner = b.byID[p.formRef]
		} else if p.owner != nil {
			owner = b.forms[p.owner]
		}
		if owner == nil {
			b.doc.Orphans = append(b.doc.Orphans, p.ctrl)
			continue
		}
		p.ctrl.SetForm(owner)
	}
}

func copyAttrs(dst *dom.Attributes, n *html.Node) {
	for _, a := range n.Attr {
		dst.Set(a.Key, a.Val)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
