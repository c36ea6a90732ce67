package dom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_AttachExposesAtLastIndex(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a := newStub("a", true)

	form.AppendControl(a, "a")

	require.Equal(t, 1, form.Length())
	got, ok := form.Item(0)
	require.True(t, ok)
	require.Same(t, a, got)
	_, ok = form.Item(1)
	require.False(t, ok, "nothing may be exposed past length-1")
}

func TestRegistry_AttachIsIdempotent(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a := newStub("a", true)

	form.AppendControl(a, "a")
	form.AppendControl(a, "a")
	form.AppendControl(a, "other")

	require.Equal(t, 1, form.Length())
	require.Equal(t, []Control{a}, form.Elements().Elements())
	_, ok := form.NamedItem("other")
	require.False(t, ok, "re-attaching a present control must not register a new name")
	requireConsistent(t, form.Elements())
}

func TestRegistry_AttachNil(t *testing.T) {
	r := NewControlRegistry()
	r.Attach(nil, "x")
	r.Detach(nil, "x")
	require.Equal(t, 0, r.Length())
}

func TestRegistry_RoundTrip(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a, b := newStub("a", true), newStub("b", true)

	form.AppendControl(a, "a")
	form.AppendControl(b, "b")
	form.RemoveControl(a, "a")

	require.Equal(t, 1, form.Length())
	got, ok := form.Item(0)
	require.True(t, ok)
	require.Same(t, b, got)

	_, ok = form.NamedItem("a")
	require.False(t, ok)
	item, ok := form.NamedItem("b")
	require.True(t, ok)
	require.Same(t, b, item.Control())
}

func TestRegistry_OrderPreservation(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a, b, c := newStub("a", true), newStub("b", true), newStub("c", true)

	form.AppendControl(a, "a")
	form.AppendControl(b, "b")
	form.AppendControl(c, "c")
	form.RemoveControl(b, "b")

	require.Equal(t, []Control{a, c}, form.Elements().Elements())
	first, _ := form.Item(0)
	second, _ := form.Item(1)
	require.Same(t, a, first)
	require.Same(t, c, second)
	_, ok := form.Item(2)
	require.False(t, ok, "trailing slot must be deleted")
}

func TestRegistry_IdempotentDetach(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a, stranger := newStub("a", true), newStub("a", true)
	form.AppendControl(a, "a")

	form.RemoveControl(stranger, "a")
	form.RemoveControl(stranger, "missing")

	require.Equal(t, 1, form.Length())
	item, ok := form.NamedItem("a")
	require.True(t, ok)
	require.Same(t, a, item.Control())

	form.RemoveControl(a, "a")
	form.RemoveControl(a, "a")
	require.Equal(t, 0, form.Length())
}

func TestRegistry_NameGroup(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	first, second := newStub("color", true), newStub("color", true)

	form.AppendControl(first, "color")
	form.AppendControl(second, "color")

	item, ok := form.NamedItem("color")
	require.True(t, ok)
	require.True(t, item.IsGroup())
	require.Nil(t, item.Control(), "a group has no single control")
	require.Equal(t, []Control{first, second}, item.Controls())

	form.RemoveControl(first, "color")
	item, ok = form.NamedItem("color")
	require.True(t, ok)
	require.False(t, item.IsGroup())
	require.Same(t, second, item.Control())

	form.RemoveControl(second, "color")
	_, ok = form.NamedItem("color")
	require.False(t, ok)
	require.Empty(t, form.Elements().Names())
}

func TestRegistry_NamedItemIsSnapshot(t *testing.T) {
	form := NewForm()
	a := newStub("x", true)
	form.AppendControl(a, "x")

	item, _ := form.NamedItem("x")
	controls := item.Controls()
	controls[0] = newStub("intruder", true)

	again, _ := form.NamedItem("x")
	require.Same(t, a, again.Control())
}

func TestRegistry_EmptyNameNotProjected(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	anon := newStub("", true)

	form.AppendControl(anon, "")

	require.Equal(t, 1, form.Length())
	_, ok := form.NamedItem("")
	require.False(t, ok)

	form.RemoveControl(anon, "")
	require.Equal(t, 0, form.Length())
}

func TestRegistry_DetachWithWrongNameKeepsProjectionFresh(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a := newStub("a", true)
	form.AppendControl(a, "a")

	form.RemoveControl(a, "b")

	require.Equal(t, 0, form.Length())
	_, ok := form.NamedItem("a")
	require.False(t, ok, "the registered name is removed regardless of the argument")
}

func TestRegistry_Rename(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	a, b, c := newStub("a", true), newStub("b", true), newStub("c", true)
	form.AppendControl(a, "a")
	form.AppendControl(b, "b")
	form.AppendControl(c, "c")

	form.RenameControl(b, "a")

	require.Equal(t, []Control{a, b, c}, form.Elements().Elements(), "rename keeps position")
	_, ok := form.NamedItem("b")
	require.False(t, ok)
	item, ok := form.NamedItem("a")
	require.True(t, ok)
	require.Equal(t, []Control{a, b}, item.Controls())

	form.RenameControl(newStub("x", true), "x")
	_, ok = form.NamedItem("x")
	require.False(t, ok, "renaming an absent control is a no-op")
}

func TestRegistry_NamesInFirstRegistrationOrder(t *testing.T) {
	r := NewControlRegistry(WithInvariantChecks())
	r.Attach(newStub("z", true), "z")
	r.Attach(newStub("a", true), "a")
	r.Attach(newStub("z", true), "z")

	require.Equal(t, []string{"z", "a"}, r.Names())
}

func TestRegistry_IndexOf(t *testing.T) {
	r := NewControlRegistry()
	a, b := newStub("a", true), newStub("b", true)
	r.Attach(a, "a")
	r.Attach(b, "b")

	require.Equal(t, 1, r.IndexOf(b))
	require.Equal(t, -1, r.IndexOf(newStub("a", true)))
	_, ok := r.Item(-1)
	require.False(t, ok)
}

func TestRegistry_CheckValidityShortCircuits(t *testing.T) {
	form := NewForm()
	first, bad, third := newStub("a", true), newStub("b", false), newStub("c", true)
	form.AppendControl(first, "a")
	form.AppendControl(bad, "b")
	form.AppendControl(third, "c")

	require.False(t, form.CheckValidity())
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, bad.calls)
	require.Equal(t, 0, third.calls, "controls after the first invalid one are not consulted")
}

func TestRegistry_CheckValidityAllValid(t *testing.T) {
	form := NewForm()
	form.AppendControl(newStub("a", true), "a")
	form.AppendControl(newStub("b", true), "b")

	require.True(t, form.CheckValidity())
	require.True(t, form.ReportValidity())
}

func TestRegistry_CheckValidityEmpty(t *testing.T) {
	require.True(t, NewForm().CheckValidity())
}

// reentrantControl detaches itself and tries to re-attach from inside its
// own validity check, the way an association hook might.
type reentrantControl struct {
	form *Form
}

func (r *reentrantControl) Name() string { return "self" }

func (r *reentrantControl) CheckValidity() bool {
	r.form.AppendControl(r, "self")
	return true
}

func TestRegistry_ReentrantAttachIsNoop(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	c := &reentrantControl{form: form}
	form.AppendControl(c, "self")

	require.True(t, form.CheckValidity())
	require.Equal(t, 1, form.Length())
}

// detachingControl removes itself from its form while being checked.
type detachingControl struct {
	form  *Form
	calls int
}

func (d *detachingControl) Name() string { return "leaving" }

func (d *detachingControl) CheckValidity() bool {
	d.calls++
	d.form.RemoveControl(d, "leaving")
	return true
}

func TestRegistry_CheckValiditySurvivesSelfDetach(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	leaving := &detachingControl{form: form}
	after := newStub("after", true)
	form.AppendControl(leaving, "leaving")
	form.AppendControl(after, "after")

	var valid bool
	require.NotPanics(t, func() { valid = form.CheckValidity() })
	require.True(t, valid)
	require.Equal(t, 1, leaving.calls)
	require.Equal(t, 1, after.calls, "controls attached when the walk began are still checked")
	require.Equal(t, 1, form.Length())
	requireConsistent(t, form.Elements())
}

func TestRegistry_CheckValidityDetachLastControl(t *testing.T) {
	form := NewForm()
	first := newStub("first", true)
	form.AppendControl(first, "first")
	leaving := &detachingControl{form: form}
	form.AppendControl(leaving, "leaving")

	require.NotPanics(t, func() { require.True(t, form.CheckValidity()) })
	require.Equal(t, -1, form.Elements().IndexOf(leaving))
	require.Equal(t, 1, form.Length())
}

func TestRegistry_VerifyDetectsCorruption(t *testing.T) {
	r := NewControlRegistry()
	a := newStub("a", true)
	r.Attach(a, "a")
	requireConsistent(t, r)

	// Corrupt the projection cache behind the registry's back.
	r.view.slots = append(r.view.slots, newStub("ghost", true))

	err := r.Verify()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvariantViolation))
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "verify", ie.Op)
}

func TestRegistry_InvariantChecksPanic(t *testing.T) {
	r := NewControlRegistry(WithInvariantChecks())
	r.Attach(newStub("a", true), "a")
	delete(r.view.named, "a")

	require.PanicsWithError(t,
		(&InvariantError{Op: "attach: verify", Detail: "form exposes 1 names but registry has 2 groups"}).Error(),
		func() { r.Attach(newStub("b", true), "b") })
}

func TestFormView_RefusesGaps(t *testing.T) {
	v := newFormView()
	require.Panics(t, func() { v.setIndex(1, newStub("a", true)) }, "writing past length leaves index 0 empty")

	v.setIndex(0, newStub("a", true))
	v.setIndex(1, newStub("b", true))
	require.Panics(t, func() { v.deleteIndex(0) }, "only the trailing slot may be deleted")
}
