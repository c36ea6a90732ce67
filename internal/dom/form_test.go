package dom

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/formdom/internal/events"
)

func TestForm_ReflectedDefaults(t *testing.T) {
	form := NewForm()

	require.Equal(t, "get", form.Method())
	require.Equal(t, "", form.Name())
	require.Equal(t, "", form.Action())
	require.Equal(t, "", form.Target())
	require.Equal(t, "", form.Enctype())
	require.Equal(t, "", form.NoValidate())
}

func TestForm_ReflectedAttributes(t *testing.T) {
	form := NewForm()
	form.SetMethod("post")
	form.SetAction("/signup")
	form.SetTarget("_blank")
	form.SetEncoding("utf-8")
	form.SetEnctype("multipart/form-data")
	form.SetAutocomplete("off")
	form.SetAcceptCharset("utf-8")
	form.SetNoValidate("novalidate")
	form.SetName("signup")
	form.SetID("signup-form")

	require.Equal(t, "post", form.Method())
	require.Equal(t, "/signup", form.Action())
	require.Equal(t, "_blank", form.Target())
	require.Equal(t, "utf-8", form.Encoding())
	require.Equal(t, "multipart/form-data", form.Enctype())
	require.Equal(t, "off", form.Autocomplete())
	require.Equal(t, "utf-8", form.AcceptCharset())
	require.Equal(t, "novalidate", form.NoValidate())
	require.Equal(t, "signup", form.Name())
	require.Equal(t, "signup-form", form.ID())

	v, ok := form.Attributes().Get("acceptcharset")
	require.True(t, ok)
	require.Equal(t, "utf-8", v)
}

func TestForm_CustomAttributeStore(t *testing.T) {
	store := NewAttributes()
	store.Set("method", "POST")
	form := NewForm(WithAttributeStore(store))

	require.Equal(t, "POST", form.Method())
}

func TestForm_SubmitDispatchesBubblingCancelable(t *testing.T) {
	form := NewForm()
	var got *Event
	form.EventTarget().AddEventListener(EventSubmit, func(e *Event) { got = e })

	require.True(t, form.Submit())
	require.NotNil(t, got)
	require.Equal(t, EventSubmit, got.Type)
	require.True(t, got.Bubbles)
	require.True(t, got.Cancelable)
	require.Same(t, form.EventTarget(), got.Target)
}

func TestForm_SubmitCanceled(t *testing.T) {
	form := NewForm()
	form.SetOnSubmit(func(e *Event) { e.PreventDefault() })

	require.False(t, form.Submit())

	form.SetOnSubmit(nil)
	require.True(t, form.Submit())
}

func TestForm_ResetBubblesToParent(t *testing.T) {
	document := NewEventTarget("document")
	form := NewForm()
	form.EventTarget().SetParent(document)

	var seen []string
	form.SetOnReset(func(e *Event) { seen = append(seen, "form") })
	document.AddEventListener(EventReset, func(e *Event) {
		seen = append(seen, e.CurrentTarget.Label())
	})

	require.True(t, form.Reset())
	require.Equal(t, []string{"form", "document"}, seen)
}

func TestForm_SubmitDoesNotTouchRegistry(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	form.AppendControl(newStub("a", false), "a")

	form.Submit()
	form.Reset()

	require.Equal(t, 1, form.Length())
}

func TestForm_PublishesDispatchedEvents(t *testing.T) {
	bus := events.NewBus[Event]()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.Subscribe(ctx, EventSubmit)

	form := NewForm(WithEventPublisher(bus))
	form.SetOnSubmit(func(e *Event) { e.PreventDefault() })
	form.Submit()

	select {
	case msg := <-ch:
		require.Equal(t, EventSubmit, msg.Topic)
		require.True(t, msg.Payload.DefaultPrevented())
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for published event")
	}
}

func TestForm_ShallowCloneHasEmptyRegistry(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	form.SetAction("/a")
	form.AppendControl(NewInput("text"), "")

	clone := form.Clone(false)

	require.Equal(t, "/a", clone.Action())
	require.Equal(t, 0, clone.Length())
	require.NotSame(t, form.Elements(), clone.Elements())

	clone.SetAction("/b")
	require.Equal(t, "/a", form.Action(), "attributes are copied, not shared")
}

func TestForm_DeepCloneOwnsItsRegistry(t *testing.T) {
	form := NewForm(WithInvariantChecks())
	email := NewInput("email")
	email.SetName("email")
	email.SetValue("a@example.com")
	email.SetForm(form)
	submit := NewButton("")
	submit.SetForm(form)
	stub := newStub("plain", true)
	form.AppendControl(stub, "plain")

	clone := form.Clone(true)

	require.Equal(t, 2, clone.Length(), "controls that cannot clone are not carried over")
	first, _ := clone.Item(0)
	copied, ok := first.(*Input)
	require.True(t, ok)
	require.NotSame(t, email, copied)
	require.Equal(t, "a@example.com", copied.Value())
	require.Same(t, clone, copied.Form())
	require.Same(t, form, email.Form())

	item, ok := clone.NamedItem("email")
	require.True(t, ok)
	require.Same(t, copied, item.Control())

	// Mutating the clone leaves the original alone.
	copied.SetForm(nil)
	require.Equal(t, 1, clone.Length())
	require.Equal(t, 3, form.Length())
	require.NoError(t, clone.Elements().Verify())
	require.NoError(t, form.Elements().Verify())
}
