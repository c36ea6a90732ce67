package dom

import (
	"github.com/zjrosen/formdom/internal/log"
)

// Event types dispatched by forms.
const (
	EventSubmit   = "submit"
	EventReset    = "reset"
	EventFormData = "formdata"
)

// EventPublisher receives a copy of every event after dispatch completes.
// *events.Bus[Event] satisfies it.
type EventPublisher interface {
	Publish(topic string, payload Event)
}

// WithEventPublisher forwards every event the form dispatches to p.
func WithEventPublisher(p EventPublisher) Option {
	return func(o *options) { o.bus = p }
}

// EventInit carries the dispatch flags of a new event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
}

// Event is a synthetic DOM event.
type Event struct {
	Type          string
	Bubbles       bool
	Cancelable    bool
	Target        *EventTarget
	CurrentTarget *EventTarget

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{Type: typ, Bubbles: init.Bubbles, Cancelable: init.Cancelable}
}

// PreventDefault cancels the event if it is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether a listener canceled the event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles a dispatched event.
type Listener func(e *Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type registeredListener struct {
	id ListenerID
	fn Listener
}

// EventTarget keeps listeners per event type and dispatches synchronously,
// walking parents when an event bubbles.
type EventTarget struct {
	label     string
	parent    *EventTarget
	listeners map[string][]registeredListener
	handlers  map[string]Listener
	nextID    ListenerID
	publisher EventPublisher
}

// NewEventTarget creates a target; label names it in logs.
func NewEventTarget(label string) *EventTarget {
	return &EventTarget{
		label:     label,
		listeners: make(map[string][]registeredListener),
		handlers:  make(map[string]Listener),
	}
}

// Label returns the name given at construction.
func (t *EventTarget) Label() string {
	return t.label
}

// SetParent sets the target events bubble to.
func (t *EventTarget) SetParent(parent *EventTarget) {
	t.parent = parent
}

// Parent returns the bubbling parent, if any.
func (t *EventTarget) Parent() *EventTarget {
	return t.parent
}

// AddEventListener registers fn for typ and returns its id.
func (t *EventTarget) AddEventListener(typ string, fn Listener) ListenerID {
	t.nextID++
	t.listeners[typ] = append(t.listeners[typ], registeredListener{id: t.nextID, fn: fn})
	return t.nextID
}

// RemoveEventListener unregisters the listener with id.
func (t *EventTarget) RemoveEventListener(typ string, id ListenerID) {
	list := t.listeners[typ]
	for i, l := range list {
		if l.id == id {
			t.listeners[typ] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// SetHandler installs the "on<type>" handler slot; nil clears it. The handler
// runs after the target's listeners.
func (t *EventTarget) SetHandler(typ string, fn Listener) {
	if fn == nil {
		delete(t.handlers, typ)
		return
	}
	t.handlers[typ] = fn
}

// Dispatch delivers e to this target and, when it bubbles, to each ancestor.
// Returns false when a listener canceled the event.
func (t *EventTarget) Dispatch(e *Event) bool {
	e.Target = t
	for current := t; current != nil; current = current.parent {
		e.CurrentTarget = current
		current.invoke(e)
		if e.stopped || !e.Bubbles {
			break
		}
	}
	e.CurrentTarget = nil

	log.Debug(log.CatEvent, "dispatched event", "type", e.Type, "target", t.label, "canceled", e.defaultPrevented)
	if t.publisher != nil {
		t.publisher.Publish(e.Type, *e)
	}
	return !e.defaultPrevented
}

func (t *EventTarget) invoke(e *Event) {
	// Copy so listeners may add or remove listeners while running.
	list := append([]registeredListener(nil), t.listeners[e.Type]...)
	for _, l := range list {
		l.fn(e)
	}
	if h, ok := t.handlers[e.Type]; ok {
		h(e)
	}
}
