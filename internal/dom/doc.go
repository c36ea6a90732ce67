// Package dom emulates the form side of a document object model: form
// elements, their form-associated controls, and the bookkeeping that keeps a
// form's control collection consistent while controls come and go.
//
// # Control Registry
//
// Every Form owns exactly one ControlRegistry. The registry is the single
// source of truth for which controls belong to the form and holds:
//   - the ordered, duplicate-free sequence of attached controls
//   - a name projection mapping each non-empty name to the ordered group of
//     controls currently registered under it
//
// The form exposes two read surfaces derived from the registry: numeric
// access (Form.Item) and name access (Form.NamedItem). They are served from a
// projection cache that the registry patches on every Attach and Detach, in
// the same call, so the three views never disagree once control returns to
// the caller.
//
// # Execution Model
//
// Everything in this package is synchronous and single-threaded, like the
// environment it emulates. No type here is safe for concurrent use. Attach
// and Detach are re-entrant: a control's own association hook may call back
// into the registry, and attaching a present control or detaching an absent
// one is a no-op.
//
// # Validity
//
// Each control decides its own validity (Control.CheckValidity). The form
// only aggregates, walking the registry in order and stopping at the first
// invalid control.
package dom
