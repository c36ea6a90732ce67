package dom

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks a registry whose views disagree. It is never
// reachable through the public operations; seeing it means a defect here.
var ErrInvariantViolation = errors.New("control registry invariant violated")

// InvariantError describes which consistency check failed.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation, e.Op, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

func violation(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Verify cross-checks the ordered sequence, the name projection, and the
// owning form's projection cache. Returns nil when they agree.
func (r *ControlRegistry) Verify() error {
	if len(r.keys) != len(r.items) {
		return violation("verify", "%d items but %d membership entries", len(r.items), len(r.keys))
	}

	named := 0
	for i, c := range r.items {
		key, ok := r.keys[c]
		if !ok {
			return violation("verify", "item %d (%T) missing from membership", i, c)
		}
		if key != "" {
			named++
		}
	}

	slots := r.view.slots
	if len(slots) != len(r.items) {
		return violation("verify", "form exposes %d numeric slots for %d items", len(slots), len(r.items))
	}
	for i := range r.items {
		if slots[i] != r.items[i] {
			return violation("verify", "numeric slot %d does not hold item %d", i, i)
		}
	}

	if len(r.names) != len(r.byName) {
		return violation("verify", "%d ordered names but %d groups", len(r.names), len(r.byName))
	}
	if len(r.view.named) != len(r.byName) {
		return violation("verify", "form exposes %d names but registry has %d groups", len(r.view.named), len(r.byName))
	}

	grouped := 0
	for _, name := range r.names {
		group, ok := r.byName[name]
		if !ok || len(group) == 0 {
			return violation("verify", "name %q has no group", name)
		}
		for _, c := range group {
			if key, ok := r.keys[c]; !ok || key != name {
				return violation("verify", "group %q holds a control registered as %q", name, key)
			}
		}
		grouped += len(group)

		item, ok := r.view.named[name]
		if !ok || !item.equal(group) {
			return violation("verify", "form entry for %q is stale", name)
		}
	}
	if grouped != named {
		return violation("verify", "%d named items but %d grouped entries", named, grouped)
	}
	return nil
}
