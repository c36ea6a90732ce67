// Package snapshot records the state of a form's registry at a point in
// time so later loads of the same file can be compared against it.
//
// The package holds no infrastructure: persistence goes through Repository,
// implemented by internal/infrastructure/sqlite.
package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/formdom/internal/dom"
)

// ControlRecord is one registry slot.
type ControlRecord struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Valid bool   `json:"valid"`
}

// Snapshot is the registry of one form in one file.
type Snapshot struct {
	id        int64
	guid      string
	file      string
	formKey   string
	method    string
	action    string
	valid     bool
	controls  []ControlRecord
	createdAt time.Time
}

// New creates an unsaved snapshot with a fresh GUID.
func New(file, formKey, method, action string, valid bool, controls []ControlRecord) *Snapshot {
	return &Snapshot{
		guid:      uuid.NewString(),
		file:      file,
		formKey:   formKey,
		method:    method,
		action:    action,
		valid:     valid,
		controls:  controls,
		createdAt: time.Now(),
	}
}

// Reconstitute rebuilds a stored snapshot. Used by repositories.
func Reconstitute(id int64, guid, file, formKey, method, action string, valid bool, controls []ControlRecord, createdAt time.Time) *Snapshot {
	return &Snapshot{
		id:        id,
		guid:      guid,
		file:      file,
		formKey:   formKey,
		method:    method,
		action:    action,
		valid:     valid,
		controls:  controls,
		createdAt: createdAt,
	}
}

// FromForm captures f, the index-th form of file. Every control's validity is
// evaluated, not just up to the first failure.
func FromForm(file string, index int, f *dom.Form) *Snapshot {
	controls := make([]ControlRecord, 0, f.Length())
	for i, c := range f.Elements().Elements() {
		controls = append(controls, ControlRecord{
			Index: i,
			Name:  c.Name(),
			Kind:  kindOf(c),
			Valid: c.CheckValidity(),
		})
	}
	return New(file, FormKey(index, f), f.Method(), f.Action(), f.CheckValidity(), controls)
}

// FormKey identifies a form within its file: its id, else its name, else
// its position.
func FormKey(index int, f *dom.Form) string {
	if id := f.ID(); id != "" {
		return "#" + id
	}
	if name := f.Name(); name != "" {
		return name
	}
	return "form[" + strconv.Itoa(index) + "]"
}

func kindOf(c dom.Control) string {
	if k, ok := c.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return fmt.Sprintf("%T", c)
}

func (s *Snapshot) ID() int64 { return s.id }
func (s *Snapshot) GUID() string { return s.guid }
func (s *Snapshot) File() string { return s.file }
func (s *Snapshot) FormKey() string { return s.formKey }
func (s *Snapshot) Method() string { return s.method }
func (s *Snapshot) Action() string { return s.action }
func (s *Snapshot) Valid() bool { return s.valid }
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }
func (s *Snapshot) SetID(id int64) { s.id = id }

// Controls returns a copy of the recorded slots.
func (s *Snapshot) Controls() []ControlRecord {
	out := make([]ControlRecord, len(s.controls))
	copy(out, s.controls)
	return out
}

// Render prints the snapshot one line per slot, the form's own line first.
func (s *Snapshot) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "form %s method=%s action=%s valid=%t\n", s.formKey, s.method, s.action, s.valid)
	for _, c := range s.controls {
		fmt.Fprintf(&sb, "%d %s name=%q valid=%t\n", c.Index, c.Kind, c.Name, c.Valid)
	}
	return sb.String()
}
