package presentation

import (
	"time"

	"github.com/zjrosen/formdom/internal/snapshot"
)

// FormDTO is a form's registry prepared for output.
type FormDTO struct {
	GUID      string       `json:"guid,omitempty"`
	File      string       `json:"file"`
	Form      string       `json:"form"`
	Method    string       `json:"method"`
	Action    string       `json:"action"`
	Valid     bool         `json:"valid"`
	Controls  []ControlDTO `json:"controls"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

// ControlDTO is one registry slot.
type ControlDTO struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Valid bool   `json:"valid"`
}

// FromSnapshot converts a snapshot. Stored snapshots carry their GUID and
// creation time; fresh captures leave them out.
func FromSnapshot(s *snapshot.Snapshot) FormDTO {
	controls := make([]ControlDTO, 0, len(s.Controls()))
	for _, c := range s.Controls() {
		controls = append(controls, ControlDTO{Index: c.Index, Name: c.Name, Kind: c.Kind, Valid: c.Valid})
	}
	dto := FormDTO{
		File:     s.File(),
		Form:     s.FormKey(),
		Method:   s.Method(),
		Action:   s.Action(),
		Valid:    s.Valid(),
		Controls: controls,
	}
	if s.ID() > 0 {
		created := s.CreatedAt()
		dto.GUID = s.GUID()
		dto.CreatedAt = &created
	}
	return dto
}

// FromSnapshots converts a list.
func FromSnapshots(list []*snapshot.Snapshot) []FormDTO {
	out := make([]FormDTO, len(list))
	for i, s := range list {
		out[i] = FromSnapshot(s)
	}
	return out
}
