package sqlite

import (
	"time"

	"github.com/zjrosen/formdom/internal/snapshot"
)

// snapshotModel is a row of the snapshots table.
type snapshotModel struct {
	ID        int64
	GUID      string
	File      string
	FormKey   string
	Method    string
	Action    string
	Valid     bool
	CreatedAt int64 // Unix milliseconds
}

// controlModel is a row of the snapshot_controls table.
type controlModel struct {
	SnapshotID int64
	Idx        int
	Name       string
	Kind       string
	Valid      bool
}

func toSnapshotModel(s *snapshot.Snapshot) *snapshotModel {
	return &snapshotModel{
		ID:        s.ID(),
		GUID:      s.GUID(),
		File:      s.File(),
		FormKey:   s.FormKey(),
		Method:    s.Method(),
		Action:    s.Action(),
		Valid:     s.Valid(),
		CreatedAt: s.CreatedAt().UnixMilli(),
	}
}

func (m *snapshotModel) toDomain(controls []controlModel) *snapshot.Snapshot {
	records := make([]snapshot.ControlRecord, len(controls))
	for i, c := range controls {
		records[i] = snapshot.ControlRecord{Index: c.Idx, Name: c.Name, Kind: c.Kind, Valid: c.Valid}
	}
	return snapshot.Reconstitute(m.ID, m.GUID, m.File, m.FormKey, m.Method, m.Action, m.Valid, records, time.UnixMilli(m.CreatedAt))
}
