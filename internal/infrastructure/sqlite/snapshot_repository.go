package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/formdom/internal/snapshot"
)

const snapshotColumns = `id, guid, file, form_key, method, action, valid, created_at`

type snapshotRepository struct {
	db *sql.DB
}

func newSnapshotRepository(db *sql.DB) *snapshotRepository {
	return &snapshotRepository{db: db}
}

var _ snapshot.Repository = (*snapshotRepository)(nil)

func scanSnapshot(scanner interface{ Scan(...any) error }) (*snapshotModel, error) {
	var m snapshotModel
	err := scanner.Scan(&m.ID, &m.GUID, &m.File, &m.FormKey, &m.Method, &m.Action, &m.Valid, &m.CreatedAt)
	return &m, err
}

// Save inserts the snapshot and its controls in one transaction.
func (r *snapshotRepository) Save(ctx context.Context, s *snapshot.Snapshot) error {
	m := toSnapshotModel(s)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (guid, file, form_key, method, action, valid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.GUID, m.File, m.FormKey, m.Method, m.Action, m.Valid, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, c := range s.Controls() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_controls (snapshot_id, idx, name, kind, valid) VALUES (?, ?, ?, ?, ?)`,
			id, c.Index, c.Name, c.Kind, c.Valid,
		); err != nil {
			return fmt.Errorf("failed to insert snapshot control: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	s.SetID(id)
	return nil
}

// Latest returns the most recently saved snapshot for the form.
func (r *snapshotRepository) Latest(ctx context.Context, file, formKey string) (*snapshot.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE file = ? AND form_key = ? ORDER BY id DESC LIMIT 1`,
		file, formKey,
	)
	m, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &snapshot.NotFoundError{File: file, FormKey: formKey}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	controls, err := r.controls(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return m.toDomain(controls), nil
}

// List returns the file's snapshots, newest first.
func (r *snapshotRepository) List(ctx context.Context, file string, limit int) ([]*snapshot.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE file = ? ORDER BY id DESC`
	args := []any{file}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var models []*snapshotModel
	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	_ = rows.Close()

	out := make([]*snapshot.Snapshot, 0, len(models))
	for _, m := range models {
		controls, err := r.controls(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, m.toDomain(controls))
	}
	return out, nil
}

func (r *snapshotRepository) controls(ctx context.Context, snapshotID int64) ([]controlModel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT snapshot_id, idx, name, kind, valid FROM snapshot_controls WHERE snapshot_id = ? ORDER BY idx`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot controls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []controlModel
	for rows.Next() {
		var c controlModel
		if err := rows.Scan(&c.SnapshotID, &c.Idx, &c.Name, &c.Kind, &c.Valid); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot control: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
