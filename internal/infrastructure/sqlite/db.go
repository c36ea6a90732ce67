// Package sqlite stores form snapshots in a local SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/formdom/internal/log"
	"github.com/zjrosen/formdom/internal/snapshot"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB owns the connection and hands out repositories.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens path, creating its directory with 0700 permissions, enables
// WAL, foreign keys and a 5s busy timeout, and applies pending migrations.
// An existing file is copied to path+".bak" before migrating.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := backup(path); err != nil {
			return nil, err
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	applied, err := migrate(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatDB, "opened database", "path", path, "migrations_applied", applied)

	return &DB{conn: conn, path: path}, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection exposes the underlying handle.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// SnapshotRepository returns the snapshot store backed by this database.
func (db *DB) SnapshotRepository() snapshot.Repository {
	return newSnapshotRepository(db.conn)
}

func backup(path string) error {
	src, err := os.Open(path) // #nosec G304 -- configured database path
	if err != nil {
		return fmt.Errorf("open database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	return dst.Close()
}

// migrate applies every embedded up migration newer than PRAGMA user_version,
// one transaction per version. Returns how many were applied.
func migrate(conn *sql.DB) (int, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	var current uint
	if err := conn.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	version, err := src.First()
	for err == nil {
		if version > current {
			if err := applyVersion(conn, src, version); err != nil {
				return applied, err
			}
			applied++
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("read migrations: %w", err)
	}
	return applied, nil
}

func applyVersion(conn *sql.DB, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", version, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %d (%s): %w", version, name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}
	log.Info(log.CatDB, "applied migration", "version", version, "name", name)
	return nil
}
