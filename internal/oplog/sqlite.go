// Package oplog is a reference LogSink: a durable, idempotent operation
// log backed by sqlite. It is an external collaborator by design — the
// watcher core only depends on the watcher.LogSink interface, never on
// this package or on database/sql directly.
package oplog

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	forgeerrors "github.com/sjzar/forge/internal/errors"
	"github.com/sjzar/forge/internal/watcher"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id TEXT PRIMARY KEY,
	actor_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	kind TEXT NOT NULL,
	lamport INTEGER,
	offset INTEGER,
	line INTEGER,
	column INTEGER,
	content TEXT,
	length INTEGER,
	old_content TEXT,
	new_content TEXT,
	old_path TEXT,
	new_path TEXT,
	parent_id TEXT,
	created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
CREATE INDEX IF NOT EXISTS idx_operations_file_path ON operations(file_path);
`

// Store is a sqlite-backed watcher.LogSink. Append is idempotent on the
// operation's id: a second Append of the same id reports inserted=false
// rather than erroring.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, forgeerrors.Config("open oplog database", err).WithStack()
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, forgeerrors.Config("init oplog schema", err).WithStack()
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append implements watcher.LogSink. Position-carrying kinds (insert,
// delete, replace) persist their Lamport/offset/line/column; file-level
// kinds leave those columns NULL.
func (s *Store) Append(op *watcher.Operation) (bool, error) {
	var lamport, offset, line, column sql.NullInt64
	var actorID string
	if op.Position != nil {
		lamport = sql.NullInt64{Int64: int64(op.Position.Lamport), Valid: true}
		offset = sql.NullInt64{Int64: int64(op.Position.Offset), Valid: true}
		line = sql.NullInt64{Int64: int64(op.Position.Line), Valid: true}
		column = sql.NullInt64{Int64: int64(op.Position.Column), Valid: true}
		actorID = op.Position.ActorID
	} else {
		actorID = op.ActorID
	}

	var parentID *string
	if len(op.ParentOps) > 0 {
		p := op.ParentOps[0].String()
		parentID = &p
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO operations
			(id, actor_id, file_path, kind, lamport, offset, line, column, content, length, old_content, new_content, old_path, new_path, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID.String(), actorID, op.FilePath, op.Kind.String(),
		lamport, offset, line, column,
		nullIfEmpty(op.Content), nullIfZero(op.Length), nullIfEmpty(op.OldContent), nullIfEmpty(op.NewContent),
		nullIfEmpty(op.OldPath), nullIfEmpty(op.NewPath), parentID,
	)
	if err != nil {
		return false, forgeerrors.AppendFailed(op.FilePath, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, forgeerrors.AppendFailed(op.FilePath, err)
	}
	return n > 0, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullIfZero(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// Operations returns every stored operation for path, ordered by insertion
// (rowid), for CLI inspection/debugging.
func (s *Store) Operations(path string) ([]StoredOperation, error) {
	rows, err := s.db.Query(
		`SELECT id, actor_id, file_path, kind, lamport, offset, line, column, content, length, old_content, new_content, old_path, new_path, parent_id
		 FROM operations WHERE file_path = ? ORDER BY rowid ASC`, path)
	if err != nil {
		return nil, forgeerrors.Config("query operations", err).WithStack()
	}
	defer rows.Close()

	var out []StoredOperation
	for rows.Next() {
		var o StoredOperation
		if err := rows.Scan(
			&o.ID, &o.ActorID, &o.FilePath, &o.Kind, &o.Lamport, &o.Offset, &o.Line, &o.Column,
			&o.Content, &o.Length, &o.OldContent, &o.NewContent, &o.OldPath, &o.NewPath, &o.ParentID,
		); err != nil {
			return nil, forgeerrors.Config("scan operation row", err).WithStack()
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// StoredOperation is the flat row shape Operations scans into; nullable
// columns use sql.Null* so a CLI can print them without panicking on NULL.
type StoredOperation struct {
	ID         string
	ActorID    string
	FilePath   string
	Kind       string
	Lamport    sql.NullInt64
	Offset     sql.NullInt64
	Line       sql.NullInt64
	Column     sql.NullInt64
	Content    sql.NullString
	Length     sql.NullInt64
	OldContent sql.NullString
	NewContent sql.NullString
	OldPath    sql.NullString
	NewPath    sql.NullString
	ParentID   sql.NullString
}
