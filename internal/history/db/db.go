// Package db implements the database history: a metadata table that
// records, in monotonically increasing applied_order, which Versions have
// been run against a live database.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/sqlfmt"
	"gopkg.in/yaml.v3"
)

const DefaultMetadataSchema = "podo_meta"

// ErrorKind is the closed set of database-history failures.
type ErrorKind int

const (
	NotInitialized ErrorKind = iota
	NoMatchingVersion
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// AppliedVersion is one row of the metadata table.
type AppliedVersion struct {
	Name          string
	Previous      *string
	Changes       []change.Change
	Up            []string
	Down          []string
	AppliedAt     time.Time
	AppliedOrder  int64
}

// History operates against one metadata schema inside a live database.
type History struct {
	Schema string
}

func New(schema string) *History {
	if schema == "" {
		schema = DefaultMetadataSchema
	}
	return &History{Schema: schema}
}

func (h *History) table() string {
	return sqlfmt.QA(h.Schema, "version")
}

// MetaSchemaExists checks pg_namespace for the metadata schema.
func (h *History) MetaSchemaExists(ctx context.Context, tx *sql.Tx) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_namespace WHERE nspname = $1)`, h.Schema).Scan(&exists)
	return exists, err
}

// EnsureInitialized creates the metadata schema and version table if they
// do not already exist.
func (h *History) EnsureInitialized(ctx context.Context, tx *sql.Tx) error {
	exists, err := h.MetaSchemaExists(ctx, tx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA %s;", sqlfmt.QN(h.Schema)),
		fmt.Sprintf(`CREATE TABLE %s (
			name text PRIMARY KEY,
			previous text,
			changes jsonb NOT NULL,
			up text[] NOT NULL,
			down text[] NOT NULL,
			applied_at timestamptz NOT NULL DEFAULT now(),
			applied_order bigserial UNIQUE
		);`, h.table()),
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure_initialized: %w", err)
		}
	}
	return nil
}

// CurrentVersion returns the name of the version with the highest
// applied_order, or fs.Init if nothing has been applied yet.
func (h *History) CurrentVersion(ctx context.Context, tx *sql.Tx) (string, error) {
	row := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT name FROM %s ORDER BY applied_order DESC LIMIT 1`, h.table()))
	var name string
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "init", nil
		}
		return "", err
	}
	return name, nil
}

// SaveVersion records a version as applied. It must be called with
// applied_order increasing monotonically, which the bigserial column
// enforces.
func (h *History) SaveVersion(ctx context.Context, tx *sql.Tx, v *AppliedVersion) error {
	encoded, err := change.Encode(v.Changes)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(encoded, &generic); err != nil {
		return err
	}
	changesJSON, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, previous, changes, up, down) VALUES ($1, $2, $3, $4, $5)`, h.table()),
		v.Name, v.Previous, string(changesJSON), pq.Array(v.Up), pq.Array(v.Down))
	return err
}

// DeleteVersion removes an applied version's row, used by `down`.
func (h *History) DeleteVersion(ctx context.Context, tx *sql.Tx, name string) error {
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, h.table()), name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &Error{Kind: NoMatchingVersion, Msg: fmt.Sprintf("no applied version named %q", name)}
	}
	return nil
}

// GetVersion loads one applied version's row by name.
func (h *History) GetVersion(ctx context.Context, tx *sql.Tx, name string) (*AppliedVersion, error) {
	row := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT name, previous, changes, up, down, applied_at, applied_order FROM %s WHERE name = $1`, h.table()),
		name)
	return scanAppliedVersion(row)
}

// DownwardRange returns applied versions with applied_order in
// (toOrder, fromOrder], descending — "roll back everything applied after
// `to`, `to` itself remains applied." This is the pinned resolution of the
// downward-range Open Question.
func (h *History) DownwardRange(ctx context.Context, tx *sql.Tx, from, to string) ([]*AppliedVersion, error) {
	fromV, err := h.GetVersion(ctx, tx, from)
	if err != nil {
		return nil, err
	}
	var toOrder int64
	if to != "init" {
		toV, err := h.GetVersion(ctx, tx, to)
		if err != nil {
			return nil, err
		}
		toOrder = toV.AppliedOrder
	}
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT name, previous, changes, up, down, applied_at, applied_order FROM %s
			WHERE applied_order > $1 AND applied_order <= $2 ORDER BY applied_order DESC`, h.table()),
		toOrder, fromV.AppliedOrder)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*AppliedVersion
	for rows.Next() {
		v, err := scanAppliedVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppliedVersion(row scanner) (*AppliedVersion, error) {
	var (
		name, changesJSON string
		previous          sql.NullString
		up, down          []string
		appliedAt         time.Time
		appliedOrder      int64
	)
	if err := row.Scan(&name, &previous, &changesJSON, pq.Array(&up), pq.Array(&down), &appliedAt, &appliedOrder); err != nil {
		return nil, err
	}
	changes, err := change.Decode([]byte(changesJSON))
	if err != nil {
		return nil, err
	}
	v := &AppliedVersion{
		Name: name, Changes: changes, AppliedAt: appliedAt, AppliedOrder: appliedOrder,
		Up: up, Down: down,
	}
	if previous.Valid {
		v.Previous = &previous.String
	}
	return v, nil
}
