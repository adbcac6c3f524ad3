package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"

	_ "modernc.org/sqlite" // Pure Go driver
)

// SQLiteConfig defines standard SQLite operational parameters.
type SQLiteConfig struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
	// Hash assigns record references; defaults to the content hash.
	Hash sssom.Hash
}

// DefaultSQLiteConfig returns the recommended configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 25,
	}
}

// SQLite is a Repository backed by a SQLite file. Mappings are stored as
// JSON payloads keyed by their record reference, with the subject and
// object indexed for lookups.
type SQLite struct {
	db   *sql.DB
	hash sssom.Hash
}

var _ Repository = (*SQLite)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS mappings (
	record_id          TEXT PRIMARY KEY,
	subject_id         TEXT NOT NULL,
	object_id          TEXT NOT NULL,
	justification      TEXT NOT NULL,
	predicate_modifier TEXT NOT NULL DEFAULT '',
	comment            TEXT NOT NULL DEFAULT '',
	payload            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mappings_subject       ON mappings(subject_id);
CREATE INDEX IF NOT EXISTS idx_mappings_object        ON mappings(object_id);
CREATE INDEX IF NOT EXISTS idx_mappings_justification ON mappings(justification);
`

// OpenSQLite opens (creating if needed) a SQLite-backed repository. WAL
// mode and busy_timeout are set in the DSN so every pooled connection
// carries them.
func OpenSQLite(path string, cfg SQLiteConfig) (*SQLite, error) {
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.Hash == nil {
		cfg.Hash = sssom.HashV1
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}
	return &SQLite{db: db, hash: cfg.Hash}, nil
}

func (s *SQLite) Add(ctx context.Context, m sssom.Mapping) (curie.Reference, error) {
	m.Record = nil
	ref := s.hash(m)
	m.Record = &ref

	payload, err := json.Marshal(m)
	if err != nil {
		return curie.Reference{}, fmt.Errorf("sqlite: encode mapping: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO mappings (record_id, subject_id, object_id, justification, predicate_modifier, comment, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ref.CURIE(), m.Subject.CURIE(), m.Object.CURIE(),
		m.Justification.CURIE(), m.PredicateModifier, m.Comment, string(payload))
	if err != nil {
		return curie.Reference{}, fmt.Errorf("sqlite: add mapping: %w", err)
	}
	return ref, nil
}

func (s *SQLite) Get(ctx context.Context, ref curie.Reference) (sssom.Mapping, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM mappings WHERE record_id = ?`, ref.CURIE()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return sssom.Mapping{}, fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	if err != nil {
		return sssom.Mapping{}, fmt.Errorf("sqlite: get mapping: %w", err)
	}
	return decodeMapping(payload)
}

func (s *SQLite) Delete(ctx context.Context, ref curie.Reference) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM mappings WHERE record_id = ?`, ref.CURIE())
	if err != nil {
		return fmt.Errorf("sqlite: delete mapping: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete mapping: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, ref.CURIE())
	}
	return nil
}

// List narrows rows in SQL where a clause carries a Where condition, then
// re-applies every Match predicate to the decoded mappings. Clauses
// without a SQL form (the label-text queries) filter entirely in-process.
func (s *SQLite) List(ctx context.Context, clauses ...Clause) ([]sssom.Mapping, error) {
	query := `SELECT payload FROM mappings`
	var args []any
	var conds []string
	for _, clause := range clauses {
		if clause.Where != "" {
			conds = append(conds, clause.Where)
			args = append(args, clause.Args...)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY record_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []sssom.Mapping
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqlite: list mappings: %w", err)
		}
		m, err := decodeMapping(payload)
		if err != nil {
			return nil, err
		}
		if matchesAll(m, clauses) {
			out = append(out, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list mappings: %w", err)
	}
	return out, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mappings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count mappings: %w", err)
	}
	return n, nil
}

func (s *SQLite) Curate(ctx context.Context, ref curie.Reference, mark sssom.Mark, authors []curie.Reference) (curie.Reference, error) {
	m, err := s.Get(ctx, ref)
	if err != nil {
		return curie.Reference{}, err
	}
	curated, newRef, err := curate(m, s.hash, mark, authors)
	if err != nil {
		return curie.Reference{}, err
	}
	if err := s.replace(ctx, ref, newRef, curated); err != nil {
		return curie.Reference{}, err
	}
	return newRef, nil
}

func (s *SQLite) Publish(ctx context.Context, ref curie.Reference, date *sssom.Date) (curie.Reference, error) {
	m, err := s.Get(ctx, ref)
	if err != nil {
		return curie.Reference{}, err
	}
	published, newRef := publish(m, s.hash, date)
	if err := s.replace(ctx, ref, newRef, published); err != nil {
		return curie.Reference{}, err
	}
	return newRef, nil
}

// replace atomically swaps an old record for its transformed successor.
func (s *SQLite) replace(ctx context.Context, oldRef, newRef curie.Reference, m sssom.Mapping) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("sqlite: encode mapping: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO mappings (record_id, subject_id, object_id, justification, predicate_modifier, comment, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newRef.CURIE(), m.Subject.CURIE(), m.Object.CURIE(),
		m.Justification.CURIE(), m.PredicateModifier, m.Comment, string(payload)); err != nil {
		return fmt.Errorf("sqlite: store mapping: %w", err)
	}
	if oldRef.CURIE() != newRef.CURIE() {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mappings WHERE record_id = ?`, oldRef.CURIE()); err != nil {
			return fmt.Errorf("sqlite: drop old mapping: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func decodeMapping(payload string) (sssom.Mapping, error) {
	var m sssom.Mapping
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return sssom.Mapping{}, fmt.Errorf("sqlite: decode mapping: %w", err)
	}
	return m, nil
}
