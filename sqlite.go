package units

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Revision identifies one saved conversion table.
type Revision struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Rules     int
}

// Store keeps conversion table revisions in SQLite. Quantities are never stored.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	glog.V(2).Infof("opened conversion store %s", path)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS revisions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source TEXT,
			created_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS conversions (
			revision_id TEXT,
			position INTEGER,
			from_unit TEXT,
			rate REAL,
			to_unit TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_revision ON conversions(revision_id, position);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveTable stores rules as a new revision, preserving their order.
func (s *Store) SaveTable(source string, rules []Rule) (Revision, error) {
	rev := Revision{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Rules:     len(rules),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Revision{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO revisions (id, source, created_at) VALUES (?, ?, ?)`,
		rev.ID, rev.Source, rev.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Revision{}, err
	}
	for i, r := range rules {
		_, err := tx.Exec(`INSERT INTO conversions (revision_id, position, from_unit, rate, to_unit) VALUES (?, ?, ?, ?, ?)`,
			rev.ID, i, r.From, r.Rate, r.To)
		if err != nil {
			return Revision{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Revision{}, err
	}
	glog.V(2).Infof("saved revision %s with %d conversions from %s", rev.ID, len(rules), source)
	return rev, nil
}

// Revisions lists stored revisions, newest first.
func (s *Store) Revisions() ([]Revision, error) {
	rows, err := s.db.Query(`SELECT r.id, r.source, r.created_at, COUNT(c.revision_id)
		FROM revisions r LEFT JOIN conversions c ON c.revision_id = r.id
		GROUP BY r.seq ORDER BY r.seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var rev Revision
		var created string
		if err := rows.Scan(&rev.ID, &rev.Source, &created, &rev.Rules); err != nil {
			return nil, err
		}
		rev.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("revision %s: created_at: %w", rev.ID, err)
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// LatestTable returns the newest revision and its rules.
func (s *Store) LatestTable() (Revision, []Rule, error) {
	revs, err := s.Revisions()
	if err != nil {
		return Revision{}, nil, err
	}
	if len(revs) == 0 {
		return Revision{}, nil, ErrNoTable
	}
	rules, err := s.Table(revs[0].ID)
	if err != nil {
		return Revision{}, nil, err
	}
	return revs[0], rules, nil
}

// Table returns the rules of revision id in their original order.
func (s *Store) Table(id string) ([]Rule, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM revisions WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: revision %s", ErrNoTable, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT from_unit, rate, to_unit FROM conversions WHERE revision_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.From, &r.Rate, &r.To); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
