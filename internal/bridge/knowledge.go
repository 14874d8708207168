package bridge

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is the default KnowledgePort: a local sqlite fact base. A query
// matches topics by substring and returns facts most confident first.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS facts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	topic      TEXT NOT NULL,
	title      TEXT NOT NULL,
	summary    TEXT NOT NULL,
	confidence REAL NOT NULL DEFAULT 1.0,
	verified   INTEGER NOT NULL DEFAULT 0,
	tag        TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS facts_topic ON facts(topic);
`

// OpenStore opens (creating if necessary) the fact base at path. The path
// ":memory:" gives a private in-memory store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init knowledge store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Add inserts one fact under a topic. tag and source may be empty.
func (s *Store) Add(ctx context.Context, topic string, fact Fact, tag, source string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO facts (topic, title, summary, confidence, verified, tag, source) VALUES (?, ?, ?, ?, ?, ?, ?)",
		topic, fact.Title, fact.Summary, fact.Confidence, fact.Verified, tag, source)
	return err
}

// Query returns facts whose topic contains query, ordered by confidence
// then insertion. Supported filters: "tag" and "source" (exact match),
// "verified" (true/false), "limit" (row cap). Anything else is rejected so
// a typo in a program surfaces instead of silently matching everything.
func (s *Store) Query(ctx context.Context, query string, filters map[string]string) ([]Fact, error) {
	var b strings.Builder
	b.WriteString("SELECT title, summary, confidence, verified FROM facts WHERE topic LIKE ?")
	args := []interface{}{"%" + query + "%"}

	limit := 0
	for name, value := range filters {
		switch name {
		case "tag", "source":
			b.WriteString(" AND " + name + " = ?")
			args = append(args, value)
		case "verified":
			want, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("bad verified filter %q", value)
			}
			b.WriteString(" AND verified = ?")
			args = append(args, want)
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad limit filter %q", value)
			}
			limit = n
		default:
			return nil, fmt.Errorf("unknown filter %q", name)
		}
	}
	b.WriteString(" ORDER BY confidence DESC, id")
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.Title, &f.Summary, &f.Confidence, &f.Verified); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
