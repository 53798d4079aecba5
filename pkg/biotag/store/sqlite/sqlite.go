package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// Workers share the handle; one connection serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	hash TEXT NOT NULL,
	sentences INTEGER NOT NULL DEFAULT 0,
	stored_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mentions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	sentence INTEGER NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset INTEGER NOT NULL,
	text TEXT NOT NULL,
	grp TEXT,
	tag TEXT,
	score REAL,
	ids TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mentions_doc ON mentions(doc_id);

CREATE TABLE IF NOT EXISTS mention_concepts (
	mention_id INTEGER NOT NULL REFERENCES mentions(id) ON DELETE CASCADE,
	concept TEXT NOT NULL,
	PRIMARY KEY(mention_id, concept)
);

CREATE INDEX IF NOT EXISTS idx_mention_concepts_concept ON mention_concepts(concept);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveCorpus inserts or replaces a document and its mentions
func (s *sqliteStore) SaveCorpus(ctx context.Context, c *corpus.Corpus) error {
	if c == nil || c.ID == "" {
		return internalerr.ErrInvalidInput
	}
	doc := store.FromCorpus(c, s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO documents (id, hash, sentences, stored_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	hash=excluded.hash,
	sentences=excluded.sentences,
	stored_at=excluded.stored_at;
`
	if _, err := tx.ExecContext(ctx, stmt, doc.ID, doc.Hash, doc.Sentences, doc.StoredAt.Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := replaceMentions(ctx, tx, doc); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceMentions(ctx context.Context, tx *sql.Tx, doc store.Document) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM mentions WHERE doc_id=?`, doc.ID); err != nil {
		return err
	}
	if len(doc.Mentions) == 0 {
		return nil
	}

	mstmt, err := tx.PrepareContext(ctx, `
INSERT INTO mentions (doc_id, sentence, start_offset, end_offset, text, grp, tag, score, ids)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer mstmt.Close()

	cstmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO mention_concepts (mention_id, concept) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer cstmt.Close()

	for _, m := range doc.Mentions {
		res, err := mstmt.ExecContext(ctx, doc.ID, m.Sentence, m.Start, m.End, m.Text, m.Group, m.Tag, m.Score, corpus.FormatIdentifiers(m.IDs))
		if err != nil {
			return err
		}
		mentionID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, id := range m.IDs {
			if id.ID == "" {
				continue
			}
			if _, err := cstmt.ExecContext(ctx, mentionID, id.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetDocument retrieves a document and its mentions by id
func (s *sqliteStore) GetDocument(ctx context.Context, id string) (store.Document, error) {
	var (
		doc      store.Document
		storedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hash, sentences, stored_at FROM documents WHERE id=?`, id,
	).Scan(&doc.ID, &doc.Hash, &doc.Sentences, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Document{}, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, storedAt); err == nil {
		doc.StoredAt = ts
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT doc_id, sentence, start_offset, end_offset, text, grp, tag, score, ids
FROM mentions WHERE doc_id=?
ORDER BY id`, id)
	if err != nil {
		return store.Document{}, err
	}
	defer rows.Close()

	doc.Mentions, err = scanMentions(rows)
	if err != nil {
		return store.Document{}, err
	}
	return doc, nil
}

// FindByConcept returns mentions of a concept ordered by document and offset
func (s *sqliteStore) FindByConcept(ctx context.Context, concept string, limit int) ([]store.Mention, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT m.doc_id, m.sentence, m.start_offset, m.end_offset, m.text, m.grp, m.tag, m.score, m.ids
FROM mention_concepts mc
JOIN mentions m ON m.id = mc.mention_id
WHERE mc.concept=?
ORDER BY m.doc_id, m.start_offset, m.end_offset
LIMIT ?`, concept, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMentions(rows)
}

func scanMentions(rows *sql.Rows) ([]store.Mention, error) {
	var out []store.Mention
	for rows.Next() {
		var (
			m     store.Mention
			group sql.NullString
			tag   sql.NullString
			score sql.NullFloat64
			ids   string
		)
		if err := rows.Scan(&m.DocumentID, &m.Sentence, &m.Start, &m.End, &m.Text, &group, &tag, &score, &ids); err != nil {
			return nil, err
		}
		m.Group = group.String
		m.Tag = tag.String
		m.Score = score.Float64
		if ids != "" {
			parsed, err := corpus.ParseIdentifiers(ids)
			if err != nil {
				return nil, fmt.Errorf("mention ids %q: %w", ids, err)
			}
			m.IDs = parsed
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
