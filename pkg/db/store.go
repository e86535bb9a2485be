package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateText stores a new text and returns its id. The overlay starts
// empty; annotation happens as a separate step.
func CreateText(db DBExecutor, title, language, body string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("title must be non-empty")
	}
	if strings.TrimSpace(language) == "" {
		return 0, fmt.Errorf("language must be non-empty")
	}
	res, err := db.Exec(
		`INSERT INTO texts (title, language, body) VALUES (?, ?, ?)`,
		title, language, body,
	)
	if err != nil {
		return 0, fmt.Errorf("insert text: %w", err)
	}
	return res.LastInsertId()
}

// GetText loads a text by id.
func GetText(db DBExecutor, id int64) (Text, error) {
	var t Text
	err := db.QueryRow(
		`SELECT id, title, language, body, annotation, created_at FROM texts WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Title, &t.Language, &t.Body, &t.Annotation, &t.CreatedAt)
	if err != nil {
		return Text{}, err
	}
	return t, nil
}

// ListTextsByLanguage returns all texts of one language, oldest first.
func ListTextsByLanguage(db DBExecutor, language string) ([]Text, error) {
	rows, err := db.Query(
		`SELECT id, title, language, body, annotation, created_at FROM texts WHERE language = ? ORDER BY id`,
		language,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Text
	for rows.Next() {
		var t Text
		if err := rows.Scan(&t.ID, &t.Title, &t.Language, &t.Body, &t.Annotation, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTextBody replaces the body of a text. The stale overlay is kept
// until the next reconciliation supersedes it.
func UpdateTextBody(db DBExecutor, id int64, body string) error {
	res, err := db.Exec(`UPDATE texts SET body = ? WHERE id = ?`, body, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// SetTextAnnotation replaces the whole overlay of a text. Overlays are
// never merged; the last writer wins.
func SetTextAnnotation(db DBExecutor, id int64, overlay string) error {
	res, err := db.Exec(`UPDATE texts SET annotation = ? WHERE id = ?`, overlay, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("text %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// UpsertTerm inserts or updates a vocabulary term, keyed by its
// case-folded form within one language, and returns its id.
func UpsertTerm(db DBExecutor, t Term) (int64, error) {
	if strings.TrimSpace(t.Display) == "" {
		return 0, fmt.Errorf("term must be non-empty")
	}
	if t.TermKey == "" {
		t.TermKey = annotate.TermKey(t.Display)
	}
	if !t.Status.Valid() || t.Status == annotate.None {
		return 0, fmt.Errorf("term %q: invalid status %d", t.Display, t.Status)
	}

	var id int64
	query := `INSERT INTO terms (language, term_key, display, status, translation, romanization)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(language, term_key)
			  DO UPDATE SET
			    display = excluded.display,
				status = excluded.status,
				translation = COALESCE(NULLIF(excluded.translation, ''), terms.translation),
				romanization = COALESCE(NULLIF(excluded.romanization, ''), terms.romanization)
			  RETURNING id`
	err := db.QueryRow(query, t.Language, t.TermKey, t.Display, int(t.Status), t.Translation, t.Romanization).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert term: %w", err)
	}
	return id, nil
}

// GetTermsByLanguage returns all terms of one language.
func GetTermsByLanguage(db DBExecutor, language string) ([]Term, error) {
	rows, err := db.Query(
		`SELECT id, language, term_key, display, status, translation, romanization
		 FROM terms WHERE language = ? ORDER BY term_key`,
		language,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Term
	for rows.Next() {
		var t Term
		var status int
		if err := rows.Scan(&t.ID, &t.Language, &t.TermKey, &t.Display, &status, &t.Translation, &t.Romanization); err != nil {
			return nil, err
		}
		t.Status = annotate.NormalizeStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

// TermLookup loads a language's vocabulary into memory and returns the
// lookup the annotation encoder consumes. The snapshot is immutable, so
// the returned func is safe for concurrent use.
func TermLookup(db DBExecutor, language string) (annotate.Lookup, error) {
	terms, err := GetTermsByLanguage(db, language)
	if err != nil {
		return nil, err
	}
	index := make(map[string]annotate.Entry, len(terms))
	for _, t := range terms {
		index[t.TermKey] = annotate.Entry{Status: t.Status, Translation: t.Translation}
	}
	return func(termKey string) (annotate.Entry, bool) {
		e, ok := index[termKey]
		return e, ok
	}, nil
}
