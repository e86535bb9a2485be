package db

// migrationsSQL is applied statement by statement on startup. Statements
// are idempotent so re-running them against an existing database is safe.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS texts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	language TEXT NOT NULL,
	body TEXT NOT NULL,
	annotation TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_texts_language ON texts(language);

CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	language TEXT NOT NULL,
	term_key TEXT NOT NULL,
	display TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 1,
	translation TEXT NOT NULL DEFAULT '',
	romanization TEXT NOT NULL DEFAULT '',
	UNIQUE(language, term_key)
);

CREATE INDEX IF NOT EXISTS idx_terms_language ON terms(language)
`
