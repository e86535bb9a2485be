package vocab

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
	"github.com/HugoFara/lwt-sub019/pkg/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		conn.Close()
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestImportTSV(t *testing.T) {
	conn := setupTestDB(t)
	input := strings.Join([]string{
		"chat\tcat\t\t5",
		"# comment line",
		"",
		"chien\tdog",
		"Bonjour\thello\t\t99",
		"neko\tcat\tneko\t2",
	}, "\n") + "\n"

	n, err := ImportTSV(conn, "french", strings.NewReader(input))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 imported terms, got %d", n)
	}

	terms, err := db.GetTermsByLanguage(conn, "french")
	if err != nil {
		t.Fatalf("load terms: %v", err)
	}
	byKey := map[string]db.Term{}
	for _, tm := range terms {
		byKey[tm.TermKey] = tm
	}

	if got := byKey["chat"]; got.Status != annotate.Learned || got.Translation != "cat" {
		t.Fatalf("chat: got %+v", got)
	}
	// missing status column defaults to unknown
	if got := byKey["chien"]; got.Status != annotate.Unknown {
		t.Fatalf("chien: got status %v", got.Status)
	}
	// display casing survives, key is folded
	if got := byKey["bonjour"]; got.Display != "Bonjour" || got.Status != annotate.WellKnown {
		t.Fatalf("bonjour: got %+v", got)
	}
	if got := byKey["neko"]; got.Romanization != "neko" {
		t.Fatalf("neko: got %+v", got)
	}
}

func TestImportTSVSkipsBadLines(t *testing.T) {
	conn := setupTestDB(t)
	input := "\tonly-translation\nchat\tcat\t\tnot-a-number\nchien\tdog\n"
	n, err := ImportTSV(conn, "french", strings.NewReader(input))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported term, got %d", n)
	}
}

func TestImportTSVStatusZeroBecomesUnknown(t *testing.T) {
	conn := setupTestDB(t)
	n, err := ImportTSV(conn, "french", strings.NewReader("chat\tcat\t\t0\n"))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported term, got %d", n)
	}
	terms, err := db.GetTermsByLanguage(conn, "french")
	if err != nil {
		t.Fatalf("load terms: %v", err)
	}
	if len(terms) != 1 || terms[0].Status != annotate.Unknown {
		t.Fatalf("got %+v", terms)
	}
}

func TestExportTSVRoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	input := "chat\tcat\t\t5\nchien\tdog\t\t1\n"
	if _, err := ImportTSV(conn, "french", strings.NewReader(input)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	var out strings.Builder
	n, err := ExportTSV(conn, "french", &out)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 exported terms, got %d", n)
	}

	conn2 := setupTestDB(t)
	if _, err := ImportTSV(conn2, "french", strings.NewReader(out.String())); err != nil {
		t.Fatalf("reimport failed: %v", err)
	}
	terms, err := db.GetTermsByLanguage(conn2, "french")
	if err != nil {
		t.Fatalf("load terms: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms after round trip, got %d", len(terms))
	}
	for _, tm := range terms {
		if tm.TermKey == "chat" && tm.Status != annotate.Learned {
			t.Fatalf("chat lost its status: %+v", tm)
		}
	}
}
