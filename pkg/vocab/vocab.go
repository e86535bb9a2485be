// Package vocab imports and exports vocabulary term lists as
// tab-separated text, the interchange format shared with other
// vocabulary tools.
package vocab

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
	"github.com/HugoFara/lwt-sub019/pkg/db"
)

// ImportTSV reads term lines from r and upserts each into the store.
// Columns: term, translation, romanization, status; only the term is
// required. Malformed lines are logged and skipped rather than aborting
// the whole import. Returns the number of terms imported.
func ImportTSV(conn db.DBExecutor, language string, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	imported := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseTermLine(language, line)
		if err != nil {
			log.Printf("skipping term line %d: %v", lineNo, err)
			continue
		}
		if _, err := db.UpsertTerm(conn, t); err != nil {
			log.Printf("skipping term line %d (%s): %v", lineNo, t.Display, err)
			continue
		}
		imported++
	}
	if err := sc.Err(); err != nil {
		return imported, fmt.Errorf("read term list: %w", err)
	}
	return imported, nil
}

func parseTermLine(language, line string) (db.Term, error) {
	fields := strings.Split(line, "\t")
	term := strings.TrimSpace(fields[0])
	if term == "" {
		return db.Term{}, fmt.Errorf("empty term")
	}
	t := db.Term{
		Language: language,
		Display:  term,
		Status:   annotate.Unknown,
	}
	if len(fields) > 1 {
		t.Translation = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		t.Romanization = strings.TrimSpace(fields[2])
	}
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		code, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return db.Term{}, fmt.Errorf("bad status %q: %w", fields[3], err)
		}
		st := annotate.NormalizeStatus(code)
		if st == annotate.None {
			st = annotate.Unknown
		}
		t.Status = st
	}
	return t, nil
}

// ExportTSV writes every term of a language to w, one line per term in
// the same column order ImportTSV reads.
func ExportTSV(conn db.DBExecutor, language string, w io.Writer) (int, error) {
	terms, err := db.GetTermsByLanguage(conn, language)
	if err != nil {
		return 0, fmt.Errorf("load terms: %w", err)
	}
	bw := bufio.NewWriter(w)
	for _, t := range terms {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%d\n", t.Display, t.Translation, t.Romanization, t.Status)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write term list: %w", err)
	}
	return len(terms), nil
}
