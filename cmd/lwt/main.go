package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
	"github.com/HugoFara/lwt-sub019/pkg/db"
	"github.com/HugoFara/lwt-sub019/pkg/excerpt"
	"github.com/HugoFara/lwt-sub019/pkg/ingest"
	"github.com/HugoFara/lwt-sub019/pkg/language"
	"github.com/HugoFara/lwt-sub019/pkg/segment"
	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
	"github.com/HugoFara/lwt-sub019/pkg/vocab"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	dbFlag := flag.String("db", "lwt.db", "Path to SQLite database")
	profilesFlag := flag.String("profiles", "", "Path to a TOML language-profile file (built-ins used when empty)")
	langFlag := flag.String("lang", "english", "Language profile name")

	importURL := flag.String("import-url", "", "Import an article from a URL as a new text")
	importFile := flag.String("import-file", "", "Import a plain-text file as a new text")
	titleFlag := flag.String("title", "", "Title for an imported text")
	markFlag := flag.Bool("mark", false, "Insert word-boundary sentinels on import (spaceless scripts)")

	termFlag := flag.String("term", "", "Save a vocabulary term")
	translationFlag := flag.String("translation", "", "Translation for -term")
	romanizationFlag := flag.String("romanization", "", "Romanization for -term")
	statusFlag := flag.Int("status", int(annotate.Unknown), "Status code for -term (1-5, 98, 99)")

	importTerms := flag.String("import-terms", "", "Import a tab-separated term list file")
	exportTerms := flag.Bool("export-terms", false, "Write the -lang term list to stdout as tab-separated text")

	annotateID := flag.Int64("annotate", 0, "Annotate text ID from the stored vocabulary")
	editID := flag.Int64("edit-body", 0, "Replace body of text ID from -import-file and reconcile its overlay")
	reparseFlag := flag.Bool("reparse", false, "Re-tokenize and reconcile every text of -lang")

	excerptID := flag.Int64("text", 0, "Text ID for -excerpt")
	excerptWord := flag.String("excerpt", "", "Print a bounded excerpt around this word")
	maxLenFlag := flag.Int("maxlen", 80, "Excerpt length bound in runes")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	profiles := language.DefaultProfiles()
	if *profilesFlag != "" {
		loaded, err := language.LoadProfiles(*profilesFlag)
		if err != nil {
			log.Fatalf("Failed to load language profiles: %v", err)
		}
		profiles = loaded
	}
	cfg, ok := profiles[*langFlag]
	if !ok {
		log.Fatalf("Unknown language %q; have: %s", *langFlag, strings.Join(language.ProfileNames(profiles), ", "))
	}

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()
	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	switch {
	case *termFlag != "":
		id, err := db.UpsertTerm(conn, db.Term{
			Language:     *langFlag,
			Display:      *termFlag,
			Status:       annotate.NormalizeStatus(*statusFlag),
			Translation:  *translationFlag,
			Romanization: *romanizationFlag,
		})
		if err != nil {
			log.Fatalf("Failed to save term: %v", err)
		}
		fmt.Printf("Saved term %q (id %d)\n", *termFlag, id)

	case *importTerms != "":
		f, err := os.Open(*importTerms)
		if err != nil {
			log.Fatalf("Failed to open term list: %v", err)
		}
		defer f.Close()
		n, err := vocab.ImportTSV(conn, *langFlag, f)
		if err != nil {
			log.Fatalf("Term import failed after %d term(s): %v", n, err)
		}
		fmt.Printf("Imported %d %s term(s)\n", n, *langFlag)

	case *exportTerms:
		if _, err := vocab.ExportTSV(conn, *langFlag, os.Stdout); err != nil {
			log.Fatalf("Term export failed: %v", err)
		}

	case *importURL != "" || *importFile != "":
		body, title, err := loadBody(ctx, *importURL, *importFile)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		if *titleFlag != "" {
			title = *titleFlag
		}
		if *markFlag && cfg.NoNativeSpacing {
			marker, err := segment.NewMarker()
			if err != nil {
				log.Fatalf("Failed to build boundary marker: %v", err)
			}
			body = marker.Mark(body)
		}
		if *editID != 0 {
			reconcileBody(conn, cfg, *editID, body)
			return
		}
		id, err := db.CreateText(conn, title, *langFlag, body)
		if err != nil {
			log.Fatalf("Failed to store text: %v", err)
		}
		fmt.Printf("Imported text %q as ID %d (%d chars)\n", title, id, len(body))

	case *annotateID != 0:
		text := mustText(conn, *annotateID)
		sentences, err := tokenize.Tokenize(text.Body, cfg)
		if err != nil {
			log.Fatalf("Tokenization failed: %v", err)
		}
		lookup, err := db.TermLookup(conn, text.Language)
		if err != nil {
			log.Fatalf("Failed to load vocabulary: %v", err)
		}
		overlay, err := annotate.Encode(tokenize.Flatten(sentences), lookup)
		if err != nil {
			log.Fatalf("Annotation failed: %v", err)
		}
		if err := db.SetTextAnnotation(conn, text.ID, overlay); err != nil {
			log.Fatalf("Failed to store overlay: %v", err)
		}
		words := tokenize.Words(sentences)
		fmt.Printf("Annotated text %d: %d sentences, %d words\n", text.ID, len(sentences), len(words))

	case *reparseFlag:
		rp := ingest.NewReparser(conn, profiles)
		rp.Logger = log.New(os.Stderr, "", log.LstdFlags)
		rp.OnProgress = func(current, total int) {
			fmt.Printf("\r%d/%d texts", current, total)
		}
		count, err := rp.ReparseLanguage(ctx, *langFlag)
		fmt.Println()
		if err != nil {
			log.Fatalf("Reparse failed after %d text(s): %v", count, err)
		}
		fmt.Printf("Reparsed %d %s text(s)\n", count, *langFlag)

	case *excerptWord != "" && *excerptID != 0:
		text := mustText(conn, *excerptID)
		fmt.Println(excerpt.PortionAroundTerm(text.Body, *excerptWord, *maxLenFlag))

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func mustText(conn *sql.DB, id int64) db.Text {
	text, err := db.GetText(conn, id)
	if err != nil {
		log.Fatalf("Failed to load text %d: %v", id, err)
	}
	return text
}

// reconcileBody stores the new body and immediately re-aligns the
// existing overlay onto it, so user-entered data survives the edit.
func reconcileBody(conn *sql.DB, cfg language.Config, id int64, body string) {
	text := mustText(conn, id)
	sentences, err := tokenize.Tokenize(body, cfg)
	if err != nil {
		log.Fatalf("Tokenization failed: %v", err)
	}
	rec := &annotate.Reconciler{}
	overlay := ""
	if text.Annotation != "" {
		overlay, err = rec.Reconcile(text.Annotation, sentences)
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
	}
	if err := db.UpdateTextBody(conn, id, body); err != nil {
		log.Fatalf("Failed to update body: %v", err)
	}
	if overlay != "" {
		if err := db.SetTextAnnotation(conn, id, overlay); err != nil {
			log.Fatalf("Failed to store overlay: %v", err)
		}
	}
	fmt.Printf("Updated text %d and reconciled its overlay\n", id)
}

// loadBody reads an import source: a local file verbatim, or a URL run
// through readability extraction.
func loadBody(ctx context.Context, importURL, importFile string) (body, title string, err error) {
	if importFile != "" {
		data, err := os.ReadFile(importFile)
		if err != nil {
			return "", "", err
		}
		return string(data), strings.TrimSuffix(importFile, ".txt"), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", importURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("got status %d", resp.StatusCode)
	}

	const maxBodySize = 10 * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", err
	}
	if int64(len(data)) >= int64(maxBodySize) {
		return "", "", fmt.Errorf("response exceeded %d bytes", maxBodySize)
	}

	parsedURL, _ := url.Parse(importURL)
	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("extract article: %w", err)
	}
	return article.TextContent, article.Title, nil
}
