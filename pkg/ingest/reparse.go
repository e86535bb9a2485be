// Package ingest runs bulk re-annotation of stored texts.
//
// When a language profile changes (new term characters, different
// sentence terminators), every text in that language must be re-tokenized
// and its overlay reconciled so no user-entered translation is lost. The
// CPU-bound work fans out over a worker pool; overlay writes funnel
// through a batching transaction writer.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
	"github.com/HugoFara/lwt-sub019/pkg/db"
	"github.com/HugoFara/lwt-sub019/pkg/language"
	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Reparser re-tokenizes and re-annotates every text of a language.
type Reparser struct {
	DB *sql.DB
	// Profiles maps language names to their tokenization configs.
	Profiles map[string]language.Config
	// Strategy resolves duplicate-term matches during reconciliation.
	// Nil means the default (earliest unconsumed).
	Strategy annotate.MatchStrategy

	BatchSize int
	Workers   int

	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called with the number of processed texts and the total.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewReparser creates a Reparser with default batch and worker counts.
func NewReparser(conn *sql.DB, profiles map[string]language.Config) *Reparser {
	return &Reparser{
		DB:        conn,
		Profiles:  profiles,
		BatchSize: 20,
		Workers:   4,
	}
}

// reparseResult is one text's freshly produced overlay, or the error that
// stopped it.
type reparseResult struct {
	textID  int64
	overlay string
	err     error
}

// ReparseLanguage rebuilds the overlay of every text in lang and returns
// how many texts were updated. The first failure cancels the run;
// overlays already committed stay in place, which is safe because each
// one is a complete replacement for its own text.
func (rp *Reparser) ReparseLanguage(ctx context.Context, lang string) (int, error) {
	cfg, ok := rp.Profiles[lang]
	if !ok {
		return 0, fmt.Errorf("no language profile %q", lang)
	}

	texts, err := db.ListTextsByLanguage(rp.DB, lang)
	if err != nil {
		return 0, fmt.Errorf("list texts: %w", err)
	}
	if len(texts) == 0 {
		return 0, nil
	}
	// Vocabulary snapshot for texts annotated for the first time.
	lookup, err := db.TermLookup(rp.DB, lang)
	if err != nil {
		return 0, fmt.Errorf("load terms: %w", err)
	}

	if rp.Logger != nil {
		rp.Logger.Printf("reparsing %d %s text(s)", len(texts), lang)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wp WorkerPoolInterface
	if rp.PoolFactory != nil {
		wp = rp.PoolFactory(rp.Workers, rp.Workers*2)
	} else {
		wp = NewWorkerPool(rp.Workers, rp.Workers*2)
	}
	resultCh := make(chan reparseResult, rp.Workers*2)
	bw := NewBatchWriter(rp.DB, rp.BatchSize, 100*time.Millisecond)
	wp.Start(ctx)

	doneCh := make(chan error, 1)
	var updated int64

	go func() {
		defer close(doneCh)
		processed := 0
		for res := range resultCh {
			if res.err != nil {
				cancel()
				doneCh <- res.err
				return
			}
			id, overlay := res.textID, res.overlay
			err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				return db.SetTextAnnotation(tx, id, overlay)
			})
			if err != nil {
				cancel()
				doneCh <- err
				return
			}
			atomic.AddInt64(&updated, 1)
			processed++
			if rp.OnProgress != nil {
				rp.OnProgress(processed, len(texts))
			}
		}
		doneCh <- nil
	}()

Loop:
	for _, t := range texts {
		text := t
		job := func(ctx context.Context) error {
			overlay, err := rp.reparseText(cfg, lookup, text)
			select {
			case resultCh <- reparseResult{textID: text.ID, overlay: overlay, err: err}:
			case <-ctx.Done():
			}
			return err
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			cancel()
			wp.Close()
			close(resultCh)
			<-doneCh
			_ = bw.Close()
			return int(atomic.LoadInt64(&updated)), err
		}
	}

	wp.Close()
	close(resultCh)

	runErr := <-doneCh
	if err := bw.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return int(atomic.LoadInt64(&updated)), runErr
}

// reparseText produces the replacement overlay for one text: a fresh
// vocabulary-matched overlay when none exists yet, otherwise a
// reconciliation of the stored one against the new tokenization.
func (rp *Reparser) reparseText(cfg language.Config, lookup annotate.Lookup, t db.Text) (string, error) {
	sentences, err := tokenize.Tokenize(t.Body, cfg)
	if err != nil {
		return "", fmt.Errorf("text %d: %w", t.ID, err)
	}
	if t.Annotation == "" {
		overlay, err := annotate.Encode(tokenize.Flatten(sentences), lookup)
		if err != nil {
			return "", fmt.Errorf("text %d: %w", t.ID, err)
		}
		return overlay, nil
	}
	rec := &annotate.Reconciler{Strategy: rp.Strategy}
	overlay, err := rec.Reconcile(t.Annotation, sentences)
	if err != nil {
		return "", fmt.Errorf("text %d: %w", t.ID, err)
	}
	return overlay, nil
}
