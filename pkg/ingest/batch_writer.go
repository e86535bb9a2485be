package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers overlay writes and flushes them in batches inside a
// transaction, so a large re-parse run does not pay one commit per text.
type BatchWriter struct {
	db  *sql.DB
	cap int

	mu     sync.Mutex
	buf    []WriteFunc
	closed bool

	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup

	// lastErr stores the first error seen by a flush. Protected by errMu.
	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter creates a BatchWriter flushing every bufferSize
// submissions, and additionally every flushInterval when it is positive.
func NewBatchWriter(db *sql.DB, bufferSize int, flushInterval time.Duration) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	bw := &BatchWriter{
		db:   db,
		cap:  bufferSize,
		buf:  make([]WriteFunc, 0, bufferSize),
		done: make(chan struct{}),
	}
	if flushInterval > 0 {
		bw.ticker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Submit enqueues a write function.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.cap {
		bw.flushLocked()
	}
	return nil
}

// flushLocked assumes bw.mu is held. The batch runs synchronously on the
// caller's goroutine, which gives Submit natural backpressure.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.cap)
	if err := bw.executeBatch(batch); err != nil {
		bw.errMu.Lock()
		if bw.lastErr == nil {
			bw.lastErr = err
		}
		bw.errMu.Unlock()
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	ctx := context.Background()
	// No DB configured (testing): run callbacks without a transaction.
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}
	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.done:
			return
		case <-bw.ticker.C:
			bw.mu.Lock()
			bw.flushLocked()
			bw.mu.Unlock()
		}
	}
}

// Close stops accepting submissions, flushes the remainder, and returns
// the first error any flush produced.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.ticker != nil {
		bw.ticker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	close(bw.done)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}

var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
