package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Wikid82/lockward/internal/metrics"
	"github.com/Wikid82/lockward/internal/util"
)

var (
	ErrAuditQueueFull    = errors.New("audit queue full")
	ErrAuditWriterClosed = errors.New("audit writer closed")
)

// auditWriteTimeout bounds a single background insert. Request contexts are
// not used because they end as soon as the response is written.
const auditWriteTimeout = 5 * time.Second

// AuditRecorder appends access attempts to the audit log.
type AuditRecorder interface {
	Record(ctx context.Context, a AccessAttempt) error
}

// AuditWriter decouples access responses from audit persistence. Record
// enqueues and returns immediately; one goroutine drains the queue into the
// sink, so appends are serialized and never interleave. Write failures go to
// the reporter.
type AuditWriter struct {
	sink     AuditRecorder
	reporter Reporter
	jobs     chan AccessAttempt
	done     chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAuditWriter(sink AuditRecorder, reporter Reporter, buffer int) *AuditWriter {
	if buffer <= 0 {
		buffer = 1
	}
	w := &AuditWriter{
		sink:     sink,
		reporter: reporter,
		jobs:     make(chan AccessAttempt, buffer),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// Record enqueues a; it fails with ErrAuditQueueFull instead of blocking.
func (w *AuditWriter) Record(_ context.Context, a AccessAttempt) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrAuditWriterClosed
	}
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}

	select {
	case w.jobs <- a:
		metrics.SetAuditQueueDepth(len(w.jobs))
		return nil
	default:
		return ErrAuditQueueFull
	}
}

// Close stops accepting entries, drains the queue and waits for the writer
// goroutine to exit. It is safe to call more than once.
func (w *AuditWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *AuditWriter) loop() {
	defer close(w.done)

	for a := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		err := w.sink.Record(ctx, a)
		cancel()

		metrics.SetAuditQueueDepth(len(w.jobs))
		if err != nil {
			w.reporter.Report("audit.write", err, logrus.Fields{
				"lock":     util.SanitizeID(a.LockID),
				"card":     util.SanitizeID(a.CardID),
				"success":  a.Success,
				"new_card": a.NewCard,
			})
		}
	}
}
