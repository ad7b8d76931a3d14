// Package async runs document-processing jobs on a bounded worker pool so
// the daemon tolerates bursts of concurrent uploads.
package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/pipeline"
)

// Job is one OCR'd document waiting for the pipeline.
type Job struct {
	ApplicationID uuid.UUID
	Document      *entity.Document
	Text          string
	OCRConfidence int
}

type Queue struct {
	proc    *pipeline.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	minOCR  int

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithMinOCRConfidence rejects scans whose reported OCR confidence falls
// below n; zero-confidence jobs (confidence unknown) always pass.
func WithMinOCRConfidence(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.minOCR = n
		}
	}
}

func NewQueue(proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := common.WithTimeout(context.Background(), q.timeout)
					ctx = common.WithApplicationID(ctx, job.ApplicationID.String())
					res := q.proc.ProcessText(ctx, job.ApplicationID, job.Document, job.Text, job.OCRConfidence)
					cancel()

					if !res.Success {
						q.logger.Error("processing failed", "worker_id", workerID, "document_id", job.Document.ID, "actions", res.Actions)
					} else {
						q.logger.Info("processed document", "worker_id", workerID, "document_id", job.Document.ID, "actions", len(res.Actions))
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) Enqueue(_ context.Context, job Job) error {
	if q.minOCR > 0 && job.OCRConfidence > 0 && job.OCRConfidence < q.minOCR {
		q.logger.Warn("rejecting low-confidence scan",
			"document_id", job.Document.ID,
			"confidence", job.OCRConfidence,
			"minimum", q.minOCR,
		)
		return common.WrapError(common.ErrInvalidInput,
			fmt.Sprintf("ocr confidence %d below minimum %d", job.OCRConfidence, q.minOCR))
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "document_id", job.Document.ID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document for processing", "document_id", job.Document.ID)
	default:
		q.logger.Warn("queue full, applying backpressure", "document_id", job.Document.ID)
		q.ch <- job
	}
	return nil
}

func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
