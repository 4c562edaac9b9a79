package extract

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/alexey523/libratom/core"
	"github.com/alexey523/libratom/ner"
	"github.com/alexey523/libratom/storage"
)

// Status is the pipeline's return value.
type Status int

const (
	// StatusCompleted means the outcome stream was fully drained and the
	// final flush was attempted.
	StatusCompleted Status = 0

	// StatusCancelled means the run was interrupted; already-committed
	// batches remain durable, everything else is discarded.
	StatusCancelled Status = 1
)

// Pipeline coordinates a worker pool of entity extractors against a single
// serial storage session. The session and the commit cadence are owned
// exclusively by the controller goroutine running Run; workers only ever see
// the extractor.
type Pipeline struct {
	session   storage.Session
	extractor ner.Extractor
	config    *Config
	progress  ProgressFunc
	logger    *slog.Logger

	commitAttempts int
	commitDelay    time.Duration
	deadLetter     BatchRecorder

	batch batchState
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConfig replaces the default tunables.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if err := config.Validate(); err != nil {
			return err
		}
		p.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress sets the progress callback.
// Default is a no-op.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) error {
		if fn == nil {
			fn = func(int) {}
		}
		p.progress = fn
		return nil
	}
}

// WithCommitRetry enables bounded retry with exponential backoff on commit
// failures before a batch is dropped. The default is a single attempt, which
// preserves the baseline drop-on-failure policy.
func WithCommitRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.commitAttempts = maxAttempts
		p.commitDelay = baseDelay
		return nil
	}
}

// WithDeadLetter records every dropped commit batch to the given recorder,
// so the silent-loss baseline at least leaves a durable trace.
func WithDeadLetter(recorder BatchRecorder) Option {
	return func(p *Pipeline) error {
		p.deadLetter = recorder
		return nil
	}
}

// NewPipeline creates an extraction pipeline writing through session and
// analyzing message bodies with extractor.
func NewPipeline(session storage.Session, extractor ner.Extractor, opts ...Option) (*Pipeline, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		session:        session,
		extractor:      extractor,
		config:         DefaultConfig(),
		progress:       func(int) {},
		logger:         slog.Default(),
		commitAttempts: 1,
		commitDelay:    time.Second,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run drains the source through the worker pool and writes the linked
// results to the session. It blocks until the outcome stream is exhausted or
// ctx is cancelled.
//
// The returned Status is StatusCompleted after a full drain (a final-flush
// failure is logged but still completes) and StatusCancelled when ctx was
// cancelled mid-run. The error is non-nil only when the run could not start
// at all; per-message failures, link failures and commit failures never
// surface here.
func (p *Pipeline) Run(ctx context.Context, source Source) (Status, error) {
	if source == nil {
		return StatusCompleted, ErrSourceRequired
	}

	cfg := p.config
	p.logger.Debug("extraction settings",
		"workers", cfg.Workers,
		"chunk_size", cfg.ChunkSize,
		"commit_batch_size", cfg.CommitBatchSize,
		"progress_step", cfg.ProgressStep,
		"max_text_length", cfg.MaxTextLength)

	// The file_report table is preloaded once; per-outcome resolution is an
	// exact path match against this map, with a miss recorded as a null link.
	reportsByPath := p.loadFileReports(ctx)

	// Pool lifetime is scoped to this one invocation.
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return StatusCompleted, err
	}
	defer pool.Release()

	p.batch.reset()

	results := make(chan Outcome, cfg.ChunkSize)
	// abort is closed on cancellation: in-flight workers discard their
	// unreturned outcomes instead of blocking on a channel nobody reads.
	abort := make(chan struct{})

	go p.produce(ctx, source, pool, results, abort)

	msgCount := 0
	var buffer []*core.Entity

	for {
		select {
		case <-ctx.Done():
			p.logger.Warn("cancelling running task")
			p.logger.Info("partial results written to database")
			p.logger.Info("terminating workers")
			close(abort)
			return StatusCancelled, nil

		case out, ok := <-results:
			if !ok {
				// Outcome stream exhausted: stage the remaining buffer and
				// perform the final commit.
				p.session.AddEntities(buffer)
				p.batch.entities += len(buffer)
				if err := p.commit(ctx); err != nil {
					p.logger.Error("final commit failed", "error", err)
					p.session.Rollback()
					p.recordDropped(ctx, err)
				}
				p.batch.reset()
				p.progress(msgCount % cfg.ProgressStep)
				return StatusCompleted, nil
			}

			msgCount++
			buffer = p.consume(ctx, &out, reportsByPath, buffer)

			if msgCount%cfg.ProgressStep == 0 {
				p.progress(cfg.ProgressStep)
			}
		}
	}
}

// produce drains the source, groups jobs into chunks and submits one pool
// task per chunk. Each task emits its outcomes onto results in completion
// order. results is closed once every submitted task has finished.
func (p *Pipeline) produce(ctx context.Context, source Source, pool *ants.Pool, results chan<- Outcome, abort <-chan struct{}) {
	var wg sync.WaitGroup

	chunk := make([]Job, 0, p.config.ChunkSize)
	submit := func() {
		if len(chunk) == 0 {
			return
		}
		jobs := chunk
		chunk = make([]Job, 0, p.config.ChunkSize)

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			for _, job := range jobs {
				out := ProcessMessage(ctx, job, p.extractor, p.config.MaxTextLength)
				select {
				case results <- out:
				case <-abort:
					return
				}
			}
		})
		if err != nil {
			// Pool released under us: the run was cancelled.
			wg.Done()
			p.logger.Debug("chunk submission rejected", "error", err)
		}
	}

	err := source.ForEach(ctx, func(job Job) bool {
		select {
		case <-abort:
			return false
		default:
		}
		chunk = append(chunk, job)
		if len(chunk) >= p.config.ChunkSize {
			submit()
		}
		return true
	})
	if err != nil {
		p.logger.Error("message source failed", "error", err)
	}
	submit()

	wg.Wait()
	close(results)
}

// consume handles one outcome in arrival order and returns the updated
// entity buffer.
func (p *Pipeline) consume(ctx context.Context, out *Outcome, reportsByPath map[string]*core.FileReport, buffer []*core.Entity) []*core.Entity {
	if out.Failed() {
		p.logger.Info("skipping message", "message_id", out.MessageID, "filepath", out.Filepath)
		p.logger.Debug("message processing failed",
			"filepath", out.Filepath, "message_id", out.MessageID, "error", out.Err)
		return buffer
	}

	fileReport := reportsByPath[out.Filepath]
	if fileReport == nil {
		p.logger.Info("unable to link message to a file",
			"message_id", out.MessageID, "filepath", out.Filepath)
	}

	message := &core.Message{
		Identifier:      out.MessageID,
		ProcessingStart: out.ProcessingStart,
		ProcessingEnd:   out.ProcessingEnd,
		FileReport:      fileReport,
	}
	p.session.AddMessage(message)
	p.batch.addMessage(out.Filepath, out.MessageID)

	// Attachments are staged immediately, not subject to the entity batching
	// delay.
	if len(out.Attachments) > 0 {
		attachments := make([]*core.Attachment, len(out.Attachments))
		for i, meta := range out.Attachments {
			attachments[i] = &core.Attachment{
				Name:       meta.Name,
				MimeType:   meta.MimeType,
				Size:       meta.Size,
				Message:    message,
				FileReport: fileReport,
			}
		}
		p.session.AddAttachments(attachments)
		p.batch.attachments += len(attachments)
	}

	for _, span := range out.Entities {
		buffer = append(buffer, &core.Entity{
			Text:       span.Text,
			Label:      span.Label,
			Filepath:   out.Filepath,
			Message:    message,
			FileReport: fileReport,
		})
	}

	if len(buffer) >= p.config.CommitBatchSize {
		p.session.AddEntities(buffer)
		p.batch.entities += len(buffer)
		buffer = nil

		if err := p.commit(ctx); err != nil {
			// Baseline policy: roll back and drop the batch, no requeue.
			p.logger.Error("commit failed, dropping batch", "error", err)
			p.session.Rollback()
			p.recordDropped(ctx, err)
		}
		p.batch.reset()
	}

	return buffer
}

// commit commits the session, retrying per the configured policy.
// A single attempt (the default) is the baseline behavior.
func (p *Pipeline) commit(ctx context.Context) error {
	if p.commitAttempts <= 1 {
		return p.session.Commit(ctx)
	}
	return RetryWithBackoff(ctx, func() error {
		return p.session.Commit(ctx)
	}, p.commitAttempts, p.commitDelay)
}

// recordDropped hands the current batch summary to the dead-letter recorder,
// if one is configured.
func (p *Pipeline) recordDropped(ctx context.Context, commitErr error) {
	if p.deadLetter == nil {
		return
	}

	dropped := DroppedBatch{
		Time:            time.Now().UTC(),
		Reason:          commitErr.Error(),
		Messages:        append([]DroppedMessage(nil), p.batch.messages...),
		AttachmentCount: p.batch.attachments,
		EntityCount:     p.batch.entities,
	}
	if err := p.deadLetter.Record(ctx, dropped); err != nil {
		p.logger.Error("failed to record dropped batch", "error", err)
	}
}

// loadFileReports fetches the file_report table for local lookup. A query
// failure degrades to an empty map: every message in the run gets a null
// link instead of aborting.
func (p *Pipeline) loadFileReports(ctx context.Context) map[string]*core.FileReport {
	reports, err := p.session.FileReports(ctx)
	if err != nil {
		p.logger.Warn("unable to load file reports, messages will not be linked", "error", err)
		return map[string]*core.FileReport{}
	}

	byPath := make(map[string]*core.FileReport, len(reports))
	for _, report := range reports {
		byPath[report.Path] = report
	}
	return byPath
}
