package audit

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const DefaultJobTimeout = 10 * time.Minute

// Processor runs one deep audit.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, job Job) error

func (f ProcessorFunc) Process(ctx context.Context, job Job) error { return f(ctx, job) }

// Pool runs jobs from a Queue on a fixed number of workers. A subject already
// being audited is not audited twice at once; duplicate deliveries are
// dropped.
type Pool struct {
	workers    int
	jobTimeout time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

type PoolOption func(*Pool)

func WithJobTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers:    workers,
		jobTimeout: DefaultJobTimeout,
		logger:     slog.Default(),
		inflight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is done or the queue's job channel closes, then waits
// for running jobs to finish. Jobs run under their own context so a
// cancelled request or a shutdown signal does not abort an audit midway.
func (p *Pool) Run(ctx context.Context, q Queue, proc Processor) {
	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-q.Jobs():
					if !ok {
						return
					}
					p.handle(idx, job, proc)
				}
			}
		}(i)
	}
	wg.Wait()
}

func (p *Pool) handle(worker int, job Job, proc Processor) {
	key := job.Key()
	if !p.claim(key) {
		p.logger.Info("audit already running, dropping duplicate", "job_id", job.ID, "subject_id", key)
		return
	}
	defer p.release(key)

	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	start := time.Now()
	if err := p.safeProcess(ctx, job, proc); err != nil {
		p.logger.Error("deep audit failed",
			"worker", worker, "job_id", job.ID, "subject_id", key, "error", err)
		return
	}
	p.logger.Info("deep audit finished",
		"worker", worker, "job_id", job.ID, "subject_id", key, "duration", time.Since(start))
}

func (p *Pool) safeProcess(ctx context.Context, job Job, proc Processor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("deep audit panicked", "job_id", job.ID, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return proc.Process(ctx, job)
}

func (p *Pool) claim(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[key]; busy {
		return false
	}
	p.inflight[key] = struct{}{}
	return true
}

func (p *Pool) release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, key)
}

// InFlight reports how many subjects are being audited right now.
func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}
