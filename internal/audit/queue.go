package audit

import (
	"context"
	"errors"
	"sync"

	"dossier/internal/platform/metrics"
)

var (
	ErrQueueFull   = errors.New("audit queue full")
	ErrQueueClosed = errors.New("audit queue closed")
)

// Queue hands jobs to the worker pool. Jobs is closed once the queue is
// closed and drained.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Jobs() <-chan Job
	Close() error
}

// ChannelQueue is a bounded in-process queue. Enqueue never blocks.
type ChannelQueue struct {
	mu      sync.RWMutex
	ch      chan Job
	closed  bool
	metrics *metrics.Metrics
}

func NewChannelQueue(size int, m *metrics.Metrics) *ChannelQueue {
	if size < 1 {
		size = 1
	}
	return &ChannelQueue{ch: make(chan Job, size), metrics: m}
}

func (q *ChannelQueue) Enqueue(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.metrics.SetQueueDepth(len(q.ch))
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) Jobs() <-chan Job {
	return q.ch
}

func (q *ChannelQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}

// Len is the number of jobs waiting.
func (q *ChannelQueue) Len() int {
	return len(q.ch)
}
