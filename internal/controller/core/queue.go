package core

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrQueueEmpty is returned by TryPop on an empty queue.
	ErrQueueEmpty = errors.New("job queue is empty")
	// ErrQueueClosed is returned once Close has been called.
	ErrQueueClosed = errors.New("job queue is closed")
)

// JobQueue is a thread-safe FIFO of admitted jobs awaiting dispatch.
type JobQueue interface {
	Push(job *Job) error
	// Pop blocks until a job is available, the context ends or the queue
	// is closed and drained.
	Pop(ctx context.Context) (*Job, error)
	TryPop() (*Job, error)
	Len() int
	Close()
}

type fifoJobQueue struct {
	mu     sync.Mutex
	items  []*Job
	notify chan struct{}
	done   chan struct{}
	closed bool
}

func NewJobQueue() JobQueue {
	return &fifoJobQueue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *fifoJobQueue) Push(job *Job) error {
	if job == nil {
		return errors.New("cannot push nil job")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, job)
	q.signal()
	return nil
}

// signal wakes one waiter. Callers hold q.mu.
func (q *fifoJobQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *fifoJobQueue) TryPop() (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		return nil, ErrQueueEmpty
	}
	job := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.signal()
	}
	return job, nil
}

func (q *fifoJobQueue) Pop(ctx context.Context) (*Job, error) {
	for {
		job, err := q.TryPop()
		if !errors.Is(err, ErrQueueEmpty) {
			return job, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		case <-q.done:
		}
	}
}

func (q *fifoJobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *fifoJobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
}
