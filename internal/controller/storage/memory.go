package storage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
)

type InMemoryJobStore struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*core.Job
	order []uuid.UUID // insertion order
}

func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[uuid.UUID]*core.Job),
	}
}

func (s *InMemoryJobStore) SaveJob(job *core.Job) error {
	if job == nil {
		return fmt.Errorf("%w: nil job", core.ErrInvalidJob)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; !exists {
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *InMemoryJobStore) UpdateJob(job *core.Job) error {
	if job == nil {
		return fmt.Errorf("%w: nil job", core.ErrInvalidJob)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; !exists {
		return core.ErrJobNotFound
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *InMemoryJobStore) GetJobByID(id uuid.UUID) (*core.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[id]
	if !exists {
		return nil, core.ErrJobNotFound
	}
	return job.Clone(), nil
}

// GetJobs returns the page selected by filter in the order jobs were first
// saved, along with the number of jobs matching before pagination. A zero
// limit returns every match.
func (s *InMemoryJobStore) GetJobs(filter core.JobFilter) ([]*core.Job, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*core.Job, 0, len(s.order))
	for _, id := range s.order {
		job := s.jobs[id]
		if filter.State != nil && job.State != *filter.State {
			continue
		}
		matched = append(matched, job)
	}

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	page := make([]*core.Job, 0, end-start)
	for _, job := range matched[start:end] {
		page = append(page, job.Clone())
	}
	return page, total, nil
}
