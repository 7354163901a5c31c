package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

type JobServiceConfig struct {
	// UniverseSize is the total number of ranks in the cluster, the
	// controller's own rank included.
	UniverseSize    int
	CallbackBase    string
	ModuleAllowlist []string
}

type jobService struct {
	jobStore core.JobStore
	queue    core.JobQueue
	cfg      JobServiceConfig

	// mu guards the job table and freeSlots together.
	mu        sync.RWMutex
	freeSlots int

	logger logging.Logger
}

func NewJobService(
	jobStore core.JobStore,
	queue core.JobQueue,
	cfg JobServiceConfig,
	logger logging.Logger,
) (core.JobService, error) {
	if cfg.UniverseSize < 1 {
		return nil, fmt.Errorf("universe size must be at least 1, got %d", cfg.UniverseSize)
	}
	if cfg.CallbackBase == "" {
		return nil, errors.New("callback base address is required")
	}
	if err := core.ValidatePatterns(cfg.ModuleAllowlist); err != nil {
		return nil, err
	}
	return &jobService{
		jobStore:  jobStore,
		queue:     queue,
		cfg:       cfg,
		freeSlots: cfg.UniverseSize - 1,
		logger:    logger,
	}, nil
}

func (s *jobService) SubmitJob(spec core.JobSpec) (*core.Job, error) {
	if spec.WorldSize <= 0 {
		return nil, fmt.Errorf("%w: world_size must be positive, got %d", core.ErrInvalidJob, spec.WorldSize)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return nil, fmt.Errorf("%w: path is required", core.ErrInvalidJob)
	}
	allowed, err := core.ModuleAllowed(spec.Path, s.cfg.ModuleAllowlist)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", core.ErrModuleNotAllowed, spec.Path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.WorldSize > s.freeSlots {
		s.logger.Warn("Job rejected", "world_size", spec.WorldSize, "free_slots", s.freeSlots)
		return nil, &core.AdmissionError{Requested: spec.WorldSize, Free: s.freeSlots}
	}

	now := time.Now().UTC()
	id := uuid.New()
	job := &core.Job{
		ID:          id,
		Path:        spec.Path,
		Argv:        append([]string{}, spec.Argv...),
		WorldSize:   spec.WorldSize,
		State:       core.JobStateSubmitted,
		Callback:    core.CallbackURL(s.cfg.CallbackBase, id),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.jobStore.SaveJob(job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	s.freeSlots -= job.WorldSize

	if err := s.queue.Push(job.Clone()); err != nil {
		// The job will never be dispatched, so it must not hold slots.
		job.State = core.JobStateFailed
		job.UpdatedAt = time.Now().UTC()
		if uerr := s.jobStore.UpdateJob(job); uerr != nil {
			s.logger.Error("Failed to mark undispatched job", "job_id", id.String(), "error", uerr)
		}
		s.freeSlots += job.WorldSize
		return nil, fmt.Errorf("enqueue job %s: %w", id, err)
	}

	s.logger.Info(
		"Job submitted",
		"job_id", id.String(),
		"path", job.Path,
		"world_size", job.WorldSize,
		"free_slots", s.freeSlots,
	)
	return job, nil
}

func (s *jobService) GetJob(id uuid.UUID) (*core.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobStore.GetJobByID(id)
}

func (s *jobService) GetJobs(filter core.JobFilter) ([]*core.Job, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobStore.GetJobs(filter)
}

// UpdateJobState applies a reported state. Repeating the current state is a
// successful no-op. Any change away from a terminal state is refused.
// Moving into a terminal state returns the job's slots to the pool.
func (s *jobService) UpdateJobState(id uuid.UUID, state core.JobState) (*core.Job, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidState, state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.jobStore.GetJobByID(id)
	if err != nil {
		return nil, err
	}
	if job.State == state {
		return job, nil
	}
	if job.State.IsTerminal() {
		return nil, fmt.Errorf("%w: job %s is %s", core.ErrFinalState, id, job.State)
	}

	previous := job.State
	job.State = state
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobStore.UpdateJob(job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	if state.IsTerminal() {
		s.freeSlots += job.WorldSize
	}

	s.logger.Info(
		"Job state updated",
		"job_id", id.String(),
		"from", string(previous),
		"to", string(state),
		"free_slots", s.freeSlots,
	)
	return job, nil
}

func (s *jobService) Slots() core.SlotUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := s.cfg.UniverseSize - 1
	return core.SlotUsage{
		UniverseSize: s.cfg.UniverseSize,
		Free:         s.freeSlots,
		InUse:        total - s.freeSlots,
	}
}
