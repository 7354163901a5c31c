package core

import (
	"context"

	"github.com/google/uuid"
)

// JobService admits jobs against the slot pool and tracks their lifecycle.
type JobService interface {
	SubmitJob(spec JobSpec) (*Job, error)
	GetJob(id uuid.UUID) (*Job, error)
	GetJobs(filter JobFilter) ([]*Job, int, error)
	UpdateJobState(id uuid.UUID, state JobState) (*Job, error)
	Slots() SlotUsage
}

type LaunchRequest struct {
	Command string
	Args    []string
	Procs   int
}

// ProcessLauncher starts a new process group for a job.
type ProcessLauncher interface {
	Launch(ctx context.Context, req LaunchRequest) error
}
