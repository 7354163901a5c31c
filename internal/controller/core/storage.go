package core

import "github.com/google/uuid"

// JobStore keeps job records. Implementations store and return copies.
type JobStore interface {
	SaveJob(job *Job) error
	UpdateJob(job *Job) error
	GetJobByID(id uuid.UUID) (*Job, error)
	GetJobs(filter JobFilter) ([]*Job, int, error)
}
