package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobState string

const (
	JobStateSubmitted JobState = "SUBMITTED"
	JobStateRunning   JobState = "RUNNING"
	JobStateFailed    JobState = "FAILED"
	JobStateCompleted JobState = "COMPLETED"
)

// IsTerminal reports whether no further transition is accepted.
func (s JobState) IsTerminal() bool {
	return s == JobStateFailed || s == JobStateCompleted
}

func (s JobState) Valid() bool {
	switch s {
	case JobStateSubmitted, JobStateRunning, JobStateFailed, JobStateCompleted:
		return true
	}
	return false
}

// ParseJobState accepts any letter case, so "Running" and "RUNNING" are the
// same state.
func ParseJobState(s string) (JobState, error) {
	state := JobState(strings.ToUpper(strings.TrimSpace(s)))
	if !state.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
	return state, nil
}

type Job struct {
	ID        uuid.UUID
	Path      string
	Argv      []string
	WorldSize int
	State     JobState
	Callback  string

	SubmittedAt time.Time
	UpdatedAt   time.Time
}

func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Argv = slices.Clone(j.Argv)
	return &c
}

// JobSpec is what a client submits.
type JobSpec struct {
	Path      string
	Argv      []string
	WorldSize int
}

type JobFilter struct {
	State  *JobState
	Limit  int
	Offset int
}

type SlotUsage struct {
	UniverseSize int
	Free         int
	InUse        int
}

// CallbackURL is the address a job's processes report state changes to.
func CallbackURL(base string, id uuid.UUID) string {
	return strings.TrimRight(base, "/") + "/api/jobs/" + id.String() + "/callback"
}
