package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseJobState(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    JobState
		wantErr bool
	}{
		{name: "upper case", in: "RUNNING", want: JobStateRunning},
		{name: "title case", in: "Completed", want: JobStateCompleted},
		{name: "lower case with spaces", in: " failed ", want: JobStateFailed},
		{name: "submitted", in: "Submitted", want: JobStateSubmitted},
		{name: "unknown", in: "CANCELLED", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJobState(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Errorf("ParseJobState(%q) error = %v, want ErrInvalidState", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseJobState(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestJobState_IsTerminal(t *testing.T) {
	tests := map[JobState]bool{
		JobStateSubmitted: false,
		JobStateRunning:   false,
		JobStateFailed:    true,
		JobStateCompleted: true,
	}
	for state, want := range tests {
		if got := state.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", state, got, want)
		}
	}
}

func TestJob_Clone(t *testing.T) {
	job := &Job{
		ID:          uuid.New(),
		Path:        "/modules/ring.wasm",
		Argv:        []string{"-n", "10"},
		WorldSize:   2,
		State:       JobStateSubmitted,
		SubmittedAt: time.Now(),
	}

	clone := job.Clone()
	clone.Argv[0] = "-m"
	clone.State = JobStateRunning

	if job.Argv[0] != "-n" {
		t.Errorf("clone shares argv with original")
	}
	if job.State != JobStateSubmitted {
		t.Errorf("clone shares state with original")
	}
	if (*Job)(nil).Clone() != nil {
		t.Errorf("cloning nil should return nil")
	}
}

func TestCallbackURL(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000042")

	tests := []struct {
		base string
		want string
	}{
		{"http://10.0.0.1:8080", "http://10.0.0.1:8080/api/jobs/00000000-0000-0000-0000-000000000042/callback"},
		{"http://ctl:8080/", "http://ctl:8080/api/jobs/00000000-0000-0000-0000-000000000042/callback"},
	}
	for _, tt := range tests {
		if got := CallbackURL(tt.base, id); got != tt.want {
			t.Errorf("CallbackURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestAdmissionError(t *testing.T) {
	var err error = &AdmissionError{Requested: 3, Free: 1}

	var ae *AdmissionError
	if !errors.As(err, &ae) {
		t.Fatal("expected AdmissionError")
	}
	want := "cannot start job with world_size 3: only 1 slots free"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
