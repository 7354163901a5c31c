package rest

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
)

func TestSubmitJobRequestToJobSpec(t *testing.T) {
	t.Run("basic conversion", func(t *testing.T) {
		req := SubmitJobRequest{Path: "/m/ring.wasm", Argv: []string{"-n", "4"}, WorldSize: 3}
		spec := req.ToJobSpec()

		if spec.Path != "/m/ring.wasm" || spec.WorldSize != 3 {
			t.Errorf("Unexpected spec: %+v", spec)
		}
		if len(spec.Argv) != 2 || spec.Argv[0] != "-n" {
			t.Errorf("Expected argv to be carried over, got %v", spec.Argv)
		}
	})

	t.Run("nil argv becomes empty", func(t *testing.T) {
		req := SubmitJobRequest{Path: "/m/a.wasm", WorldSize: 1}
		if spec := req.ToJobSpec(); spec.Argv == nil {
			t.Error("Expected non-nil argv")
		}
	})
}

func TestToJobResponse(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job := &core.Job{
		ID:          uuid.New(),
		Path:        "/m/ring.wasm",
		WorldSize:   2,
		State:       core.JobStateRunning,
		Callback:    "http://ctl:8080/api/jobs/x/callback",
		SubmittedAt: now,
		UpdatedAt:   now.Add(time.Second),
	}

	resp := ToJobResponse(job)

	if resp.ID != job.ID.String() {
		t.Errorf("Expected ID %s, got %s", job.ID, resp.ID)
	}
	if resp.State != "RUNNING" {
		t.Errorf("Expected state RUNNING, got %s", resp.State)
	}
	if resp.Argv == nil {
		t.Error("Expected argv to serialize as an empty array")
	}
	if !resp.UpdatedAt.Equal(now.Add(time.Second)) {
		t.Errorf("Unexpected updated_at %v", resp.UpdatedAt)
	}
}

func TestToSlotsResponse(t *testing.T) {
	resp := ToSlotsResponse(core.SlotUsage{UniverseSize: 5, Free: 1, InUse: 3})
	if resp.UniverseSize != 5 || resp.FreeSlots != 1 || resp.InUse != 3 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}
