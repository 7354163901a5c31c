package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/controller/storage"
)

// mockLogger is a no-op logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

func newTestService(t *testing.T, universe int, allowlist ...string) (core.JobService, core.JobQueue) {
	t.Helper()
	queue := core.NewJobQueue()
	svc, err := NewJobService(
		storage.NewInMemoryJobStore(),
		queue,
		JobServiceConfig{
			UniverseSize:    universe,
			CallbackBase:    "http://10.0.0.1:8080",
			ModuleAllowlist: allowlist,
		},
		&mockLogger{},
	)
	if err != nil {
		t.Fatalf("NewJobService() error = %v", err)
	}
	return svc, queue
}

func spec(worldSize int) core.JobSpec {
	return core.JobSpec{Path: "/modules/ring.wasm", Argv: []string{"10"}, WorldSize: worldSize}
}

func expectFree(t *testing.T, svc core.JobService, want int) {
	t.Helper()
	if got := svc.Slots().Free; got != want {
		t.Fatalf("free slots = %d, want %d", got, want)
	}
}

func TestNewJobService_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  JobServiceConfig
	}{
		{"zero universe", JobServiceConfig{UniverseSize: 0, CallbackBase: "http://x"}},
		{"missing callback base", JobServiceConfig{UniverseSize: 2}},
		{"bad allow-list", JobServiceConfig{UniverseSize: 2, CallbackBase: "http://x", ModuleAllowlist: []string{"[a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJobService(storage.NewInMemoryJobStore(), core.NewJobQueue(), tt.cfg, &mockLogger{})
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJobService_UniverseFiveScenario(t *testing.T) {
	svc, _ := newTestService(t, 5)
	expectFree(t, svc, 4)

	jobA, err := svc.SubmitJob(spec(3))
	if err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if jobA.State != core.JobStateSubmitted {
		t.Errorf("job A state = %s, want SUBMITTED", jobA.State)
	}
	expectFree(t, svc, 1)

	_, err = svc.SubmitJob(spec(2))
	var admission *core.AdmissionError
	if !errors.As(err, &admission) {
		t.Fatalf("submit B: expected AdmissionError, got %v", err)
	}
	if admission.Requested != 2 || admission.Free != 1 {
		t.Errorf("admission error = %+v", admission)
	}
	expectFree(t, svc, 1)
	if _, total, _ := svc.GetJobs(core.JobFilter{}); total != 1 {
		t.Errorf("registry size = %d, want 1", total)
	}

	if _, err := svc.UpdateJobState(jobA.ID, core.JobStateRunning); err != nil {
		t.Fatalf("report RUNNING: %v", err)
	}
	expectFree(t, svc, 1)

	if _, err := svc.UpdateJobState(jobA.ID, core.JobStateCompleted); err != nil {
		t.Fatalf("report COMPLETED: %v", err)
	}
	expectFree(t, svc, 4)

	if _, err := svc.SubmitJob(spec(2)); err != nil {
		t.Fatalf("resubmit B: %v", err)
	}
	expectFree(t, svc, 2)

	usage := svc.Slots()
	if usage.UniverseSize != 5 || usage.InUse != 2 {
		t.Errorf("slots = %+v", usage)
	}
}

func TestJobService_SubmitAssignsIdentity(t *testing.T) {
	svc, queue := newTestService(t, 8)

	a, _ := svc.SubmitJob(spec(1))
	b, _ := svc.SubmitJob(spec(1))
	if a.ID == b.ID {
		t.Fatal("jobs share an id")
	}
	if a.Callback != "http://10.0.0.1:8080/api/jobs/"+a.ID.String()+"/callback" {
		t.Errorf("callback = %s", a.Callback)
	}
	if a.SubmittedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
	if queue.Len() != 2 {
		t.Errorf("queue length = %d, want 2", queue.Len())
	}
}

func TestJobService_SubmitValidation(t *testing.T) {
	svc, queue := newTestService(t, 4, "/opt/modules/**/*.wasm")

	tests := []struct {
		name string
		spec core.JobSpec
		want error
	}{
		{"zero world size", core.JobSpec{Path: "/opt/modules/a.wasm", WorldSize: 0}, core.ErrInvalidJob},
		{"negative world size", core.JobSpec{Path: "/opt/modules/a.wasm", WorldSize: -1}, core.ErrInvalidJob},
		{"empty path", core.JobSpec{Path: "  ", WorldSize: 1}, core.ErrInvalidJob},
		{"outside allow-list", core.JobSpec{Path: "/tmp/evil.wasm", WorldSize: 1}, core.ErrModuleNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitJob(tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("SubmitJob() error = %v, want %v", err, tt.want)
			}
		})
	}
	expectFree(t, svc, 3)
	if queue.Len() != 0 {
		t.Errorf("rejected jobs were enqueued")
	}

	if _, err := svc.SubmitJob(core.JobSpec{Path: "/opt/modules/x/a.wasm", WorldSize: 1}); err != nil {
		t.Errorf("allowed module rejected: %v", err)
	}
}

func TestJobService_AdmissionMessage(t *testing.T) {
	svc, _ := newTestService(t, 3)
	_, err := svc.SubmitJob(spec(5))
	if err == nil || !strings.Contains(err.Error(), "world_size 5") || !strings.Contains(err.Error(), "only 2 slots free") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestJobService_UpdateJobState(t *testing.T) {
	t.Run("unknown job", func(t *testing.T) {
		svc, _ := newTestService(t, 4)
		if _, err := svc.UpdateJobState(uuid.New(), core.JobStateRunning); !errors.Is(err, core.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("invalid state", func(t *testing.T) {
		svc, _ := newTestService(t, 4)
		job, _ := svc.SubmitJob(spec(1))
		if _, err := svc.UpdateJobState(job.ID, core.JobState("PAUSED")); !errors.Is(err, core.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		svc, _ := newTestService(t, 4)
		job, _ := svc.SubmitJob(spec(2))
		for range 2 {
			if _, err := svc.UpdateJobState(job.ID, core.JobStateFailed); err != nil {
				t.Fatalf("UpdateJobState() error = %v", err)
			}
		}
		expectFree(t, svc, 3)
	})

	t.Run("terminal is final", func(t *testing.T) {
		svc, _ := newTestService(t, 4)
		job, _ := svc.SubmitJob(spec(2))
		svc.UpdateJobState(job.ID, core.JobStateCompleted)

		for _, next := range []core.JobState{core.JobStateRunning, core.JobStateSubmitted, core.JobStateFailed} {
			if _, err := svc.UpdateJobState(job.ID, next); !errors.Is(err, core.ErrFinalState) {
				t.Errorf("%s after COMPLETED: expected ErrFinalState, got %v", next, err)
			}
		}
		expectFree(t, svc, 3)

		got, _ := svc.GetJob(job.ID)
		if got.State != core.JobStateCompleted {
			t.Errorf("state = %s, want COMPLETED", got.State)
		}
	})

	t.Run("out of order reports are accepted", func(t *testing.T) {
		svc, _ := newTestService(t, 4)
		job, _ := svc.SubmitJob(spec(1))
		if _, err := svc.UpdateJobState(job.ID, core.JobStateRunning); err != nil {
			t.Fatal(err)
		}
		updated, err := svc.UpdateJobState(job.ID, core.JobStateSubmitted)
		if err != nil {
			t.Fatalf("RUNNING -> SUBMITTED: %v", err)
		}
		if updated.State != core.JobStateSubmitted {
			t.Errorf("state = %s", updated.State)
		}
		expectFree(t, svc, 2)
	})
}

func TestJobService_SubmitOnClosedQueue(t *testing.T) {
	svc, queue := newTestService(t, 4)
	queue.Close()

	if _, err := svc.SubmitJob(spec(2)); !errors.Is(err, core.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	expectFree(t, svc, 3)

	failed := core.JobStateFailed
	jobs, _, _ := svc.GetJobs(core.JobFilter{State: &failed})
	if len(jobs) != 1 {
		t.Errorf("expected the undispatched job to be FAILED, got %d failed jobs", len(jobs))
	}
}

// checkInvariant verifies free + sum(world_size of live jobs) == universe - 1.
func checkInvariant(t *testing.T, svc core.JobService, universe int) {
	t.Helper()
	jobs, _, err := svc.GetJobs(core.JobFilter{})
	if err != nil {
		t.Fatal(err)
	}
	held := 0
	for _, job := range jobs {
		if !job.State.IsTerminal() {
			held += job.WorldSize
		}
	}
	if free := svc.Slots().Free; free+held != universe-1 {
		t.Errorf("free (%d) + held (%d) != %d", free, held, universe-1)
	}
}

func TestJobService_ConcurrentInvariant(t *testing.T) {
	const universe = 17
	svc, _ := newTestService(t, universe)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				job, err := svc.SubmitJob(spec(1 + (w+i)%4))
				if err != nil {
					var admission *core.AdmissionError
					if !errors.As(err, &admission) {
						t.Errorf("unexpected submit error: %v", err)
					}
					continue
				}
				svc.UpdateJobState(job.ID, core.JobStateRunning)
				if i%3 != 0 {
					svc.UpdateJobState(job.ID, core.JobStateCompleted)
				}
			}
		}()
	}
	wg.Wait()

	checkInvariant(t, svc, universe)
	if free := svc.Slots().Free; free < 0 {
		t.Errorf("free slots went negative: %d", free)
	}
}
