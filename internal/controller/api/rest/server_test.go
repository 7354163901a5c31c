package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/controller/service"
	"github.com/nemanja-m/wasimpi/internal/controller/storage"
)

func newTestHandler(t *testing.T, universe int) http.Handler {
	t.Helper()
	svc, err := service.NewJobService(
		storage.NewInMemoryJobStore(),
		core.NewJobQueue(),
		service.JobServiceConfig{UniverseSize: universe, CallbackBase: "http://ctl:8080"},
		newMockLogger(),
	)
	if err != nil {
		t.Fatalf("NewJobService() error = %v", err)
	}
	return NewHandler(svc, newMockLogger())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func submit(t *testing.T, h http.Handler, worldSize int) JobResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/jobs", SubmitJobRequest{Path: "/m/ring.wasm", Argv: []string{"4"}, WorldSize: worldSize})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var job JobResponse
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return job
}

func slots(t *testing.T, h http.Handler) SlotsResponse {
	t.Helper()
	w := do(t, h, http.MethodGet, "/api/slots", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp SlotsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func report(t *testing.T, h http.Handler, id, state string) int {
	t.Helper()
	return do(t, h, http.MethodPut, "/api/jobs/"+id+"/callback", StateReport{State: state}).Code
}

func TestSubmitJob(t *testing.T) {
	h := newTestHandler(t, 5)

	w := do(t, h, http.MethodPost, "/api/jobs", SubmitJobRequest{Path: "/m/ring.wasm", WorldSize: 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}

	var job JobResponse
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("Expected a UUID job id, got %q", job.ID)
	}
	if job.State != "SUBMITTED" {
		t.Errorf("Expected state SUBMITTED, got %s", job.State)
	}
	if job.Callback != "http://ctl:8080/api/jobs/"+job.ID+"/callback" {
		t.Errorf("Unexpected callback %s", job.Callback)
	}
	if job.Argv == nil {
		t.Error("Expected argv to encode as an empty list")
	}
	if loc := w.Header().Get("Location"); loc != "/api/jobs/"+job.ID {
		t.Errorf("Unexpected Location header %q", loc)
	}
}

func TestSubmitJobValidation(t *testing.T) {
	h := newTestHandler(t, 5)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"missing path", SubmitJobRequest{WorldSize: 1}},
		{"zero world size", SubmitJobRequest{Path: "/m.wasm"}},
		{"negative world size", SubmitJobRequest{Path: "/m.wasm", WorldSize: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/jobs", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestSubmitJob_InsufficientSlots(t *testing.T) {
	h := newTestHandler(t, 3)

	w := do(t, h, http.MethodPost, "/api/jobs", SubmitJobRequest{Path: "/m.wasm", WorldSize: 3})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Requested == nil || *resp.Requested != 3 || resp.Free == nil || *resp.Free != 2 {
		t.Errorf("Expected requested=3 free=2, got %+v", resp)
	}
	if !strings.Contains(resp.Message, "only 2 slots free") {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}

func TestUniverseFiveScenario(t *testing.T) {
	h := newTestHandler(t, 5)
	if got := slots(t, h); got.FreeSlots != 4 || got.UniverseSize != 5 {
		t.Fatalf("Unexpected initial slots %+v", got)
	}

	jobA := submit(t, h, 3)
	if got := slots(t, h).FreeSlots; got != 1 {
		t.Fatalf("Expected 1 free slot, got %d", got)
	}

	w := do(t, h, http.MethodPost, "/api/jobs", SubmitJobRequest{Path: "/m.wasm", WorldSize: 2})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected job B to be rejected, got %d", w.Code)
	}

	if code := report(t, h, jobA.ID, "Running"); code != http.StatusNoContent {
		t.Fatalf("Expected 204 for RUNNING, got %d", code)
	}
	if got := slots(t, h).FreeSlots; got != 1 {
		t.Fatalf("Expected 1 free slot, got %d", got)
	}

	if code := report(t, h, jobA.ID, "COMPLETED"); code != http.StatusNoContent {
		t.Fatalf("Expected 204 for COMPLETED, got %d", code)
	}
	if got := slots(t, h); got.FreeSlots != 4 || got.InUse != 0 {
		t.Fatalf("Unexpected slots %+v", got)
	}

	submit(t, h, 2)
	if got := slots(t, h).FreeSlots; got != 2 {
		t.Fatalf("Expected 2 free slots, got %d", got)
	}
}

func TestReportState(t *testing.T) {
	h := newTestHandler(t, 5)
	job := submit(t, h, 1)

	tests := []struct {
		name string
		id   string
		body any
		want int
	}{
		{"unknown job", uuid.NewString(), StateReport{State: "RUNNING"}, http.StatusNotFound},
		{"malformed id", "not-a-uuid", StateReport{State: "RUNNING"}, http.StatusNotFound},
		{"invalid state", job.ID, StateReport{State: "PAUSED"}, http.StatusBadRequest},
		{"malformed body", job.ID, "{", http.StatusBadRequest},
		{"failed", job.ID, StateReport{State: "FAILED"}, http.StatusNoContent},
		{"repeat failed", job.ID, StateReport{State: "failed"}, http.StatusNoContent},
		{"after final", job.ID, StateReport{State: "RUNNING"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, "/api/jobs/"+tt.id+"/callback", tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetJob(t *testing.T) {
	h := newTestHandler(t, 5)
	job := submit(t, h, 2)

	w := do(t, h, http.MethodGet, "/api/jobs/"+job.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got JobResponse
	json.NewDecoder(w.Body).Decode(&got)
	if got.ID != job.ID || got.WorldSize != 2 || got.Path != "/m/ring.wasm" {
		t.Errorf("Unexpected job %+v", got)
	}

	if w := do(t, h, http.MethodGet, "/api/jobs/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListJobs(t *testing.T) {
	h := newTestHandler(t, 10)
	var ids []string
	for range 5 {
		ids = append(ids, submit(t, h, 1).ID)
	}
	report(t, h, ids[0], "RUNNING")

	w := do(t, h, http.MethodGet, "/api/jobs", nil)
	var all ListJobsResponse
	json.NewDecoder(w.Body).Decode(&all)
	if all.Total != 5 || len(all.Jobs) != 5 {
		t.Fatalf("Expected 5 jobs, got total=%d len=%d", all.Total, len(all.Jobs))
	}
	if all.NextOffset != nil {
		t.Error("Expected no next offset without a limit")
	}

	w = do(t, h, http.MethodGet, "/api/jobs?limit=2&offset=1", nil)
	var page ListJobsResponse
	json.NewDecoder(w.Body).Decode(&page)
	if len(page.Jobs) != 2 || page.Jobs[0].ID != ids[1] {
		t.Errorf("Unexpected page %+v", page.Jobs)
	}
	if page.NextOffset == nil || *page.NextOffset != 3 {
		t.Errorf("Expected next offset 3, got %v", page.NextOffset)
	}

	w = do(t, h, http.MethodGet, "/api/jobs?state=running", nil)
	var running ListJobsResponse
	json.NewDecoder(w.Body).Decode(&running)
	if running.Total != 1 || running.Jobs[0].ID != ids[0] {
		t.Errorf("Unexpected filtered result %+v", running)
	}

	if w := do(t, h, http.MethodGet, "/api/jobs?state=bogus", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad filter, got %d", w.Code)
	}
}

func TestListJobs_EmptyIsArray(t *testing.T) {
	h := newTestHandler(t, 2)
	w := do(t, h, http.MethodGet, "/api/jobs", nil)
	if !strings.Contains(w.Body.String(), `"jobs":[]`) {
		t.Errorf("Expected an empty jobs array, got %s", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, 2)
	if w := do(t, h, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestNewServer_Defaults(t *testing.T) {
	svc, _ := service.NewJobService(
		storage.NewInMemoryJobStore(), core.NewJobQueue(),
		service.JobServiceConfig{UniverseSize: 2, CallbackBase: "http://x"},
		newMockLogger(),
	)
	server := NewServer(ServerConfig{Addr: ":0"}, svc, newMockLogger())
	if server.ReadTimeout != defaultReadTimeout || server.IdleTimeout != defaultIdleTimeout {
		t.Errorf("Expected default timeouts, got %v/%v", server.ReadTimeout, server.IdleTimeout)
	}
}
