package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

type API struct {
	jobService core.JobService
	logger     logging.Logger
}

func NewAPI(jobService core.JobService, logger logging.Logger) *API {
	return &API{
		jobService: jobService,
		logger:     logger,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/jobs", a.submitJob)
	mux.HandleFunc("GET /api/jobs", a.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", a.getJob)
	mux.HandleFunc("PUT /api/jobs/{id}/callback", a.reportState)
	mux.HandleFunc("GET /api/slots", a.getSlots)
	mux.HandleFunc("GET /healthz", a.healthz)
}

// submitJob handles POST /api/jobs
func (a *API) submitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	job, err := a.jobService.SubmitJob(req.ToJobSpec())
	if err != nil {
		a.respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/jobs/"+job.ID.String())
	respondJSON(w, http.StatusCreated, ToJobResponse(job))
}

// getJob handles GET /api/jobs/{id}
func (a *API) getJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	job, err := a.jobService.GetJob(id)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ToJobResponse(job))
}

// listJobs handles GET /api/jobs with an optional state filter and
// pagination. Without a limit every job is returned.
func (a *API) listJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter core.JobFilter
	if s := query.Get("state"); s != "" {
		state, err := core.ParseJobState(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid state filter", err.Error())
			return
		}
		filter.State = &state
	}
	if s := query.Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if s := query.Get("offset"); s != "" {
		if o, err := strconv.Atoi(s); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	jobs, total, err := a.jobService.GetJobs(filter)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}

	resp := ListJobsResponse{
		Jobs:   make([]JobResponse, 0, len(jobs)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, ToJobResponse(job))
	}
	if end := filter.Offset + len(jobs); filter.Limit > 0 && end < total {
		resp.NextOffset = &end
	}
	respondJSON(w, http.StatusOK, resp)
}

// reportState handles PUT /api/jobs/{id}/callback, the address spawned
// hosts report lifecycle changes to.
func (a *API) reportState(w http.ResponseWriter, r *http.Request) {
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	var report StateReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	state, err := core.ParseJobState(report.State)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid state", err.Error())
		return
	}

	if _, err := a.jobService.UpdateJobState(id, state); err != nil {
		a.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getSlots handles GET /api/slots
func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ToSlotsResponse(a.jobService.Slots()))
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		// An id that cannot exist is reported the same way as an unknown one.
		respondError(w, http.StatusNotFound, "job not found", raw)
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) respondServiceError(w http.ResponseWriter, err error) {
	var admission *core.AdmissionError
	switch {
	case errors.As(err, &admission):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "insufficient slots",
			Message:   err.Error(),
			Code:      http.StatusBadRequest,
			Requested: &admission.Requested,
			Free:      &admission.Free,
		})
	case errors.Is(err, core.ErrJobNotFound):
		respondError(w, http.StatusNotFound, "job not found", "")
	case errors.Is(err, core.ErrFinalState):
		respondError(w, http.StatusBadRequest, "job state is final", err.Error())
	case errors.Is(err, core.ErrInvalidState),
		errors.Is(err, core.ErrInvalidJob),
		errors.Is(err, core.ErrModuleNotAllowed):
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
	default:
		a.logger.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, error string, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
		Code:    statusCode,
	})
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

func NewHandler(jobService core.JobService, logger logging.Logger) http.Handler {
	api := NewAPI(jobService, logger)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	return ChainMiddleware(
		mux,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		BodyLimitMiddleware(maxBodyBytes),
	)
}

func NewServer(cfg ServerConfig, jobService core.JobService, logger logging.Logger) *http.Server {
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(jobService, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	if server.ReadTimeout <= 0 {
		server.ReadTimeout = defaultReadTimeout
	}
	if server.WriteTimeout <= 0 {
		server.WriteTimeout = defaultWriteTimeout
	}
	if server.IdleTimeout <= 0 {
		server.IdleTimeout = defaultIdleTimeout
	}
	return server
}
