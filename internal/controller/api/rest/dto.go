package rest

import (
	"time"
)

type SubmitJobRequest struct {
	Path      string   `json:"path"`
	Argv      []string `json:"argv"`
	WorldSize int      `json:"world_size"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Argv        []string  `json:"argv"`
	WorldSize   int       `json:"world_size"`
	State       string    `json:"state"`
	Callback    string    `json:"callback"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListJobsResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Total      int           `json:"total"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
	NextOffset *int          `json:"next_offset,omitempty"`
}

type StateReport struct {
	State string `json:"state"`
}

type SlotsResponse struct {
	UniverseSize int `json:"universe_size"`
	FreeSlots    int `json:"free_slots"`
	InUse        int `json:"in_use"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`

	// Set on admission rejections.
	Requested *int `json:"requested,omitempty"`
	Free      *int `json:"free,omitempty"`
}
