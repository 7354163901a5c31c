package rest

import (
	"github.com/nemanja-m/wasimpi/internal/controller/core"
)

func (req *SubmitJobRequest) ToJobSpec() core.JobSpec {
	argv := req.Argv
	if argv == nil {
		argv = []string{}
	}
	return core.JobSpec{
		Path:      req.Path,
		Argv:      argv,
		WorldSize: req.WorldSize,
	}
}

func ToJobResponse(job *core.Job) JobResponse {
	argv := job.Argv
	if argv == nil {
		argv = []string{}
	}
	return JobResponse{
		ID:          job.ID.String(),
		Path:        job.Path,
		Argv:        argv,
		WorldSize:   job.WorldSize,
		State:       string(job.State),
		Callback:    job.Callback,
		SubmittedAt: job.SubmittedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func ToSlotsResponse(usage core.SlotUsage) SlotsResponse {
	return SlotsResponse{
		UniverseSize: usage.UniverseSize,
		FreeSlots:    usage.Free,
		InUse:        usage.InUse,
	}
}
