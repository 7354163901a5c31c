package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
	pb "github.com/nemanja-m/wasimpi/internal/shared/proto"
)

// ServiceName is the name the control service reports health under.
var ServiceName = pb.JobControl_ServiceDesc.ServiceName

// JobControlService serves the control API from a JobService.
type JobControlService struct {
	pb.UnimplementedJobControlServer

	jobService core.JobService
	logger     logging.Logger
}

func NewJobControlService(jobService core.JobService, logger logging.Logger) *JobControlService {
	return &JobControlService{
		jobService: jobService,
		logger:     logger,
	}
}

func (s *JobControlService) ListJobs(ctx context.Context, req *pb.ListJobsRequest) (*pb.ListJobsResponse, error) {
	filter := core.JobFilter{Limit: int(req.GetLimit()), Offset: int(req.GetOffset())}
	if req.GetState() != pb.JobState_JOB_STATE_UNSPECIFIED {
		state, err := StateFromProto(req.GetState())
		if err != nil {
			return nil, s.toStatus(err)
		}
		filter.State = &state
	}

	jobs, total, err := s.jobService.GetJobs(filter)
	if err != nil {
		return nil, s.toStatus(err)
	}
	resp := &pb.ListJobsResponse{Jobs: make([]*pb.Job, 0, len(jobs)), Total: int32(total)}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, toProtoJob(job))
	}
	return resp, nil
}

func (s *JobControlService) GetJob(ctx context.Context, req *pb.GetJobRequest) (*pb.Job, error) {
	id, err := parseJobID(req.GetId())
	if err != nil {
		return nil, err
	}
	job, err := s.jobService.GetJob(id)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toProtoJob(job), nil
}

func (s *JobControlService) SubmitJob(ctx context.Context, req *pb.SubmitJobRequest) (*pb.Job, error) {
	job, err := s.jobService.SubmitJob(core.JobSpec{
		Path:      req.GetPath(),
		Argv:      req.GetArgv(),
		WorldSize: int(req.GetWorldSize()),
	})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toProtoJob(job), nil
}

func (s *JobControlService) ReportJobState(ctx context.Context, req *pb.ReportJobStateRequest) (*pb.Job, error) {
	id, err := parseJobID(req.GetId())
	if err != nil {
		return nil, err
	}
	state, err := StateFromProto(req.GetState())
	if err != nil {
		return nil, s.toStatus(err)
	}
	job, err := s.jobService.UpdateJobState(id, state)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toProtoJob(job), nil
}

func (s *JobControlService) GetSlots(ctx context.Context, req *pb.GetSlotsRequest) (*pb.Slots, error) {
	return toProtoSlots(s.jobService.Slots()), nil
}

// An id that is not a UUID names no job.
func parseJobID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.NotFound, "%s: %q", core.ErrJobNotFound, raw)
	}
	return id, nil
}

func (s *JobControlService) toStatus(err error) error {
	var admission *core.AdmissionError
	switch {
	case errors.As(err, &admission):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, core.ErrJobNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, core.ErrFinalState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, core.ErrInvalidState),
		errors.Is(err, core.ErrInvalidJob),
		errors.Is(err, core.ErrModuleNotAllowed):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error("Request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

var _ pb.JobControlServer = (*JobControlService)(nil)
