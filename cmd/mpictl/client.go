package main

import (
	"context"
	"fmt"

	"github.com/nemanja-m/wasimpi/internal/controller/api/grpc"
	"github.com/nemanja-m/wasimpi/internal/controller/api/rest"
	"github.com/nemanja-m/wasimpi/internal/controller/core"
	pb "github.com/nemanja-m/wasimpi/internal/shared/proto"
)

const (
	transportREST = "rest"
	transportGRPC = "grpc"
)

// controlClient is what the commands need from either transport. Results
// use the REST shapes so both print the same way.
type controlClient interface {
	ListJobs(ctx context.Context, state string, limit, offset int) (*rest.ListJobsResponse, error)
	GetJob(ctx context.Context, id string) (*rest.JobResponse, error)
	SubmitJob(ctx context.Context, req rest.SubmitJobRequest) (*rest.JobResponse, error)
	ReportJobState(ctx context.Context, id, state string) error
	GetSlots(ctx context.Context) (*rest.SlotsResponse, error)
	Close() error
}

func dial(transport, addr string) (controlClient, error) {
	switch transport {
	case transportREST:
		return restClient{rest.NewClient(addr, nil)}, nil
	case transportGRPC:
		c, err := grpc.NewClient(addr)
		if err != nil {
			return nil, err
		}
		return grpcClient{c}, nil
	}
	return nil, fmt.Errorf("unknown transport %q (want %s or %s)", transport, transportREST, transportGRPC)
}

type restClient struct {
	*rest.Client
}

func (restClient) Close() error { return nil }

type grpcClient struct {
	c *grpc.Client
}

func (g grpcClient) ListJobs(ctx context.Context, state string, limit, offset int) (*rest.ListJobsResponse, error) {
	req := &pb.ListJobsRequest{Limit: int32(limit), Offset: int32(offset)}
	if state != "" {
		s, err := parseState(state)
		if err != nil {
			return nil, err
		}
		req.State = s
	}
	resp, err := g.c.ListJobs(ctx, req)
	if err != nil {
		return nil, err
	}
	total := int(resp.GetTotal())
	out := &rest.ListJobsResponse{
		Jobs:   make([]rest.JobResponse, 0, len(resp.GetJobs())),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, j := range resp.GetJobs() {
		out.Jobs = append(out.Jobs, fromGRPCJob(j))
	}
	if end := offset + len(resp.GetJobs()); limit > 0 && end < total {
		out.NextOffset = &end
	}
	return out, nil
}

func (g grpcClient) GetJob(ctx context.Context, id string) (*rest.JobResponse, error) {
	j, err := g.c.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	out := fromGRPCJob(j)
	return &out, nil
}

func (g grpcClient) SubmitJob(ctx context.Context, req rest.SubmitJobRequest) (*rest.JobResponse, error) {
	j, err := g.c.SubmitJob(ctx, &pb.SubmitJobRequest{
		Path:      req.Path,
		Argv:      req.Argv,
		WorldSize: int32(req.WorldSize),
	})
	if err != nil {
		return nil, err
	}
	out := fromGRPCJob(j)
	return &out, nil
}

func (g grpcClient) ReportJobState(ctx context.Context, id, state string) error {
	s, err := parseState(state)
	if err != nil {
		return err
	}
	_, err = g.c.ReportJobState(ctx, id, s)
	return err
}

func (g grpcClient) GetSlots(ctx context.Context) (*rest.SlotsResponse, error) {
	s, err := g.c.GetSlots(ctx)
	if err != nil {
		return nil, err
	}
	return &rest.SlotsResponse{
		UniverseSize: int(s.GetUniverseSize()),
		FreeSlots:    int(s.GetFreeSlots()),
		InUse:        int(s.GetInUse()),
	}, nil
}

func (g grpcClient) Close() error {
	return g.c.Close()
}

func parseState(raw string) (pb.JobState, error) {
	state, err := core.ParseJobState(raw)
	if err != nil {
		return pb.JobState_JOB_STATE_UNSPECIFIED, err
	}
	return grpc.StateToProto(state), nil
}

func fromGRPCJob(j *pb.Job) rest.JobResponse {
	argv := j.GetArgv()
	if argv == nil {
		argv = []string{}
	}
	state, _ := grpc.StateFromProto(j.GetState())
	return rest.JobResponse{
		ID:          j.GetId(),
		Path:        j.GetPath(),
		Argv:        argv,
		WorldSize:   int(j.GetWorldSize()),
		State:       string(state),
		Callback:    j.GetCallback(),
		SubmittedAt: j.GetSubmittedAt().AsTime(),
		UpdatedAt:   j.GetUpdatedAt().AsTime(),
	}
}
